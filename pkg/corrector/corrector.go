// Package corrector shifts play timestamps recorded while a player's clock
// was reset back into their real historical window.
package corrector

import (
	"errors"
	"fmt"
	"time"

	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

const (
	// DefaultCutoff is the instant before which timestamps are considered
	// corrupted.
	DefaultCutoff = "2005-01-01T00:00:00Z"

	// DefaultOffsetDays is the number of days the reset clock lost, derived
	// from plays with known dates.
	DefaultOffsetDays = (365 * 22) + 215
)

// maxOffsetDays bounds the offset to the width of the representable range.
// Computed from Unix seconds: the range is wider than a time.Duration.
var maxOffsetDays = int((scrobble.MaxTime.Unix()-scrobble.MinTime.Unix())/secondsPerDay) + 1

const secondsPerDay = 24 * 60 * 60

// ErrOffsetOverflow is returned when a shifted timestamp would leave the
// representable range.
var ErrOffsetOverflow = errors.New("offset overflows representable time range")

// CorrectionError reports a record whose timestamp could not be shifted.
type CorrectionError struct {
	Timestamp time.Time
	Days      int
}

func (e *CorrectionError) Error() string {
	return fmt.Sprintf("adding %d days to %s: %v",
		e.Days, e.Timestamp.UTC().Format(time.RFC3339), ErrOffsetOverflow)
}

func (e *CorrectionError) Unwrap() error {
	return ErrOffsetOverflow
}

// Policy decides which records are corrupted and how far to move them.
type Policy struct {
	// Cutoff is the first instant considered correct.
	Cutoff time.Time

	// OffsetDays is the whole-day shift applied to records before Cutoff.
	OffsetDays int

	// Location is the zone whose calendar the day shift is applied in.
	// Nil means the location the record's timestamp is expressed in.
	Location *time.Location
}

// ParseCutoff parses an RFC 3339 cutoff instant.
func ParseCutoff(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing cutoff %q: %w", s, err)
	}
	return t, nil
}

// DefaultPolicy returns the calibrated policy for the reset iPod clock.
func DefaultPolicy() Policy {
	return Policy{
		Cutoff:     time.Date(2005, time.January, 1, 0, 0, 0, 0, time.UTC),
		OffsetDays: DefaultOffsetDays,
	}
}

// Validate reports whether the policy can be applied.
func (p Policy) Validate() error {
	if p.Cutoff.IsZero() {
		return errors.New("cutoff is required")
	}
	if p.Cutoff.Before(scrobble.MinTime) || p.Cutoff.After(scrobble.MaxTime) {
		return fmt.Errorf("cutoff %s is outside the representable range", p.Cutoff.Format(time.RFC3339))
	}
	if p.OffsetDays < 0 {
		return fmt.Errorf("offset_days must be >= 0, got %d", p.OffsetDays)
	}
	return nil
}

// NeedsCorrection reports whether rec falls before the cutoff.
func (p Policy) NeedsCorrection(rec scrobble.Record) bool {
	return rec.Timestamp.Before(p.Cutoff)
}

// Correct returns rec unchanged when its timestamp is at or after the cutoff,
// and otherwise a copy moved forward by OffsetDays calendar days.
func (p Policy) Correct(rec scrobble.Record) (scrobble.Record, error) {
	if !p.NeedsCorrection(rec) {
		return rec, nil
	}

	shifted, err := p.shift(rec.Timestamp)
	if err != nil {
		return scrobble.Record{}, err
	}
	return rec.WithTimestamp(shifted), nil
}

func (p Policy) shift(ts time.Time) (time.Time, error) {
	if p.OffsetDays > maxOffsetDays || p.OffsetDays < -maxOffsetDays {
		return time.Time{}, &CorrectionError{Timestamp: ts, Days: p.OffsetDays}
	}

	loc := p.Location
	if loc == nil {
		loc = ts.Location()
	}

	shifted := ts.In(loc).AddDate(0, 0, p.OffsetDays)
	if shifted.Before(scrobble.MinTime) || shifted.After(scrobble.MaxTime) {
		return time.Time{}, &CorrectionError{Timestamp: ts, Days: p.OffsetDays}
	}
	return shifted.In(ts.Location()), nil
}

// Correct applies the default offset to rec using the given cutoff.
func Correct(rec scrobble.Record, cutoff time.Time) (scrobble.Record, error) {
	p := DefaultPolicy()
	p.Cutoff = cutoff
	return p.Correct(rec)
}
