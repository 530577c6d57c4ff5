// Package inspect scans a scrobbler log for records written while the
// player's clock was reset, without changing anything.
package inspect

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ccollicutt/scrobblefix/pkg/corrector"
	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

// Run is a contiguous stretch of records dated before the cutoff.
type Run struct {
	FirstLine int       // Line number of the first record in the run
	LastLine  int       // Line number of the last record in the run
	Count     int       // Number of records in the run
	Earliest  time.Time // Oldest timestamp in the run
	Latest    time.Time // Newest timestamp in the run
}

// Report holds what a scan found.
type Report struct {
	Source       string
	Header       logfile.Header
	LinesRead    int
	Records      int            // Lines that parsed
	Invalid      map[string]int // Unparseable lines by error kind
	BeforeCutoff int            // Records that would be corrected
	Earliest     time.Time      // Oldest record timestamp
	Latest       time.Time      // Newest record timestamp
	Runs         []Run
}

// Suspicious reports whether any record falls before the cutoff.
func (r *Report) Suspicious() bool {
	return r.BeforeCutoff > 0
}

// InvalidLines returns the total number of unparseable lines.
func (r *Report) InvalidLines() int {
	n := 0
	for _, c := range r.Invalid {
		n += c
	}
	return n
}

// Scanner inspects logs against a correction policy.
type Scanner struct {
	policy   corrector.Policy
	location *time.Location
}

// Option configures the Scanner.
type Option func(*Scanner)

// WithLocation sets the zone timestamps are parsed in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(s *Scanner) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New creates a Scanner for the given policy.
func New(policy corrector.Policy, opts ...Option) *Scanner {
	s := &Scanner{
		policy:   policy,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan reads every line of src. Unparseable lines are counted, never fatal;
// they do not interrupt a run of pre-cutoff records.
func (s *Scanner) Scan(ctx context.Context, src logfile.Source) (*Report, error) {
	header, err := src.Header()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Source:  src.Name(),
		Header:  header,
		Invalid: make(map[string]int),
	}

	var current *Run
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		report.LinesRead++

		if line.Err != nil {
			report.Invalid[errorKind(line.Err)]++
			log.Debug().Str("source", line.Source).Int("line", line.LineNum).Err(line.Err).Msg("unreadable line")
			continue
		}

		rec, err := scrobble.ParseInLocation(line.Text, s.location)
		if err != nil {
			report.Invalid[errorKind(err)]++
			log.Debug().Str("source", line.Source).Int("line", line.LineNum).Err(err).Msg("unparseable record")
			continue
		}
		report.Records++
		report.observe(rec.Timestamp)

		if !s.policy.NeedsCorrection(rec) {
			if current != nil {
				report.Runs = append(report.Runs, *current)
				current = nil
			}
			continue
		}

		report.BeforeCutoff++
		if current == nil {
			current = &Run{
				FirstLine: line.LineNum,
				Earliest:  rec.Timestamp,
				Latest:    rec.Timestamp,
			}
		}
		current.LastLine = line.LineNum
		current.Count++
		if rec.Timestamp.Before(current.Earliest) {
			current.Earliest = rec.Timestamp
		}
		if rec.Timestamp.After(current.Latest) {
			current.Latest = rec.Timestamp
		}
	}
	if current != nil {
		report.Runs = append(report.Runs, *current)
	}

	return report, nil
}

// observe widens the timestamp range; Records already counts ts.
func (r *Report) observe(ts time.Time) {
	if r.Records == 1 || ts.Before(r.Earliest) {
		r.Earliest = ts
	}
	if r.Records == 1 || ts.After(r.Latest) {
		r.Latest = ts
	}
}

// errorKind maps a parse error to a short stable name.
func errorKind(err error) string {
	switch {
	case errors.Is(err, logfile.ErrLineTooLong):
		return "line_too_long"
	case errors.Is(err, scrobble.ErrTruncatedRecord):
		return "truncated_record"
	case errors.Is(err, scrobble.ErrInvalidTrackPosition):
		return "invalid_track_position"
	case errors.Is(err, scrobble.ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, scrobble.ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, scrobble.ErrInvalidTimestamp):
		return "invalid_timestamp"
	default:
		return "other"
	}
}
