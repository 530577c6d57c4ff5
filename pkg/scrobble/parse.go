package scrobble

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var errOutOfRange = errors.New("outside representable time range")

// Parse decodes one log line into a Record, interpreting the timestamp in the
// process's local time zone.
func Parse(line string) (Record, error) {
	return ParseInLocation(line, time.Local)
}

// ParseInLocation decodes one log line into a Record with its timestamp
// expressed in loc.
//
// The line must hold seven tab-terminated fields, optionally followed by the
// track identifier. Fields are decoded in order and the first failure is
// returned as a *ParseError.
func ParseInLocation(line string, loc *time.Location) (Record, error) {
	if loc == nil {
		loc = time.Local
	}

	var fields [MandatoryFields]string
	rest := line
	for i := range fields {
		idx := strings.IndexByte(rest, FieldSeparator)
		if idx < 0 {
			return Record{}, parseError(ErrTruncatedRecord, rest, nil)
		}
		fields[i] = rest[:idx]
		rest = rest[idx+1:]
	}

	// strings.Clone keeps the record independent of the line's backing array.
	rec := Record{
		Artist: strings.Clone(fields[0]),
		Album:  strings.Clone(fields[1]),
		Track:  strings.Clone(fields[2]),
	}

	if fields[3] != "" {
		pos, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			return Record{}, parseError(ErrInvalidTrackPosition, fields[3], numError(err))
		}
		rec.TrackPosition = Some(uint32(pos))
	}

	dur, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return Record{}, parseError(ErrInvalidDuration, fields[4], numError(err))
	}
	rec.Duration = uint32(dur)

	rating, ok := ParseRating(fields[5])
	if !ok {
		return Record{}, parseError(ErrInvalidRating, fields[5], nil)
	}
	rec.Rating = rating

	ts, err := ParseTimestamp(fields[6], loc)
	if err != nil {
		return Record{}, parseError(ErrInvalidTimestamp, fields[6], err)
	}
	rec.Timestamp = ts

	if rest != "" {
		rec.TrackID = Some(strings.Clone(rest))
	}

	return rec, nil
}

// ParseTimestamp converts decimal Unix epoch seconds into an instant in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, numError(err)
	}
	if secs < MinTime.Unix() || secs > MaxTime.Unix() {
		return time.Time{}, errOutOfRange
	}
	return time.Unix(secs, 0).In(loc), nil
}

// numError drops the redundant function name and input from strconv errors;
// ParseError already carries the field text.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
