// Package scrobble parses and formats records of the Rockbox
// AUDIOSCROBBLER/1.1 play-history log.
package scrobble

import (
	"fmt"
	"time"
)

// FieldSeparator separates the fields of a record line.
const FieldSeparator = '\t'

// MandatoryFields is the number of tab-terminated fields every record carries.
const MandatoryFields = 7

// Representable instant range. Timestamps outside it cannot be parsed and
// corrections that would leave it fail.
var (
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Rating records whether a track was played through or abandoned.
type Rating uint8

const (
	// Listened means the track was played to the end ("L").
	Listened Rating = iota + 1
	// Skipped means the track was abandoned ("S").
	Skipped
)

// ParseRating decodes a wire rating code. Only "L" and "S" are accepted.
func ParseRating(s string) (Rating, bool) {
	switch s {
	case "L":
		return Listened, true
	case "S":
		return Skipped, true
	default:
		return 0, false
	}
}

// String returns the wire code of the rating.
func (r Rating) String() string {
	switch r {
	case Listened:
		return "L"
	case Skipped:
		return "S"
	default:
		return fmt.Sprintf("Rating(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the two defined ratings.
func (r Rating) Valid() bool {
	return r == Listened || r == Skipped
}

// Optional holds a value that may be absent.
type Optional[T comparable] struct {
	value T
	ok    bool
}

// Some returns a present optional holding v.
func Some[T comparable](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent optional.
func None[T comparable]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present reports whether a value is held.
func (o Optional[T]) Present() bool {
	return o.ok
}

// Record is a single play-history entry.
//
// Records are values: correcting one produces a new Record and leaves the
// original as it was.
type Record struct {
	Artist string
	Album  string
	Track  string

	// TrackPosition is the position of the track on its album, if known.
	TrackPosition Optional[uint32]

	// Duration is the song length in whole seconds.
	Duration uint32

	Rating Rating

	// Timestamp is when the play happened, second precision, expressed in
	// the location used when the line was parsed.
	Timestamp time.Time

	// TrackID is the MusicBrainz track identifier, if the player wrote one.
	TrackID Optional[string]
}

// WithTimestamp returns a copy of r with its timestamp replaced.
func (r Record) WithTimestamp(ts time.Time) Record {
	r.Timestamp = ts
	return r
}

// Equal reports whether two records hold the same fields. Timestamps are
// compared as instants, so the location they are expressed in is ignored.
func (r Record) Equal(o Record) bool {
	return r.Artist == o.Artist &&
		r.Album == o.Album &&
		r.Track == o.Track &&
		r.TrackPosition == o.TrackPosition &&
		r.Duration == o.Duration &&
		r.Rating == o.Rating &&
		r.Timestamp.Equal(o.Timestamp) &&
		r.TrackID == o.TrackID
}
