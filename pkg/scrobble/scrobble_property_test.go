package scrobble

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// fieldGen generates free-text field values that cannot contain the separator.
func fieldGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[^\t\n]{0,24}`)
}

// optionalPositionGen generates present or absent track positions.
func optionalPositionGen() *rapid.Generator[Optional[uint32]] {
	return rapid.Custom(func(t *rapid.T) Optional[uint32] {
		if rapid.Bool().Draw(t, "hasPosition") {
			return Some(rapid.Uint32().Draw(t, "position"))
		}
		return None[uint32]()
	})
}

// optionalTrackIDGen generates present (non-empty) or absent track ids.
func optionalTrackIDGen() *rapid.Generator[Optional[string]] {
	return rapid.Custom(func(t *rapid.T) Optional[string] {
		if rapid.Bool().Draw(t, "hasTrackID") {
			return Some(rapid.StringMatching(`[0-9a-f\-]{1,36}`).Draw(t, "trackID"))
		}
		return None[string]()
	})
}

// recordGen generates valid records within the representable range.
func recordGen() *rapid.Generator[Record] {
	return rapid.Custom(func(t *rapid.T) Record {
		return Record{
			Artist:        fieldGen().Draw(t, "artist"),
			Album:         fieldGen().Draw(t, "album"),
			Track:         fieldGen().Draw(t, "track"),
			TrackPosition: optionalPositionGen().Draw(t, "position"),
			Duration:      rapid.Uint32().Draw(t, "duration"),
			Rating:        rapid.SampledFrom([]Rating{Listened, Skipped}).Draw(t, "rating"),
			Timestamp: time.Unix(
				rapid.Int64Range(MinTime.Unix(), MaxTime.Unix()).Draw(t, "timestamp"), 0,
			).UTC(),
			TrackID: optionalTrackIDGen().Draw(t, "trackID"),
		}
	})
}

// TestPropertySerializeParseRoundTrip verifies parse(serialize(r)) == r.
func TestPropertySerializeParseRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		rec := recordGen().Draw(t, "record")

		got, err := ParseInLocation(rec.String(), time.UTC)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", rec.String(), err)
		}
		if !got.Equal(rec) {
			t.Fatalf("round trip mismatch: got %#v, want %#v", got, rec)
		}
	})
}

// TestPropertySerializedLayout verifies every serialized record has exactly
// seven separators and never ends in a newline.
func TestPropertySerializedLayout(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		line := recordGen().Draw(t, "record").String()

		if n := strings.Count(line, "\t"); n != MandatoryFields {
			t.Fatalf("line %q has %d tabs, want %d", line, n, MandatoryFields)
		}
		if strings.HasSuffix(line, "\n") {
			t.Fatalf("line %q ends in newline", line)
		}
	})
}

// TestPropertyTimestampPreserved verifies the epoch seconds survive a round
// trip regardless of the parse location.
func TestPropertyTimestampPreserved(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		secs := rapid.Int64Range(MinTime.Unix(), MaxTime.Unix()).Draw(t, "secs")
		offset := rapid.IntRange(-12, 14).Draw(t, "offsetHours")
		loc := time.FixedZone("test", offset*60*60)

		line := "a\tb\tc\t\t1\tL\t" + strconv.FormatInt(secs, 10) + "\t"
		rec, err := ParseInLocation(line, loc)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", line, err)
		}
		if rec.Timestamp.Unix() != secs {
			t.Fatalf("Unix() = %d, want %d", rec.Timestamp.Unix(), secs)
		}
		if rec.String() != line {
			t.Fatalf("String() = %q, want %q", rec.String(), line)
		}
	})
}

// TestPropertyTruncatedNeverPanics verifies lines with fewer than seven tabs
// always fail with ErrTruncatedRecord.
func TestPropertyTruncatedNeverPanics(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		fields := rapid.SliceOfN(fieldGen(), 1, MandatoryFields).Draw(t, "fields")
		line := strings.Join(fields, "\t")

		_, err := ParseInLocation(line, time.UTC)
		if err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", line)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Kind != ErrTruncatedRecord {
			t.Fatalf("Parse(%q) error = %v, want truncated record", line, err)
		}
	})
}
