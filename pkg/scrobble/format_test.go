package scrobble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_String(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "all fields",
			rec: Record{
				Artist:        "Artist",
				Album:         "Album",
				Track:         "Track",
				TrackPosition: Some[uint32](3),
				Duration:      215,
				Rating:        Listened,
				Timestamp:     time.Unix(978307200, 0),
				TrackID:       Some("abc123"),
			},
			want: "Artist\tAlbum\tTrack\t3\t215\tL\t978307200\tabc123",
		},
		{
			name: "absent optionals become empty fields",
			rec: Record{
				Artist:    "Artist",
				Album:     "Album",
				Track:     "Track",
				Duration:  60,
				Rating:    Skipped,
				Timestamp: time.Unix(1104537600, 0),
			},
			want: "Artist\tAlbum\tTrack\t\t60\tS\t1104537600\t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.String())
			assert.Equal(t, tt.want, Serialize(tt.rec))
		})
	}
}

func TestRecord_String_IgnoresLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	rec := Record{Rating: Listened, Timestamp: time.Unix(978307200, 0).In(tokyo)}
	assert.Equal(t, "\t\t\t\t0\tL\t978307200\t", rec.String())
}

func TestRoundTrip_Lines(t *testing.T) {
	lines := []string{
		"Artist\tAlbum\tTrack\t3\t215\tL\t978307200\tabc123",
		"Artist\tAlbum\tTrack\t\t215\tS\t978307200\t",
		"\t\t\t\t0\tL\t-1\t",
		"Sigur Rós\t( )\tUntitled #1\t1\t398\tL\t1041379200\t5e7c6f1a-0000-4000-8000-000000000000",
	}

	for _, line := range lines {
		rec, err := ParseInLocation(line, time.UTC)
		require.NoError(t, err, line)
		assert.Equal(t, line, rec.String())
	}
}

func TestRecord_WithTimestamp(t *testing.T) {
	orig := Record{Artist: "a", Rating: Listened, Timestamp: time.Unix(1, 0)}
	moved := orig.WithTimestamp(time.Unix(2, 0))

	assert.Equal(t, int64(1), orig.Timestamp.Unix())
	assert.Equal(t, int64(2), moved.Timestamp.Unix())
	assert.Equal(t, "a", moved.Artist)
	assert.False(t, orig.Equal(moved))
}
