package scrobble

import (
	"strconv"
	"strings"
)

// String renders the record in its wire form: eight tab-separated values,
// without a trailing tab or newline.
func (r Record) String() string {
	var b strings.Builder
	b.Grow(len(r.Artist) + len(r.Album) + len(r.Track) + 48)

	b.WriteString(r.Artist)
	b.WriteByte(FieldSeparator)
	b.WriteString(r.Album)
	b.WriteByte(FieldSeparator)
	b.WriteString(r.Track)
	b.WriteByte(FieldSeparator)
	if pos, ok := r.TrackPosition.Get(); ok {
		b.WriteString(strconv.FormatUint(uint64(pos), 10))
	}
	b.WriteByte(FieldSeparator)
	b.WriteString(strconv.FormatUint(uint64(r.Duration), 10))
	b.WriteByte(FieldSeparator)
	b.WriteString(r.Rating.String())
	b.WriteByte(FieldSeparator)
	b.WriteString(strconv.FormatInt(r.Timestamp.Unix(), 10))
	b.WriteByte(FieldSeparator)
	if id, ok := r.TrackID.Get(); ok {
		b.WriteString(id)
	}

	return b.String()
}

// Serialize is the inverse of Parse for records that parsed successfully.
func Serialize(r Record) string {
	return r.String()
}
