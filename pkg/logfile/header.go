package logfile

import (
	"fmt"
	"strings"
)

// HeaderLines is the number of lines preceding the first record.
const HeaderLines = 3

const (
	// FormatVersion is the only log format version handled.
	FormatVersion = "1.1"

	// DefaultTZ is written to the #TZ line; the player never knew its zone.
	DefaultTZ = "UNKNOWN"

	// DefaultClient identifies the player that wrote the original logs.
	DefaultClient = "Rockbox ipodvideo $Revision$"
)

const (
	formatPrefix = "#AUDIOSCROBBLER/"
	tzPrefix     = "#TZ/"
	clientPrefix = "#CLIENT/"
)

// Header is the three-line preamble of a log file.
type Header struct {
	Version string
	TZ      string
	Client  string
}

// NewHeader returns the header written to repaired logs.
func NewHeader(client string) Header {
	if client == "" {
		client = DefaultClient
	}
	return Header{
		Version: FormatVersion,
		TZ:      DefaultTZ,
		Client:  client,
	}
}

// ParseHeader extracts what it can from the first lines of a log. Lines that
// do not carry the expected prefix leave the matching field empty; records
// are never interpreted as header lines by the caller regardless.
func ParseHeader(lines []string) Header {
	var h Header
	for i, line := range lines {
		if i >= HeaderLines {
			break
		}
		switch {
		case strings.HasPrefix(line, formatPrefix):
			h.Version = strings.TrimPrefix(line, formatPrefix)
		case strings.HasPrefix(line, tzPrefix):
			h.TZ = strings.TrimPrefix(line, tzPrefix)
		case strings.HasPrefix(line, clientPrefix):
			h.Client = strings.TrimPrefix(line, clientPrefix)
		}
	}
	return h
}

// Supported reports whether the header announces the handled format version.
func (h Header) Supported() bool {
	return h.Version == FormatVersion
}

// String renders the header including the trailing newline.
func (h Header) String() string {
	return fmt.Sprintf("%s%s\n%s%s\n%s%s\n",
		formatPrefix, h.Version,
		tzPrefix, h.TZ,
		clientPrefix, h.Client)
}
