package logfile

import (
	"context"
)

// Source provides an iterator over the record lines of a log.
// Implementations must be safe for sequential access (not concurrent).
type Source interface {
	// Name identifies the log, usually its path.
	Name() string

	// Header returns the log's preamble. It may read from the underlying
	// file the first time it is called.
	Header() (Header, error)

	// Next returns the next record line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}
