// Package repair runs the parse, correct, serialize pipeline over a log.
package repair

import (
	"fmt"
	"time"

	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

// ErrorMode decides what happens to lines that fail to repair.
type ErrorMode string

const (
	// FailFast aborts the run at the first failing line.
	FailFast ErrorMode = "fail"

	// Skip drops failing lines from the output and reports them.
	Skip ErrorMode = "skip"
)

// ParseErrorMode validates a mode name.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch ErrorMode(s) {
	case FailFast, Skip:
		return ErrorMode(s), nil
	default:
		return "", fmt.Errorf("invalid error mode %q (must be fail or skip)", s)
	}
}

// LineError ties a parse or correction failure to its position in a log.
type LineError struct {
	Source  string
	LineNum int
	Text    string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.LineNum, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Stats contains counters for a run.
type Stats struct {
	// LinesRead is the number of record lines examined.
	LinesRead int

	// Corrected is the number of records whose timestamp was shifted.
	Corrected int

	// Unchanged is the number of records already on or after the cutoff.
	Unchanged int

	// Failed is the number of lines that could not be repaired.
	Failed int

	// StartTime is when the run began.
	StartTime time.Time

	// EndTime is when the run completed.
	EndTime time.Time
}

// Result is the outcome of repairing one log.
type Result struct {
	// Source is the log the records came from.
	Source string

	// Header is the preamble of the input log.
	Header logfile.Header

	// Records are the repaired records in input order.
	Records []scrobble.Record

	// Failures lists lines dropped in Skip mode, in input order.
	Failures []*LineError

	Stats Stats
}

// Lines returns the serialized records.
func (r *Result) Lines() []string {
	lines := make([]string, len(r.Records))
	for i, rec := range r.Records {
		lines[i] = rec.String()
	}
	return lines
}

// HasFailures returns true if any line was dropped.
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}
