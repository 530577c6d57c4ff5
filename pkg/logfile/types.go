// Package logfile reads and writes AUDIOSCROBBLER/1.1 log files.
package logfile

// DefaultFileName is the name Rockbox gives its play-history log.
const DefaultFileName = "scrobbler.log"

// Line is a candidate record line read from a log file.
type Line struct {
	// Text is the line content without its line terminator.
	Text string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Err is set when the line could not be read in full, e.g.
	// ErrLineTooLong. Text is empty then.
	Err error
}
