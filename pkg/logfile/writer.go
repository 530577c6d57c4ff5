package logfile

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits a log: the header once, then one record per line.
type Writer struct {
	w       *bufio.Writer
	header  Header
	started bool
	lines   int
}

// NewWriter creates a Writer that will start its output with h.
func NewWriter(w io.Writer, h Header) *Writer {
	return &Writer{
		w:      bufio.NewWriter(w),
		header: h,
	}
}

// WriteLine appends a serialized record.
func (w *Writer) WriteLine(line string) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	if w.lines > 0 {
		if err := w.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing log: %w", err)
		}
	}
	if _, err := w.w.WriteString(line); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	w.lines++
	return nil
}

// Lines returns the number of records written so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Close terminates the last record and flushes buffered output. The header
// is written even when no records were.
func (w *Writer) Close() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	if w.lines > 0 {
		if err := w.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing log: %w", err)
		}
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flushing log: %w", err)
	}
	return nil
}

func (w *Writer) writeHeader() error {
	if w.started {
		return nil
	}
	w.started = true
	if _, err := w.w.WriteString(w.header.String()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}
