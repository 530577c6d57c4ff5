package logfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single record line.
const maxLineSize = 1024 * 1024

// ErrLineTooLong marks a line longer than the line size limit. The line is
// skipped and reading continues with the next one.
var ErrLineTooLong = errors.New("line too long")

// FileSource implements Source for a log file on an afero filesystem.
type FileSource struct {
	fs   afero.Fs
	path string

	file    afero.File
	scanner *bufio.Scanner
	split   *lineSplitter
	header  Header
	opened  bool
	openErr error
	lineNum int
}

// NewFileSource creates a Source reading the log at path.
func NewFileSource(fs afero.Fs, path string) *FileSource {
	return &FileSource{fs: fs, path: path}
}

// Name returns the file the source reads.
func (s *FileSource) Name() string {
	return s.path
}

// Header returns the log's preamble, opening the file if needed.
func (s *FileSource) Header() (Header, error) {
	if err := s.open(); err != nil {
		return Header{}, err
	}
	return s.header, nil
}

// Next returns the next line after the header.
// Returns io.EOF when the file is exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := s.open(); err != nil {
		return nil, err
	}
	if s.scanner == nil {
		return nil, io.EOF
	}

	if s.scanner.Scan() {
		s.lineNum++
		line := &Line{
			Text:    s.scanner.Text(),
			Source:  s.path,
			LineNum: s.lineNum,
		}
		if s.split.tooLong {
			line.Err = ErrLineTooLong
		}
		return line, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	s.scanner = nil
	return nil, io.EOF
}

// Close releases resources.
func (s *FileSource) Close() error {
	s.scanner = nil
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

func (s *FileSource) open() error {
	if !s.opened {
		s.opened = true
		s.openErr = s.readHeader()
	}
	return s.openErr
}

func (s *FileSource) readHeader() error {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", s.path, err)
	}
	s.file = f

	// Strip a UTF-8 BOM if an editor added one; other bytes pass through.
	r := transform.NewReader(f, unicode.BOMOverride(transform.Nop))
	s.split = &lineSplitter{max: maxLineSize}
	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s.scanner.Split(s.split.split)

	var headerLines []string
	for len(headerLines) < HeaderLines && s.scanner.Scan() {
		s.lineNum++
		headerLines = append(headerLines, s.scanner.Text())
	}
	if err := s.scanner.Err(); err != nil {
		return fmt.Errorf("reading header of %s: %w", s.path, err)
	}
	s.header = ParseHeader(headerLines)

	return nil
}

// lineSplitter is bufio.ScanLines with a length limit. A line reaching max
// bytes is consumed up to its newline and returned as an empty token with
// tooLong set, so one bad line does not stop the scanner.
type lineSplitter struct {
	max      int
	skipping bool
	tooLong  bool
}

func (l *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	l.tooLong = false
	if !l.skipping {
		advance, token, err := bufio.ScanLines(data, atEOF)
		if advance > 0 || token != nil || err != nil || len(data) < l.max {
			return advance, token, err
		}
		l.skipping = true
	}

	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		l.skipping, l.tooLong = false, true
		return i + 1, []byte{}, nil
	}
	if atEOF {
		l.skipping, l.tooLong = false, true
		return len(data), []byte{}, nil
	}
	return len(data), nil, nil
}

// SliceSource implements Source over lines held in memory. The header lines
// are skipped the same way FileSource skips them.
type SliceSource struct {
	name   string
	header Header
	lines  []string
	pos    int
}

// NewSliceSource creates a Source over the full content of a log, split on
// newlines.
func NewSliceSource(name, content string) *SliceSource {
	content = strings.TrimSuffix(content, "\n")
	var all []string
	if content != "" {
		all = strings.Split(content, "\n")
	}
	for i := range all {
		all[i] = strings.TrimSuffix(all[i], "\r")
	}

	n := min(HeaderLines, len(all))
	return &SliceSource{
		name:   name,
		header: ParseHeader(all[:n]),
		lines:  all[n:],
	}
}

// Name returns the name given to the source.
func (s *SliceSource) Name() string {
	return s.name
}

// Header returns the parsed preamble.
func (s *SliceSource) Header() (Header, error) {
	return s.header, nil
}

// Next returns the next line. Returns io.EOF when all lines were read.
func (s *SliceSource) Next(ctx context.Context) (*Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}
	line := &Line{
		Text:    s.lines[s.pos],
		Source:  s.name,
		LineNum: HeaderLines + s.pos + 1,
	}
	s.pos++
	return line, nil
}

// Close is a no-op.
func (s *SliceSource) Close() error {
	return nil
}
