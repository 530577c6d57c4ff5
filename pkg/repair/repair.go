package repair

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/scrobblefix/pkg/corrector"
	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

// Repairer applies a correction policy to every record of a log.
type Repairer struct {
	policy corrector.Policy

	// Options
	location *time.Location
	workers  int
	mode     ErrorMode
}

// Option configures repairer behavior.
type Option func(*Repairer)

// WithLocation sets the zone timestamps are interpreted in while parsing.
func WithLocation(loc *time.Location) Option {
	return func(r *Repairer) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithWorkers bounds the number of lines processed concurrently.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Repairer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithErrorMode selects fail-fast or skip handling of bad lines.
func WithErrorMode(mode ErrorMode) Option {
	return func(r *Repairer) {
		r.mode = mode
	}
}

// New creates a Repairer for the given policy.
func New(policy corrector.Policy, opts ...Option) (*Repairer, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid correction policy: %w", err)
	}

	r := &Repairer{
		policy:   policy,
		location: time.Local,
		workers:  runtime.GOMAXPROCS(0),
		mode:     FailFast,
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := ParseErrorMode(string(r.mode)); err != nil {
		return nil, err
	}
	return r, nil
}

// RepairLine parses one record line and applies the policy. The returned
// bool reports whether the timestamp was shifted.
func (r *Repairer) RepairLine(text string) (scrobble.Record, bool, error) {
	rec, err := scrobble.ParseInLocation(text, r.location)
	if err != nil {
		return scrobble.Record{}, false, err
	}
	if !r.policy.NeedsCorrection(rec) {
		return rec, false, nil
	}
	fixed, err := r.policy.Correct(rec)
	if err != nil {
		return scrobble.Record{}, false, err
	}
	return fixed, true, nil
}

type slot struct {
	rec       scrobble.Record
	corrected bool
	err       *LineError
}

// Run repairs every record line of src. Output order matches input order
// whatever the number of workers.
//
// In FailFast mode the first failing line (by position) is returned as a
// *LineError. In Skip mode failing lines are left out of Result.Records and
// listed in Result.Failures.
func (r *Repairer) Run(ctx context.Context, src logfile.Source) (*Result, error) {
	result := &Result{
		Source: src.Name(),
		Stats:  Stats{StartTime: time.Now()},
	}

	header, err := src.Header()
	if err != nil {
		return nil, err
	}
	result.Header = header
	if !header.Supported() {
		log.Warn().Str("version", header.Version).Msg("unexpected log format version")
	}

	lines, err := readLines(ctx, src)
	if err != nil {
		return nil, err
	}
	result.Stats.LinesRead = len(lines)

	slots := make([]slot, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	// Lines are dispatched in order and started goroutines always finish,
	// so every line before the first failure has been processed.
	for i, line := range lines {
		i, line := i, line
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			var (
				rec       scrobble.Record
				corrected bool
				err       = line.Err
			)
			if err == nil {
				rec, corrected, err = r.RepairLine(line.Text)
			}
			if err != nil {
				le := &LineError{
					Source:  line.Source,
					LineNum: line.LineNum,
					Text:    line.Text,
					Err:     err,
				}
				slots[i].err = le
				if r.mode == FailFast {
					return le
				}
				return nil
			}
			slots[i] = slot{rec: rec, corrected: corrected}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var le *LineError
		if !errors.As(err, &le) {
			return nil, err
		}
		return nil, firstFailure(slots)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Records = make([]scrobble.Record, 0, len(lines))
	for i := range slots {
		s := &slots[i]
		switch {
		case s.err != nil:
			result.Failures = append(result.Failures, s.err)
			result.Stats.Failed++
			log.Warn().
				Str("source", s.err.Source).
				Int("line", s.err.LineNum).
				Err(s.err.Err).
				Msg("skipping invalid record")
		case s.corrected:
			result.Records = append(result.Records, s.rec)
			result.Stats.Corrected++
			log.Debug().
				Int("line", lines[i].LineNum).
				Time("timestamp", s.rec.Timestamp).
				Msg("corrected record")
		default:
			result.Records = append(result.Records, s.rec)
			result.Stats.Unchanged++
		}
	}

	result.Stats.EndTime = time.Now()
	return result, nil
}

func firstFailure(slots []slot) error {
	for i := range slots {
		if slots[i].err != nil {
			return slots[i].err
		}
	}
	return errors.New("repair failed")
}

func readLines(ctx context.Context, src logfile.Source) ([]*logfile.Line, error) {
	var lines []*logfile.Line
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
}
