package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/ccollicutt/scrobblefix/pkg/config"
	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/output"
	"github.com/ccollicutt/scrobblefix/pkg/repair"
	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// FS is the filesystem logs are read from and written to.
var FS afero.Fs = afero.NewOsFs()

// RepairOptions holds the flags shared by commands that repair logs.
type RepairOptions struct {
	Config  string
	Output  string
	OnError string
	Workers int
	Report  string
	Verbose bool
	Quiet   bool
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.LoadDefault(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(ctx, FS, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newRepairer builds a Repairer from the configuration, with command-line
// flags taking precedence.
func newRepairer(cfg *config.Config, opts *RepairOptions, workersSet bool) (*repair.Repairer, error) {
	mode := cfg.OnError
	if opts.OnError != "" {
		mode = opts.OnError
	}
	errMode, err := repair.ParseErrorMode(mode)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workersSet {
		workers = opts.Workers
	}

	r, err := repair.New(cfg.Policy(),
		repair.WithLocation(cfg.Location()),
		repair.WithWorkers(workers),
		repair.WithErrorMode(errMode),
	)
	if err != nil {
		return nil, fmt.Errorf("creating repairer: %w", err)
	}
	return r, nil
}

func repairFile(ctx context.Context, r *repair.Repairer, path string) (*repair.Result, error) {
	src := logfile.NewFileSource(FS, path)
	defer src.Close()

	result, err := r.Run(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("repairing %s: %w", path, err)
	}
	return result, nil
}

// outputHeader picks the header of a repaired log: the configured client
// wins over the input's, which wins over the default.
func outputHeader(cfg *config.Config, in logfile.Header) logfile.Header {
	client := cfg.Client
	if client == "" {
		client = in.Client
	}
	return logfile.NewHeader(client)
}

// writeLog writes a complete log to path, or to stdout when path is empty
// or "-". The log is assembled in memory first so a file can be repaired in
// place.
func writeLog(stdout io.Writer, path string, header logfile.Header, records []scrobble.Record) error {
	var buf bytes.Buffer
	w := logfile.NewWriter(&buf, header)
	for _, rec := range records {
		if err := w.WriteLine(rec.String()); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	if toStdout(path) {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := afero.WriteFile(FS, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func toStdout(path string) bool {
	return path == "" || path == "-"
}

// reportWriter returns where the report goes: stderr when the log itself
// is written to stdout.
func reportWriter(stdout, stderr io.Writer, logPath string) io.Writer {
	if toStdout(logPath) {
		return stderr
	}
	return stdout
}

func createFormatter(name string, verbose, quiet bool) (output.Formatter, error) {
	return output.NewFormatter(name, output.FormatOptions{
		Verbose: verbose,
		Quiet:   quiet,
	})
}
