package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/scrobblefix/pkg/inspect"
	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/output"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	Config  string
	Output  string
	Verbose bool
	Quiet   bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [log-file]",
		Short: "Report records dated before the cutoff",
		Long: `Scan a scrobbler log without changing it and report:
  - The range of record timestamps
  - Records dated before the cutoff, grouped into runs of consecutive lines
  - Lines that cannot be parsed, by kind

The log file defaults to ` + logfile.DefaultFileName + `.

Exit codes:
  0 - Nothing to repair
  1 - Records before the cutoff or invalid lines found
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show more detail")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	logPath := logfile.DefaultFileName
	if len(args) > 0 {
		logPath = args[0]
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}

	formatter, err := createFormatter(opts.Output, opts.Verbose, opts.Quiet)
	if err != nil {
		return err
	}

	scanner := inspect.New(cfg.Policy(), inspect.WithLocation(cfg.Location()))

	src := logfile.NewFileSource(FS, logPath)
	defer src.Close()

	start := time.Now()
	scan, err := scanner.Scan(ctx, src)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", logPath, err)
	}

	report := output.NewInspectReport(scan, cfg, time.Since(start))
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}
