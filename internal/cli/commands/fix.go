package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/output"
	"github.com/ccollicutt/scrobblefix/pkg/repair"
)

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &RepairOptions{}

	cmd := &cobra.Command{
		Use:   "fix [log-file]",
		Short: "Repair timestamps in a scrobbler log",
		Long: `Repair a scrobbler log whose records were dated with a reset clock.

Records dated before the cutoff are moved forward by the configured number
of days. Other records and the log header are kept. The repaired log is
written to stdout unless --output names a file; the report then goes to
stderr. The log file defaults to ` + logfile.DefaultFileName + `.

With --on-error=skip, lines that cannot be parsed are left out of the
repaired log and listed in the report.

Exit codes:
  0 - Every record repaired
  1 - Some lines skipped as invalid
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the repaired log to this file (default stdout)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&opts.OnError, "on-error", "", "Invalid line handling (fail|skip), overrides config")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Records processed concurrently (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.Report, "report", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include offending line text in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *RepairOptions) error {
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

	formatter, err := createFormatter(opts.Report, opts.Verbose, opts.Quiet)
	if err != nil {
		return err
	}

	r, err := newRepairer(cfg, opts, cmd.Flags().Changed("workers"))
	if err != nil {
		return err
	}

	result, err := repairFile(ctx, r, logPath)
	if err != nil {
		return err
	}

	header := outputHeader(cfg, result.Header)
	if err := writeLog(cmd.OutOrStdout(), opts.Output, header, result.Records); err != nil {
		return err
	}

	report := output.NewRepairReport([]*repair.Result{result}, cfg)
	w := reportWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Output)
	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if result.HasFailures() {
		ExitCode = 1
	}

	return nil
}
