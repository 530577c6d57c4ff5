package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/output"
	"github.com/ccollicutt/scrobblefix/pkg/repair"
	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	opts := &RepairOptions{}

	cmd := &cobra.Command{
		Use:   "merge <log-file|pattern>...",
		Short: "Repair several scrobbler logs into one",
		Long: `Repair each log then merge the records into a single log ordered by
timestamp. Records with equal timestamps keep the order of the inputs as
given (after glob expansion, which is sorted).

The merged log keeps the #CLIENT header of the first input unless the
configuration sets one.

Exit codes:
  0 - Every record repaired
  1 - Some lines skipped as invalid
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the merged log to this file (default stdout)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&opts.OnError, "on-error", "", "Invalid line handling (fail|skip), overrides config")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Records processed concurrently (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.Report, "report", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include offending line text in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runMerge(cmd *cobra.Command, args []string, opts *RepairOptions) error {
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

	files, err := logfile.ExpandGlobs(FS, args)
	if err != nil {
		return fmt.Errorf("expanding log files: %w", err)
	}

	r, err := newRepairer(cfg, opts, cmd.Flags().Changed("workers"))
	if err != nil {
		return err
	}

	results := make([]*repair.Result, 0, len(files))
	inputs := make([][]scrobble.Record, 0, len(files))
	for _, file := range files {
		result, err := repairFile(ctx, r, file)
		if err != nil {
			return err
		}
		log.Info().Str("source", file).Int("records", len(result.Records)).Msg("repaired log")

		// A log may still be out of order, e.g. records older than one
		// offset before the cutoff.
		records := slices.Clone(result.Records)
		slices.SortStableFunc(records, func(a, b scrobble.Record) int {
			return a.Timestamp.Compare(b.Timestamp)
		})

		results = append(results, result)
		inputs = append(inputs, records)
	}

	merged := logfile.MergeRecords(inputs...)

	header := outputHeader(cfg, results[0].Header)
	if err := writeLog(cmd.OutOrStdout(), opts.Output, header, merged); err != nil {
		return err
	}

	report := output.NewRepairReport(results, cfg)
	w := reportWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Output)
	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	for _, res := range results {
		if res.HasFailures() {
			ExitCode = 1
		}
	}

	return nil
}
