package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/scrobblefix/pkg/config"
	"github.com/ccollicutt/scrobblefix/pkg/logfile"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a scrobblefix configuration file without repairing anything.

Checks:
  - YAML syntax
  - Cutoff is an RFC 3339 instant
  - Offset is a non-negative number of days
  - Time zone is known
  - on_error and workers values`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, FS, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	client := cfg.Client
	if client == "" {
		client = "(from input log, default " + logfile.DefaultClient + ")"
	}
	workers := "one per CPU"
	if cfg.Workers > 0 {
		workers = fmt.Sprintf("%d", cfg.Workers)
	}

	// Report what we found
	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Cutoff:      %s\n", cfg.CutoffTime().Format(time.RFC3339))
	fmt.Fprintf(out, "  Offset:      %d days\n", cfg.OffsetDays)
	fmt.Fprintf(out, "  Time zone:   %s\n", cfg.Location())
	fmt.Fprintf(out, "  Client:      %s\n", client)
	fmt.Fprintf(out, "  On error:    %s\n", cfg.OnError)
	fmt.Fprintf(out, "  Workers:     %s\n", workers)

	return nil
}
