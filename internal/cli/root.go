// Package cli provides the command-line interface for scrobblefix.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/scrobblefix/internal/cli/commands"
	"github.com/ccollicutt/scrobblefix/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	logOpts := LoggingOptions{}

	rootCmd := &cobra.Command{
		Use:   "scrobblefix",
		Short: "Repair scrobbler logs written with a reset clock",
		Long: `scrobblefix repairs Rockbox AUDIOSCROBBLER/1.1 play-history logs.

When a player's real-time clock resets, every play it logs afterwards is
dated years in the past. scrobblefix finds records dated before a cutoff
and moves them forward by a fixed number of days, leaving correct records
and the log header untouched.

Configuration is optional. Settings are read from a YAML file (--config),
from a .env file in the working directory, and from the environment:
  SCROBBLEFIX_CUTOFF        RFC 3339 cutoff instant
  SCROBBLEFIX_OFFSET_DAYS   days added to records before the cutoff
  SCROBBLEFIX_TIMEZONE      Local, UTC or an IANA zone name
  SCROBBLEFIX_CLIENT        #CLIENT header of repaired logs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := InitLogging(logOpts, cmd.ErrOrStderr()); err != nil {
				return err
			}
			return config.LoadDotEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logOpts.Level, "log-level", "warn", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logOpts.File, "log-file", "", "Also write logs to this file (rotated)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewFixCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewMergeCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
