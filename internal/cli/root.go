// Package cli provides the feedcheck command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-map-service/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this itself.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "feedcheck",
		Short: "Inspect quake feed files",
		Long: `feedcheck works with the flat text quake feed served to the map.

Feed lines hold eight whitespace-separated fields after a header line:
  id date(YYYYMMDD) time(HHMMSS.mmm) lat long depth m ml

Feeds carry no time zone; --timezone selects the zone they are read in.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("timezone", "Local", "IANA time zone the feed timestamps are in")

	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewWindowCommand())
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
