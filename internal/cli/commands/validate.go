package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <feed-file>",
		Short: "Validate a feed file",
		Long: `Validate a quake feed file without starting the service.

Checks:
  - Every data line has exactly eight fields
  - Dates are YYYYMMDD and times are HHMMSS.mmm
  - Numeric fields parse

The first malformed line is reported and validation stops.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Validating %s...\n", path)

	st, err := loadFile(cmd, path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	all := st.All()
	_, _ = fmt.Fprintf(out, "\nFeed valid!\n")
	_, _ = fmt.Fprintf(out, "  Records: %d\n", len(all))

	first, ok := st.FirstQuake()
	if !ok {
		_, _ = fmt.Fprintf(out, "\nWarning: feed has no data lines\n")
		return nil
	}
	last, _ := st.LastQuake()

	maxMag := first
	for _, q := range all {
		if q.Magnitude > maxMag.Magnitude {
			maxMag = q
		}
	}

	_, _ = fmt.Fprintf(out, "  First:   %s (id %d)\n", first.OccurredAt.Format(timeLayout), first.ID)
	_, _ = fmt.Fprintf(out, "  Last:    %s (id %d)\n", last.OccurredAt.Format(timeLayout), last.ID)
	_, _ = fmt.Fprintf(out, "  Largest: M%g (id %d)\n", maxMag.Magnitude, maxMag.ID)
	return nil
}
