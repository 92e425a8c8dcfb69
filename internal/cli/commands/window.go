package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/render"
)

const timeLayout = "2006-01-02 15:04:05.000 MST"

// NewWindowCommand creates the window command.
func NewWindowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window <feed-file>",
		Short: "Print the records inside a time window",
		Long: `Load a feed file and print the records whose time falls in [--from, --to].

Bounds are RFC 3339 timestamps and are inclusive. An omitted bound keeps the
first or last record's time. Bounds are applied as given: a --from later than
--to selects nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: runWindow,
	}

	cmd.Flags().String("from", "", "lower bound, RFC 3339")
	cmd.Flags().String("to", "", "upper bound, RFC 3339")
	cmd.Flags().Bool("geojson", false, "print a GeoJSON FeatureCollection instead of text lines")

	return cmd
}

func runWindow(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	asGeoJSON, _ := cmd.Flags().GetBool("geojson")

	st, err := loadFile(cmd, args[0])
	if err != nil {
		return err
	}

	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		st.SetMin(domain.EpochSeconds(t))
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		st.SetMax(domain.EpochSeconds(t))
	}

	filtered := st.Filtered()
	out := cmd.OutOrStdout()

	if asGeoJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(render.FeatureCollection(filtered, st.Location()))
	}

	for _, q := range filtered {
		_, _ = fmt.Fprintf(out, "%d\t%s\t%.4f\t%.4f\tdepth=%g\tm=%g\tml=%g\n",
			q.ID, q.OccurredAt.Format(timeLayout), q.Lat, q.Lng, q.Depth, q.Magnitude, q.LocalMagnitude)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d records in window\n", len(filtered), len(st.All()))
	return nil
}
