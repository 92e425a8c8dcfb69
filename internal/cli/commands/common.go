package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/store"
)

// location resolves the --timezone flag, inherited from the root command.
// Commands run standalone in tests fall back to the process-local zone.
func location(cmd *cobra.Command) (*time.Location, error) {
	f := cmd.Flags().Lookup("timezone")
	if f == nil {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(f.Value.String())
	if err != nil {
		return nil, fmt.Errorf("invalid --timezone %q: %w", f.Value.String(), err)
	}
	return loc, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadFile loads a feed file into a fresh store.
func loadFile(cmd *cobra.Command, path string) (*store.Store, error) {
	loc, err := location(cmd)
	if err != nil {
		return nil, err
	}
	st := store.New(feed.NewFileSource(path), store.WithLocation(loc))
	if err := st.Load(commandContext(cmd)); err != nil {
		return nil, err
	}
	return st, nil
}
