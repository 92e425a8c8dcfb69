// Package pipeline runs the one-shot feed load and tracks the store's
// selection for metrics and readiness.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/store"
	"github.com/jonboulle/clockwork"
)

// Loader populates the full record set once.
type Loader interface {
	Load(ctx context.Context) error
	All() []domain.Quake
}

// BatchLoader writes the loaded records to a downstream sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, quakes []domain.Quake) error
}

// Pipeline loads the feed into the store and publishes the result.
type Pipeline struct {
	loader    Loader
	publisher BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	ready     atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used to time the load.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline. Pass a nil publisher to skip publishing.
func New(loader Loader, publisher BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:    loader,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the feed has been loaded,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("feed has not been loaded yet")
	}
	return nil
}

// Ready reports whether the feed has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run performs the load exactly once. Fetch and parse failures are returned
// without retry. A publish failure is returned after the store is loaded and
// the service is marked ready.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("feed load started")
	start := p.clock.Now()

	if err := p.loader.Load(ctx); err != nil {
		if errors.Is(err, store.ErrAlreadyLoaded) {
			p.ready.Store(true)
			return nil
		}
		p.metrics.FeedLoads.WithLabelValues("error").Inc()
		p.logger.Error("feed load failed", "error", err)
		return err
	}

	elapsed := p.clock.Since(start)
	quakes := p.loader.All()
	p.metrics.FeedLoads.WithLabelValues("success").Inc()
	p.metrics.FeedLoadDuration.Observe(elapsed.Seconds())
	p.metrics.QuakesLoaded.Set(float64(len(quakes)))
	p.ready.Store(true)

	p.logger.Info("feed load complete", "quakes", len(quakes), "duration", elapsed)

	if p.publisher == nil || len(quakes) == 0 {
		return nil
	}
	if err := p.publisher.LoadBatch(ctx, quakes); err != nil {
		p.logger.Error("publish quakes failed", "error", err, "batch_size", len(quakes))
		return fmt.Errorf("publish quakes: %w", err)
	}
	p.metrics.MessagesProduced.Add(float64(len(quakes)))
	p.logger.Info("quakes published", "batch_size", len(quakes))
	return nil
}

// ObserveSelection is a store subscriber that mirrors the selection into metrics.
func (p *Pipeline) ObserveSelection(snap store.Snapshot) {
	p.metrics.SelectionUpdates.Inc()
	p.metrics.QuakesVisible.Set(float64(snap.Visible))
	p.metrics.SelectionMin.Set(snap.SelectedMin)
	p.metrics.SelectionMax.Set(snap.SelectedMax)
	p.logger.Debug("selection changed",
		"selected_min", snap.SelectedMin,
		"selected_max", snap.SelectedMax,
		"visible", snap.Visible,
		"total", snap.Total,
	)
}
