package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.in, LogFormat: "json"})
			assert.True(t, logger.Enabled(context.Background(), tt.want))
			assert.False(t, logger.Enabled(context.Background(), tt.want-1))
		})
	}
}

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	NewLogger(&config.Config{LogLevel: "error", LogFormat: "text"})
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "text"})
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.SelectionUpdates.Inc()
	a.FeedLoads.WithLabelValues("success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SelectionUpdates))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SelectionUpdates))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.FeedLoads.WithLabelValues("success")))
}
