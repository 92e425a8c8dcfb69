package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	occurred := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	q := domain.Quake{
		ID:             42,
		OccurredAt:     occurred,
		Lat:            64.10,
		Lng:            -21.90,
		Depth:          5.0,
		Magnitude:      3.2,
		LocalMagnitude: 3.0,
	}
	loadID := uuid.NewString()

	msg, err := serializeToMessage(q, loadID)
	require.NoError(t, err)

	assert.Equal(t, []byte("42"), msg.Key)
	assert.Contains(t, string(msg.Value), `"m":3.2`)

	var decoded domain.Quake
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, q.ID, decoded.ID)
	assert.True(t, occurred.Equal(decoded.OccurredAt))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "occurred_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(occurred.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "load_id", msg.Headers[1].Key)
	assert.Equal(t, []byte(loadID), msg.Headers[1].Value)
}

func TestNewWriter_UsesConfig(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"broker1:9092"}, KafkaTopic: "quake-events"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "quake-events", w.writer.Topic)
	assert.Equal(t, kafkago.TCP("broker1:9092").String(), w.writer.Addr.String())
}

func TestLoadBatch_EmptyIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaTopic: "quake-events"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.LoadBatch(context.Background(), nil))
}
