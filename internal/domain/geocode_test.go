package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	results map[float64]GeocodingResult
	errs    map[float64]error
	calls   int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, lat, _ float64) (GeocodingResult, error) {
	m.calls++
	if err, ok := m.errs[lat]; ok {
		return GeocodingResult{}, err
	}
	return m.results[lat], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichWithPlaces_NilGeocoder(t *testing.T) {
	quakes := []Quake{{ID: 1, Lat: 64.1, Lng: -21.9}}

	result := EnrichWithPlaces(context.Background(), quakes, nil, discardLogger())

	assert.Equal(t, quakes, result)
	assert.Empty(t, result[0].PlaceName)
}

func TestEnrichWithPlaces_SetsPlaceName(t *testing.T) {
	geo := &mockGeocoder{results: map[float64]GeocodingResult{
		64.1: {PlaceName: "Reykjavík", FormattedAddress: "Reykjavík, Iceland", Confidence: 0.9},
		63.9: {FormattedAddress: "Grindavík, Iceland"},
	}}
	quakes := []Quake{
		{ID: 1, Lat: 64.1, Lng: -21.9},
		{ID: 2, Lat: 63.9, Lng: -22.4},
		{ID: 3, Lat: 66.0, Lng: -18.0},
	}

	result := EnrichWithPlaces(context.Background(), quakes, geo, discardLogger())

	assert.Equal(t, 3, geo.calls)
	assert.Equal(t, "Reykjavík", result[0].PlaceName)
	assert.Equal(t, "Grindavík, Iceland", result[1].PlaceName, "falls back to formatted address")
	assert.Empty(t, result[2].PlaceName, "empty result leaves record untouched")
}

func TestEnrichWithPlaces_FailureDegradesGracefully(t *testing.T) {
	geo := &mockGeocoder{
		results: map[float64]GeocodingResult{64.2: {PlaceName: "Hveragerði"}},
		errs:    map[float64]error{64.1: errors.New("timeout")},
	}
	quakes := []Quake{
		{ID: 1, Lat: 64.1, Lng: -21.9, Magnitude: 3.2},
		{ID: 2, Lat: 64.2, Lng: -21.2},
	}

	result := EnrichWithPlaces(context.Background(), quakes, geo, discardLogger())

	assert.Equal(t, 2, geo.calls)
	assert.Empty(t, result[0].PlaceName)
	assert.Equal(t, 3.2, result[0].Magnitude)
	assert.Equal(t, "Hveragerði", result[1].PlaceName)
}

func TestEnrichWithPlaces_StopsOnCancelledContext(t *testing.T) {
	geo := &mockGeocoder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := EnrichWithPlaces(ctx, []Quake{{ID: 1}, {ID: 2}}, geo, discardLogger())

	assert.Equal(t, 0, geo.calls)
	assert.Len(t, result, 2)
}
