package domain

import (
	"context"
	"log/slog"
)

// EnrichWithPlaces sets PlaceName on each record from a reverse geocode of its
// coordinates. A nil geocoder returns the input unchanged. Lookup failures are
// logged and leave the record as parsed.
func EnrichWithPlaces(ctx context.Context, quakes []Quake, geocoder Geocoder, logger *slog.Logger) []Quake {
	if geocoder == nil {
		return quakes
	}

	failed := 0
	for i := range quakes {
		if ctx.Err() != nil {
			break
		}
		q := &quakes[i]
		result, err := geocoder.ReverseGeocode(ctx, q.Lat, q.Lng)
		if err != nil {
			failed++
			logger.Warn("reverse geocoding failed",
				"quake_id", q.ID,
				"lat", q.Lat,
				"lng", q.Lng,
				"error", err,
			)
			continue
		}
		switch {
		case result.PlaceName != "":
			q.PlaceName = result.PlaceName
		case result.FormattedAddress != "":
			q.PlaceName = result.FormattedAddress
		}
	}

	if failed > 0 {
		logger.Info("place enrichment finished with failures", "failed", failed, "total", len(quakes))
	}
	return quakes
}
