package domain

import (
	"math"
	"time"
)

// Quake is one seismic observation parsed from a feed line.
type Quake struct {
	ID             int64     `json:"id"`
	OccurredAt     time.Time `json:"occurred_at"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Depth          float64   `json:"depth"`
	Magnitude      float64   `json:"m"`
	LocalMagnitude float64   `json:"ml"`

	// PlaceName is filled by reverse geocoding when enrichment is enabled.
	PlaceName string `json:"place_name,omitempty"`
}

// EpochSeconds returns t as Unix seconds with a millisecond fraction.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

// Seconds returns the record's occurrence time in epoch seconds.
func (q Quake) Seconds() float64 {
	return EpochSeconds(q.OccurredAt)
}

// FromEpochSeconds converts float epoch seconds back to a time in loc.
// A nil loc means the process-local zone.
func FromEpochSeconds(s float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(math.Round(s * 1000))).In(loc)
}
