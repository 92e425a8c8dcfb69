// Package render turns quake records into GeoJSON map markers.
package render

import (
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// MarkerColor is the stroke and fill color of every quake circle.
	MarkerColor = "green"

	popupDateLayout = "1/2/2006"
	popupTimeLayout = "3:04:05 PM"
)

// MapView describes the initial map state handed to the front end.
type MapView struct {
	Center      [2]float64 `json:"center"` // [lat, lng]
	Zoom        int        `json:"zoom"`
	ScrollZoom  bool       `json:"scroll_wheel_zoom"`
	TileURL     string     `json:"tile_url"`
	Attribution string     `json:"attribution"`
}

// DefaultMapView centers on Reykjavík with OpenStreetMap tiles.
var DefaultMapView = MapView{
	Center:      [2]float64{64.1466, -21.9426},
	Zoom:        8,
	ScrollZoom:  true,
	TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: `&copy; <a href="http://osm.org/copyright">OpenStreetMap</a> contributors`,
}

// Radius returns the marker circle radius in meters for a magnitude.
func Radius(magnitude float64) float64 {
	return math.Pow(4, magnitude)
}

// Popup returns the popup lines for a record, with times shown in loc.
func Popup(q domain.Quake, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}
	t := q.OccurredAt.In(loc)
	return []string{
		"Date: " + t.Format(popupDateLayout) + " - " + t.Format(popupTimeLayout),
		"Magnitude: " + strconv.FormatFloat(q.Magnitude, 'f', -1, 64),
	}
}

// Feature converts one record into a GeoJSON Point feature.
func Feature(q domain.Quake, loc *time.Location) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{q.Lng, q.Lat})
	f.ID = q.ID
	f.Properties = geojson.Properties{
		"id":              q.ID,
		"occurred_at":     q.OccurredAt.Format("2006-01-02T15:04:05.000Z07:00"),
		"epoch_seconds":   q.Seconds(),
		"depth":           q.Depth,
		"magnitude":       q.Magnitude,
		"local_magnitude": q.LocalMagnitude,
		"radius":          Radius(q.Magnitude),
		"color":           MarkerColor,
		"popup":           Popup(q, loc),
	}
	if q.PlaceName != "" {
		f.Properties["place_name"] = q.PlaceName
	}
	return f
}

// FeatureCollection renders records in order, one feature per record.
func FeatureCollection(quakes []domain.Quake, loc *time.Location) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, q := range quakes {
		fc.Append(Feature(q, loc))
	}
	return fc
}
