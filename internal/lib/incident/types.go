// Package incident holds the point data the overlay engine renders:
// weighted incident points, live incidents and points of interest.
package incident

import (
	"time"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
)

// WeightedPoint is one incident or aggregated cell with a normalized weight
type WeightedPoint struct {
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Weight      float64    `json:"weight"` // 0.0-1.0
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Timestamp   *time.Time `json:"date,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// Point returns the point's coordinate
func (w WeightedPoint) Point() geo.Point {
	return geo.Point{Latitude: w.Lat, Longitude: w.Lng}
}

// POIType identifies the kind of point of interest
type POIType string

const (
	POIPolice      POIType = "police"
	POIHospital    POIType = "hospital"
	POIFireStation POIType = "fire_station"
)

// PointOfInterest is a nearby safety resource (police, hospital, fire station)
type PointOfInterest struct {
	Name     string  `json:"name"`
	Type     POIType `json:"type"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Address  string  `json:"address,omitempty"`
	Distance float64 `json:"distance,omitempty"` // meters
}

// Point returns the POI's coordinate
func (p PointOfInterest) Point() geo.Point {
	return geo.Point{Latitude: p.Lat, Longitude: p.Lng}
}

// LiveIncident is a recent incident from a live feed (police blotter, 911 feed)
type LiveIncident struct {
	Type          string  `json:"type"`
	Date          string  `json:"date,omitempty"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	DistanceMiles float64 `json:"distance_miles,omitempty"`
	Source        string  `json:"source,omitempty"`
	Severity      string  `json:"severity,omitempty"`
	Headline      string  `json:"headline,omitempty"`
}

// DensityMode selects how weighted points are rendered
type DensityMode string

const (
	// ModeDensity renders a continuous heat field
	ModeDensity DensityMode = "density"
	// ModeHotspots renders discrete weighted circles
	ModeHotspots DensityMode = "hotspots"
)

// Valid reports whether the mode is known
func (m DensityMode) Valid() bool {
	return m == ModeDensity || m == ModeHotspots
}
