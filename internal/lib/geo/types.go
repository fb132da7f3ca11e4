package geo

import "github.com/paulmach/orb"

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Path is an ordered, road-following sequence of waypoints
type Path []Point

// Bounds is an axis-aligned lat/lng bounding box
type Bounds struct {
	SouthWest Point `json:"sw"`
	NorthEast Point `json:"ne"`
}

// Orb converts the point to an orb.Point, which is ordered [lng, lat]
func (p Point) Orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// FromOrb converts an orb.Point back to a Point
func FromOrb(p orb.Point) Point {
	return Point{Latitude: p.Lat(), Longitude: p.Lon()}
}

// LineString converts the path to an orb.LineString
func (p Path) LineString() orb.LineString {
	ls := make(orb.LineString, len(p))
	for i, pt := range p {
		ls[i] = pt.Orb()
	}
	return ls
}

// Center returns the midpoint of the bounding box
func (b Bounds) Center() Point {
	return Point{
		Latitude:  (b.SouthWest.Latitude + b.NorthEast.Latitude) / 2,
		Longitude: (b.SouthWest.Longitude + b.NorthEast.Longitude) / 2,
	}
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Total great-circle length of a path in meters
	PathLength(path Path) float64

	// Decode Google polyline string to point sequence
	DecodePolyline(encoded string) (Path, error)

	// Bounding box of a path; false when the path has no valid points
	PathBounds(path Path) (Bounds, bool)
}

// NewGeoUtils is implemented in geo.go
