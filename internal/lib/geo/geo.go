package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// Earth's radius in meters
const earthRadius = 6371000

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	if !IsValidCoordinate(p1) || !IsValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	if p1 == p2 {
		return 0, nil
	}

	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c, nil
}

// PathLength sums the great-circle length of every leg, skipping invalid legs
func (g *geoUtils) PathLength(path Path) float64 {
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		d, err := g.PointToPoint(path[i], path[i+1])
		if err != nil {
			continue
		}
		total += d
	}
	return total
}

// DecodePolyline decodes Google polyline string to point sequence
func (g *geoUtils) DecodePolyline(encoded string) (Path, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make(Path, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		if !IsValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// PathBounds computes the bounding box of every valid point in the path
func (g *geoUtils) PathBounds(path Path) (Bounds, bool) {
	var bound orb.Bound
	found := false
	for _, p := range path {
		if !IsValidCoordinate(p) {
			continue
		}
		if !found {
			bound = p.Orb().Bound()
			found = true
			continue
		}
		bound = bound.Extend(p.Orb())
	}
	if !found {
		return Bounds{}, false
	}
	return Bounds{
		SouthWest: FromOrb(bound.Min),
		NorthEast: FromOrb(bound.Max),
	}, true
}

// SquaredDistance is the planar squared distance in raw lat/lng degrees.
// It is not geodesically correct; it only ranks candidates at road scale.
func SquaredDistance(a, b Point) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return dLat*dLat + dLng*dLng
}

// EncodePolyline encodes a path as a Google polyline string
func EncodePolyline(path Path) string {
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// PathFromPairs converts [[lat, lng], ...] pairs into a Path, skipping malformed pairs
func PathFromPairs(pairs [][]float64) Path {
	path := make(Path, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			continue
		}
		p := Point{Latitude: pair[0], Longitude: pair[1]}
		if !IsValidCoordinate(p) {
			continue
		}
		path = append(path, p)
	}
	return path
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !IsValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// WrapLongitude normalizes a longitude into [-180, 180)
func WrapLongitude(lng float64) float64 {
	wrapped := math.Mod(lng+180, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped - 180
}

// IsValidCoordinate validates latitude and longitude values
func IsValidCoordinate(point Point) bool {
	if math.IsNaN(point.Latitude) || math.IsNaN(point.Longitude) {
		return false
	}
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
