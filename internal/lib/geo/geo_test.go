package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoUtils_PointToPoint(t *testing.T) {
	// Angels Camp to Murphys
	angelscamp := Point{Latitude: 38.0675, Longitude: -120.5436}
	murphys := Point{Latitude: 38.1391, Longitude: -120.4561}

	geoUtils := NewGeoUtils()

	distance, err := geoUtils.PointToPoint(angelscamp, murphys)
	require.NoError(t, err)
	assert.InDelta(t, 11046, distance, 100, "Distance should be approximately 11.0km")

	invalidPoint := Point{Latitude: 200, Longitude: -300}
	_, err = geoUtils.PointToPoint(angelscamp, invalidPoint)
	assert.Error(t, err, "Should return error for invalid coordinates")
}

func TestGeoUtils_PathLength(t *testing.T) {
	geoUtils := NewGeoUtils()

	path := Path{
		{Latitude: 40.0, Longitude: -73.0},
		{Latitude: 40.01, Longitude: -73.0},
		{Latitude: 40.02, Longitude: -73.0},
	}

	// 0.01 degree of latitude is roughly 1.11km
	assert.InDelta(t, 2224, geoUtils.PathLength(path), 5)
	assert.Equal(t, 0.0, geoUtils.PathLength(nil))
	assert.Equal(t, 0.0, geoUtils.PathLength(path[:1]))
}

func TestGeoUtils_DecodePolyline(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Reference polyline from the Google encoding documentation
	points, err := geoUtils.DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 38.5, points[0].Latitude, 1e-6)
	assert.InDelta(t, -120.2, points[0].Longitude, 1e-6)
	assert.InDelta(t, 43.252, points[2].Latitude, 1e-6)
	assert.InDelta(t, -126.453, points[2].Longitude, 1e-6)

	_, err = geoUtils.DecodePolyline("")
	assert.Error(t, err)
}

func TestEncodePolyline_RoundTrip(t *testing.T) {
	path := Path{
		{Latitude: 40.0, Longitude: -73.0},
		{Latitude: 40.01, Longitude: -73.0},
	}

	decoded, err := NewGeoUtils().DecodePolyline(EncodePolyline(path))
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDelta(t, 40.01, decoded[1].Latitude, 1e-5)
}

func TestGeoUtils_PathBounds(t *testing.T) {
	geoUtils := NewGeoUtils()

	bounds, ok := geoUtils.PathBounds(Path{
		{Latitude: 40.03, Longitude: -73.2},
		{Latitude: 40.0, Longitude: -73.0},
		{Latitude: 200, Longitude: 0}, // ignored
		{Latitude: 40.01, Longitude: -73.1},
	})
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 40.0, Longitude: -73.2}, bounds.SouthWest)
	assert.Equal(t, Point{Latitude: 40.03, Longitude: -73.0}, bounds.NorthEast)
	assert.InDelta(t, 40.015, bounds.Center().Latitude, 1e-9)

	_, ok = geoUtils.PathBounds(nil)
	assert.False(t, ok)
}

func TestSquaredDistance(t *testing.T) {
	a := Point{Latitude: 1, Longitude: 1}
	b := Point{Latitude: 4, Longitude: 5}
	assert.Equal(t, 25.0, SquaredDistance(a, b))
	assert.Equal(t, 0.0, SquaredDistance(a, a))
}

func TestPathFromPairs(t *testing.T) {
	path := PathFromPairs([][]float64{
		{40.0, -73.0},
		{40.01},
		{95, 0},
		{40.02, -73.0, 12},
	})
	assert.Equal(t, Path{
		{Latitude: 40.0, Longitude: -73.0},
		{Latitude: 40.02, Longitude: -73.0},
	}, path)
}

func TestWrapLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{179, 179},
		{180, -180},
		{181, -179},
		{-181, 179},
		{540, -180},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapLongitude(tt.in), 1e-9, "wrap(%v)", tt.in)
	}
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(Point{Latitude: 90, Longitude: -180}))
	assert.False(t, IsValidCoordinate(Point{Latitude: 90.1, Longitude: 0}))
	assert.False(t, IsValidCoordinate(Point{Latitude: math.NaN(), Longitude: 0}))

	_, err := NewPoint(10, 200)
	assert.Error(t, err)
}
