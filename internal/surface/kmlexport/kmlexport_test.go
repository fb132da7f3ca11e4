package kmlexport

import (
	"bytes"
	"context"
	"encoding/xml"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/saferoute/mapcore/internal/cache"
	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
	"github.com/dpup/saferoute/mapcore/internal/overlay"
	"github.com/dpup/saferoute/mapcore/internal/surface/memory"
)

func TestWrite(t *testing.T) {
	s := memory.New(memory.WithStyleLoaded())
	e := overlay.New(context.Background(), s, overlay.WithCache(cache.NewRestorationCache()))
	defer e.Close()

	path := geo.PathFromPairs([][]float64{{40.0, -73.0}, {40.01, -73.0}, {40.02, -73.0}})
	require.NoError(t, e.DrawRoute([]routing.RouteSegment{
		{StartLat: 40.0, StartLng: -73.0, EndLat: 40.01, EndLng: -73.0, RiskLevel: routing.Safe},
		{StartLat: 40.01, StartLng: -73.0, EndLat: 40.02, EndLng: -73.0, RiskLevel: routing.Danger},
	}, path))
	require.NoError(t, e.SetPointsOfInterest([]incident.PointOfInterest{
		{Name: "Station 9", Type: incident.POIFireStation, Lat: 40.005, Lng: -73.001},
	}))
	require.NoError(t, e.SetNamedMarker(overlay.SlotDestination, 40.02, -73.0, "Destination"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, config.DefaultConfig().Overlay))
	out := buf.String()

	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, `<Style id="route-danger">`)
	assert.Contains(t, out, "<styleUrl>#route-danger</styleUrl>")
	assert.Contains(t, out, "<styleUrl>#route-safe</styleUrl>")
	assert.Contains(t, out, "<name>Station 9</name>")
	assert.Contains(t, out, "<name>destination</name>")

	// Well-formed XML
	dec := xml.NewDecoder(&buf)
	for {
		if _, err := dec.Token(); err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}, parseHex("#ef4444"))
	assert.Equal(t, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, parseHex("red"))
}
