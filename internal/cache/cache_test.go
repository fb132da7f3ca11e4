package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
)

type recordingReplayer struct {
	calls []string
	mode  incident.DensityMode
	route routing.Route
}

func (r *recordingReplayer) ReplayDensity(points []incident.WeightedPoint, mode incident.DensityMode) {
	r.calls = append(r.calls, "density")
	r.mode = mode
}

func (r *recordingReplayer) ReplayPointsOfInterest(pois []incident.PointOfInterest) {
	r.calls = append(r.calls, "pois")
}

func (r *recordingReplayer) ReplayIncidentField(points []incident.WeightedPoint) {
	r.calls = append(r.calls, "incidents")
}

func (r *recordingReplayer) ReplayRoute(route routing.Route) {
	r.calls = append(r.calls, "route")
	r.route = route
}

func testCache() *RestorationCache {
	c := NewRestorationCache()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return c
}

func TestRestorationCache_ReplayOrder(t *testing.T) {
	c := testCache()

	// Written out of order on purpose
	c.SetRoute(routing.Route{Path: geo.Path{{Latitude: 1, Longitude: 2}}})
	c.SetIncidentField([]incident.WeightedPoint{{Lat: 1, Lng: 1, Weight: 0.5}})
	c.SetPointsOfInterest([]incident.PointOfInterest{{Name: "Station 9"}})
	c.SetDensity([]incident.WeightedPoint{{Lat: 1, Lng: 1, Weight: 0.2}}, incident.ModeHotspots)

	r := &recordingReplayer{}
	assert.Equal(t, 4, c.Replay(r))
	assert.Equal(t, []string{"density", "pois", "incidents", "route"}, r.calls)
	assert.Equal(t, incident.ModeHotspots, r.mode)
	assert.Len(t, r.route.Path, 1)
}

func TestRestorationCache_SkipsEmptySlots(t *testing.T) {
	c := testCache()
	c.SetPointsOfInterest([]incident.PointOfInterest{{Name: "Mercy Hospital"}})

	r := &recordingReplayer{}
	assert.Equal(t, 1, c.Replay(r))
	assert.Equal(t, []string{"pois"}, r.calls)
}

func TestRestorationCache_LastWriteWins(t *testing.T) {
	c := testCache()
	c.SetDensity([]incident.WeightedPoint{{Type: "first"}}, incident.ModeDensity)
	c.SetDensity([]incident.WeightedPoint{{Type: "second"}, {Type: "third"}}, incident.ModeHotspots)

	s := c.Snapshot()
	require.NotNil(t, s.Density)
	assert.Len(t, s.Density.Points, 2)
	assert.Equal(t, "second", s.Density.Points[0].Type)
	assert.Equal(t, incident.ModeHotspots, s.Density.Mode)
}

func TestRestorationCache_CopiesData(t *testing.T) {
	c := testCache()
	points := []incident.WeightedPoint{{Type: "Theft", Weight: 0.3}}
	c.SetIncidentField(points)

	points[0].Type = "mutated"
	s := c.Snapshot()
	assert.Equal(t, "Theft", s.Incidents.Points[0].Type)

	s.Incidents.Points[0].Type = "mutated again"
	assert.Equal(t, "Theft", c.Snapshot().Incidents.Points[0].Type)
}

func TestRestorationCache_Clear(t *testing.T) {
	c := testCache()
	assert.True(t, c.Empty())

	c.SetDensity(nil, incident.ModeDensity)
	c.SetRoute(routing.Route{})
	c.SetPointsOfInterest(nil)
	c.SetIncidentField(nil)
	assert.Equal(t, 4, c.Stats().Slots)

	c.ClearRoute()
	c.ClearDensity()
	assert.Equal(t, 2, c.Stats().Slots)
	assert.Nil(t, c.Snapshot().Route)

	c.ClearPointsOfInterest()
	c.ClearIncidentField()
	assert.True(t, c.Empty())

	c.SetRoute(routing.Route{})
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Replay(&recordingReplayer{}))
}

func TestRestorationCache_Stats(t *testing.T) {
	c := testCache()
	c.SetDensity(nil, incident.ModeDensity)
	c.SetRoute(routing.Route{})

	stats := c.Stats()
	assert.Equal(t, 2, stats.Slots)
	assert.True(t, stats.OldestEntry.Before(stats.NewestEntry))
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
}
