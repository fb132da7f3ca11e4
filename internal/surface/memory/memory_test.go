package memory

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

var _ surface.Surface = (*Surface)(nil)

func pt(lat, lng float64) geo.Point {
	return geo.Point{Latitude: lat, Longitude: lng}
}

func pointCollection(id string, lat, lng float64) *geojson.FeatureCollection {
	f := geojson.NewFeature(orb.Point{lng, lat})
	f.ID = id
	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc
}

func TestSurface_StyleNotLoaded(t *testing.T) {
	s := New()
	assert.False(t, s.IsStyleLoaded())

	err := s.AddSource("src", nil)
	assert.True(t, errors.Is(err, surface.ErrStyleNotLoaded))

	err = s.AddLayer(surface.Layer{ID: "l", Source: "src"})
	assert.True(t, errors.Is(err, surface.ErrStyleNotLoaded))

	s.LoadStyle()
	assert.True(t, s.IsStyleLoaded())
	assert.Equal(t, 1, s.StyleLoads())
	require.NoError(t, s.AddSource("src", nil))
}

func TestSurface_SourceAndLayerLifecycle(t *testing.T) {
	s := New(WithStyleLoaded())

	require.NoError(t, s.AddSource("incidents", pointCollection("a", 1, 2)))
	assert.True(t, errors.Is(s.AddSource("incidents", nil), surface.ErrAlreadyExists))

	err := s.AddLayer(surface.Layer{ID: "orphan", Source: "missing"})
	assert.True(t, errors.Is(err, surface.ErrNotFound))

	require.NoError(t, s.AddLayer(surface.Layer{ID: "heat", Type: surface.LayerHeatmap, Source: "incidents"}))
	require.NoError(t, s.AddLayer(surface.Layer{ID: "hit", Type: surface.LayerCircle, Source: "incidents"}))
	assert.True(t, errors.Is(s.AddLayer(surface.Layer{ID: "heat", Source: "incidents"}), surface.ErrAlreadyExists))

	err = s.RemoveSource("incidents")
	assert.True(t, errors.Is(err, surface.ErrSourceInUse))

	layers := s.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, "heat", layers[0].ID)
	assert.Equal(t, "hit", layers[1].ID)

	require.NoError(t, s.RemoveLayer("hit"))
	require.NoError(t, s.RemoveLayer("heat"))
	assert.True(t, errors.Is(s.RemoveLayer("heat"), surface.ErrNotFound))
	require.NoError(t, s.RemoveSource("incidents"))
	assert.True(t, errors.Is(s.RemoveSource("incidents"), surface.ErrNotFound))
	assert.Empty(t, s.SourceIDs())
}

func TestSurface_SetSourceData(t *testing.T) {
	s := New(WithStyleLoaded())
	assert.True(t, errors.Is(s.SetSourceData("route", nil), surface.ErrNotFound))

	require.NoError(t, s.AddSource("route", nil))
	require.NoError(t, s.SetSourceData("route", pointCollection("x", 3, 4)))

	fc, ok := s.Source("route")
	require.True(t, ok)
	assert.Len(t, fc.Features, 1)
}

func TestSurface_SwapStyleDropsSourcesAndLayers(t *testing.T) {
	s := New(WithStyleLoaded())
	require.NoError(t, s.AddSource("src", nil))
	require.NoError(t, s.AddLayer(surface.Layer{ID: "l", Source: "src"}))
	marker := s.AddMarker(pt(1, 2), surface.MarkerOptions{Color: "red"})

	loads := 0
	s.On(surface.EventStyleLoad, func() {
		loads++
		assert.Empty(t, s.SourceIDs())
		assert.Empty(t, s.Layers())
	})

	s.SwapStyle()
	assert.Equal(t, 1, loads)
	assert.Equal(t, 2, s.StyleLoads())
	assert.Len(t, s.Markers(), 1, "markers survive style reloads")
	assert.Equal(t, marker.ID(), s.Markers()[0].ID())
}

func TestSurface_OnceAndUnsubscribe(t *testing.T) {
	s := New()

	var on, once int
	unsubscribe := s.On(surface.EventMoveEnd, func() { on++ })
	s.Once(surface.EventMoveEnd, func() { once++ })
	assert.Equal(t, 2, s.HandlerCount(surface.EventMoveEnd))

	s.Emit(surface.EventMoveEnd)
	s.Emit(surface.EventMoveEnd)
	assert.Equal(t, 2, on)
	assert.Equal(t, 1, once)

	unsubscribe()
	s.Emit(surface.EventMoveEnd)
	assert.Equal(t, 2, on)
	assert.Zero(t, s.HandlerCount(surface.EventMoveEnd))
}

func TestSurface_OnceHandlerCanResubscribe(t *testing.T) {
	s := New()
	calls := 0
	var register func()
	register = func() {
		s.Once(surface.EventStyleLoad, func() {
			calls++
			register()
		})
	}
	register()

	s.LoadStyle()
	assert.Equal(t, 1, calls, "re-registered handler waits for the next event")
	s.LoadStyle()
	assert.Equal(t, 2, calls)
}

func TestSurface_LayerEvents(t *testing.T) {
	s := New(WithStyleLoaded())
	require.NoError(t, s.AddSource("pois", pointCollection("poi-1", 37.77, -122.41)))

	var got []surface.FeatureEvent
	unsubscribe := s.OnLayer(surface.LayerClick, "pois-layer", func(ev surface.FeatureEvent) {
		got = append(got, ev)
	})

	assert.False(t, s.FireLayerEvent(surface.LayerClick, "pois-layer", "poi-1"), "layer not rendered yet")

	require.NoError(t, s.AddLayer(surface.Layer{ID: "pois-layer", Type: surface.LayerCircle, Source: "pois"}))
	assert.False(t, s.FireLayerEvent(surface.LayerClick, "pois-layer", "unknown"))
	assert.True(t, s.FireLayerEvent(surface.LayerClick, "pois-layer", "poi-1"))

	require.Len(t, got, 1)
	assert.Equal(t, "poi-1", got[0].Feature.ID)
	assert.InDelta(t, 37.77, got[0].LngLat.Latitude, 1e-9)
	assert.InDelta(t, -122.41, got[0].LngLat.Longitude, 1e-9)

	unsubscribe()
	assert.Zero(t, s.LayerHandlerCount(surface.LayerClick, "pois-layer"))
	assert.False(t, s.FireLayerEvent(surface.LayerClick, "pois-layer", "poi-1"))
}

func TestSurface_FlightLifecycle(t *testing.T) {
	s := New()
	moveEnds := 0
	s.On(surface.EventMoveEnd, func() { moveEnds++ })

	s.FlyTo(surface.FlyOptions{Center: pt(40, -73), Zoom: 13, Pitch: 45})
	assert.True(t, s.IsMoving())
	flight, ok := s.Flight()
	require.True(t, ok)
	assert.Equal(t, 13.0, flight.Zoom)

	// A second flight interrupts the first
	s.FlyTo(surface.FlyOptions{Center: pt(41, -74), Zoom: 12})
	assert.Equal(t, 1, moveEnds)

	assert.True(t, s.CompleteMove())
	assert.Equal(t, 2, moveEnds)
	assert.False(t, s.IsMoving())
	assert.Equal(t, pt(41, -74), s.Camera().Center)
	assert.Equal(t, 12.0, s.Camera().Zoom)

	assert.False(t, s.CompleteMove())
	s.Stop()
	assert.Equal(t, 2, moveEnds, "stop without a flight is silent")
}

func TestSurface_FitBounds(t *testing.T) {
	s := New()
	s.FitBounds(geo.Bounds{
		SouthWest: pt(40.0, -73.0),
		NorthEast: pt(40.03, -73.0),
	}, surface.FitOptions{MaxZoom: 15})

	cam := s.Camera()
	assert.InDelta(t, 40.015, cam.Center.Latitude, 1e-9)
	assert.InDelta(t, -73.0, cam.Center.Longitude, 1e-9)
	assert.InDelta(t, math.Log2(360/0.03), cam.Zoom, 1e-6)

	s.FitBounds(geo.Bounds{
		SouthWest: pt(40.0, -73.0),
		NorthEast: pt(40.0001, -73.0),
	}, surface.FitOptions{MaxZoom: 15})
	assert.Equal(t, 15.0, s.Camera().Zoom)
}

func TestSurface_Frames(t *testing.T) {
	s := New()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var ticks []time.Time
	var tick func(time.Time)
	tick = func(at time.Time) {
		ticks = append(ticks, at)
		s.RequestFrame(tick)
	}
	s.RequestFrame(tick)

	assert.Equal(t, 1, s.Frame(now))
	assert.Equal(t, 1, s.PendingFrames(), "rescheduled callbacks run on the next frame")
	assert.Equal(t, 1, s.Frame(now.Add(16*time.Millisecond)))
	assert.Len(t, ticks, 2)
}

func TestSurface_MarkersAndPopups(t *testing.T) {
	s := New()
	m := s.AddMarker(pt(1, 1), surface.MarkerOptions{Color: "#3b82f6"})
	p := s.NewPopup("<b>Search center</b>")
	m.SetPopup(p)

	m.SetLngLat(pt(2, 2))
	assert.Equal(t, pt(2, 2), m.LngLat())
	assert.Equal(t, pt(2, 2), p.(*Popup).LngLat(), "popup follows its marker")

	tooltip := s.NewPopup("tooltip")
	s.ShowPopup(tooltip, pt(5, 5))
	s.ShowPopup(tooltip, pt(6, 6))
	require.Len(t, s.OpenPopups(), 1)
	assert.Equal(t, pt(6, 6), s.OpenPopups()[0].LngLat())

	tooltip.Remove()
	assert.Empty(t, s.OpenPopups())

	m.Remove()
	assert.Empty(t, s.Markers())
}

func TestSurface_PointerInput(t *testing.T) {
	s := New()
	var events []surface.Event
	s.On(surface.EventMouseDown, func() { events = append(events, surface.EventMouseDown) })
	s.On(surface.EventTouchStart, func() { events = append(events, surface.EventTouchStart) })

	s.PointerDown()
	s.TouchStart()
	assert.Equal(t, []surface.Event{surface.EventMouseDown, surface.EventTouchStart}, events)
}
