// Package surface defines the rendering surface the overlay engine draws on:
// a styled map holding GeoJSON sources, style layers, markers and a camera.
//
// All callbacks are invoked on the surface's event loop. Implementations are
// not required to be safe for concurrent use.
package surface

import (
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
)

// Errors reported by surface implementations. Callers match them with errors.Is.
var (
	ErrNotFound       = eris.New("not found on surface")
	ErrAlreadyExists  = eris.New("already exists on surface")
	ErrStyleNotLoaded = eris.New("style is not loaded")
	ErrSourceInUse    = eris.New("source is used by a layer")
)

// Event names a surface-wide event
type Event string

const (
	EventStyleLoad  Event = "style.load"
	EventMoveEnd    Event = "moveend"
	EventMouseDown  Event = "mousedown"
	EventTouchStart Event = "touchstart"
)

// LayerEvent names a pointer event scoped to a layer's rendered features
type LayerEvent string

const (
	LayerMouseEnter LayerEvent = "mouseenter"
	LayerMouseLeave LayerEvent = "mouseleave"
	LayerClick      LayerEvent = "click"
)

// LayerType is the style layer type
type LayerType string

const (
	LayerHeatmap LayerType = "heatmap"
	LayerCircle  LayerType = "circle"
	LayerLine    LayerType = "line"
	LayerSymbol  LayerType = "symbol"
)

// Layer is a style layer specification. Paint and Layout values are either
// literals or style expressions encoded as []any, e.g. []any{"get", "color"}.
type Layer struct {
	ID      string         `json:"id"`
	Type    LayerType      `json:"type"`
	Source  string         `json:"source"`
	Paint   map[string]any `json:"paint,omitempty"`
	Layout  map[string]any `json:"layout,omitempty"`
	MaxZoom float64        `json:"maxzoom,omitempty"`
}

// FeatureEvent carries the feature under the pointer for layer events.
// Feature is nil for mouseleave.
type FeatureEvent struct {
	LayerID string
	Feature *geojson.Feature
	LngLat  geo.Point
}

// Camera is the current camera position
type Camera struct {
	Center  geo.Point `json:"center"`
	Zoom    float64   `json:"zoom"`
	Bearing float64   `json:"bearing"`
	Pitch   float64   `json:"pitch"`
}

// FlyOptions describe an animated camera transition
type FlyOptions struct {
	Center   geo.Point
	Zoom     float64
	Pitch    float64
	Duration time.Duration
}

// FitOptions control FitBounds
type FitOptions struct {
	Padding  float64
	MaxZoom  float64
	Duration time.Duration
}

// Popup is an HTML popup anchored at a coordinate
type Popup interface {
	ID() string
	SetLngLat(p geo.Point)
	SetHTML(html string)
	Remove()
}

// Marker is a DOM marker anchored at a coordinate. Markers survive style reloads.
type Marker interface {
	ID() string
	SetLngLat(p geo.Point)
	LngLat() geo.Point
	// SetPopup attaches a popup; passing nil detaches the current one
	SetPopup(p Popup)
	Popup() Popup
	Remove()
}

// MarkerOptions configure a new marker
type MarkerOptions struct {
	Color     string
	ClassName string
}

// Surface is the map rendering surface.
//
// A style reload destroys every source and layer; IsStyleLoaded reports false
// until the next EventStyleLoad. Markers, popups and event subscriptions are
// not affected by style reloads.
type Surface interface {
	// IsStyleLoaded gates adding sources and layers. A host may report false
	// while the current style is still intact (e.g. while tiles load), so
	// removal must still work; RemoveLayer and RemoveSource return
	// ErrStyleNotLoaded only when the primitives are already gone.
	IsStyleLoaded() bool

	// On subscribes to an event until the returned func is called
	On(event Event, fn func()) (unsubscribe func())
	// Once subscribes to the next occurrence of an event only
	Once(event Event, fn func())
	// OnLayer subscribes to pointer events on one layer
	OnLayer(event LayerEvent, layerID string, fn func(FeatureEvent)) (unsubscribe func())

	AddSource(id string, data *geojson.FeatureCollection) error
	SetSourceData(id string, data *geojson.FeatureCollection) error
	RemoveSource(id string) error
	HasSource(id string) bool

	AddLayer(layer Layer) error
	RemoveLayer(id string) error
	HasLayer(id string) bool

	Camera() Camera
	JumpTo(cam Camera)
	FlyTo(opts FlyOptions)
	FitBounds(bounds geo.Bounds, opts FitOptions)
	// Stop halts any in-flight camera animation, firing its EventMoveEnd
	Stop()
	IsMoving() bool

	AddMarker(at geo.Point, opts MarkerOptions) Marker
	NewPopup(html string) Popup
	// ShowPopup opens a free-standing popup at a coordinate
	ShowPopup(p Popup, at geo.Point)

	// RequestFrame schedules fn for the next animation frame
	RequestFrame(fn func(now time.Time))
}
