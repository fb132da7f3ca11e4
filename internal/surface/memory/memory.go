// Package memory is an in-process rendering surface. It keeps sources, layers,
// markers and the camera in plain data structures and lets the host drive the
// event loop explicitly: style loads, animation frames, move completion and
// pointer events are all triggered by method calls.
package memory

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

type handler struct {
	id   int
	fn   func()
	once bool
}

type layerHandlerKey struct {
	event   surface.LayerEvent
	layerID string
}

type layerHandler struct {
	id int
	fn func(surface.FeatureEvent)
}

// Surface implements surface.Surface in memory
type Surface struct {
	styleLoaded bool
	styleLoads  int

	sources map[string]*geojson.FeatureCollection
	layers  []surface.Layer

	handlers      map[surface.Event][]*handler
	layerHandlers map[layerHandlerKey][]*layerHandler
	nextHandlerID int

	camera surface.Camera
	flight *surface.FlyOptions

	markers []*Marker
	popups  []*Popup

	frames []func(time.Time)
}

// Option configures a Surface
type Option func(*Surface)

// WithStyleLoaded starts the surface with its style already loaded
func WithStyleLoaded() Option {
	return func(s *Surface) {
		s.styleLoaded = true
		s.styleLoads = 1
	}
}

// WithCamera sets the initial camera
func WithCamera(cam surface.Camera) Option {
	return func(s *Surface) {
		s.camera = cam
	}
}

// New creates an empty surface. Without WithStyleLoaded the style is pending
// until LoadStyle is called.
func New(opts ...Option) *Surface {
	s := &Surface{
		sources:       make(map[string]*geojson.FeatureCollection),
		handlers:      make(map[surface.Event][]*handler),
		layerHandlers: make(map[layerHandlerKey][]*layerHandler),
		camera:        surface.Camera{Zoom: 1.5},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsStyleLoaded implements surface.Surface
func (s *Surface) IsStyleLoaded() bool {
	return s.styleLoaded
}

// LoadStyle finishes loading the current style and fires EventStyleLoad
func (s *Surface) LoadStyle() {
	s.styleLoaded = true
	s.styleLoads++
	s.Emit(surface.EventStyleLoad)
}

// UnloadStyle starts a style swap: every source and layer is destroyed and the
// style reports not loaded until LoadStyle is called.
func (s *Surface) UnloadStyle() {
	s.styleLoaded = false
	s.sources = make(map[string]*geojson.FeatureCollection)
	s.layers = nil
}

// SwapStyle performs a complete style swap (e.g. a theme change)
func (s *Surface) SwapStyle() {
	s.UnloadStyle()
	s.LoadStyle()
}

// StyleLoads counts completed style loads
func (s *Surface) StyleLoads() int {
	return s.styleLoads
}

// On implements surface.Surface
func (s *Surface) On(event surface.Event, fn func()) func() {
	h := s.addHandler(event, fn, false)
	return func() { s.removeHandler(event, h.id) }
}

// Once implements surface.Surface
func (s *Surface) Once(event surface.Event, fn func()) {
	s.addHandler(event, fn, true)
}

func (s *Surface) addHandler(event surface.Event, fn func(), once bool) *handler {
	s.nextHandlerID++
	h := &handler{id: s.nextHandlerID, fn: fn, once: once}
	s.handlers[event] = append(s.handlers[event], h)
	return h
}

func (s *Surface) removeHandler(event surface.Event, id int) {
	hs := s.handlers[event]
	for i, h := range hs {
		if h.id == id {
			s.handlers[event] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

// Emit fires a surface event. Once-handlers are detached before they run.
func (s *Surface) Emit(event surface.Event) {
	current := append([]*handler(nil), s.handlers[event]...)
	for _, h := range current {
		if h.once {
			s.removeHandler(event, h.id)
		}
	}
	for _, h := range current {
		h.fn()
	}
}

// HandlerCount reports the number of subscriptions for an event
func (s *Surface) HandlerCount(event surface.Event) int {
	return len(s.handlers[event])
}

// OnLayer implements surface.Surface
func (s *Surface) OnLayer(event surface.LayerEvent, layerID string, fn func(surface.FeatureEvent)) func() {
	s.nextHandlerID++
	key := layerHandlerKey{event: event, layerID: layerID}
	h := &layerHandler{id: s.nextHandlerID, fn: fn}
	s.layerHandlers[key] = append(s.layerHandlers[key], h)
	return func() {
		hs := s.layerHandlers[key]
		for i, candidate := range hs {
			if candidate.id == h.id {
				s.layerHandlers[key] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// LayerHandlerCount reports the number of subscriptions for a layer event
func (s *Surface) LayerHandlerCount(event surface.LayerEvent, layerID string) int {
	return len(s.layerHandlers[layerHandlerKey{event: event, layerID: layerID}])
}

// FireLayerEvent simulates a pointer event over the feature with the given ID.
// Nothing fires when the layer is not rendered or, except for mouseleave, when
// the feature is not in the layer's source.
func (s *Surface) FireLayerEvent(event surface.LayerEvent, layerID string, featureID any) bool {
	layer, ok := s.Layer(layerID)
	if !ok {
		return false
	}

	ev := surface.FeatureEvent{LayerID: layerID}
	if event != surface.LayerMouseLeave {
		f := s.findFeature(layer.Source, featureID)
		if f == nil {
			return false
		}
		ev.Feature = f
		if f.Geometry != nil {
			ev.LngLat = geo.FromOrb(f.Geometry.Bound().Center())
		}
	}

	hs := append([]*layerHandler(nil), s.layerHandlers[layerHandlerKey{event: event, layerID: layerID}]...)
	for _, h := range hs {
		h.fn(ev)
	}
	return len(hs) > 0
}

func (s *Surface) findFeature(sourceID string, featureID any) *geojson.Feature {
	fc, ok := s.sources[sourceID]
	if !ok {
		return nil
	}
	for _, f := range fc.Features {
		if f.ID == featureID {
			return f
		}
	}
	return nil
}

// AddSource implements surface.Surface
func (s *Surface) AddSource(id string, data *geojson.FeatureCollection) error {
	if !s.styleLoaded {
		return eris.Wrapf(surface.ErrStyleNotLoaded, "add source %q", id)
	}
	if _, exists := s.sources[id]; exists {
		return eris.Wrapf(surface.ErrAlreadyExists, "source %q", id)
	}
	if data == nil {
		data = geojson.NewFeatureCollection()
	}
	s.sources[id] = data
	return nil
}

// SetSourceData implements surface.Surface
func (s *Surface) SetSourceData(id string, data *geojson.FeatureCollection) error {
	if !s.styleLoaded {
		return eris.Wrapf(surface.ErrStyleNotLoaded, "set source %q", id)
	}
	if _, exists := s.sources[id]; !exists {
		return eris.Wrapf(surface.ErrNotFound, "source %q", id)
	}
	if data == nil {
		data = geojson.NewFeatureCollection()
	}
	s.sources[id] = data
	return nil
}

// RemoveSource implements surface.Surface
func (s *Surface) RemoveSource(id string) error {
	if !s.styleLoaded {
		return eris.Wrapf(surface.ErrStyleNotLoaded, "remove source %q", id)
	}
	if _, exists := s.sources[id]; !exists {
		return eris.Wrapf(surface.ErrNotFound, "source %q", id)
	}
	for _, l := range s.layers {
		if l.Source == id {
			return eris.Wrapf(surface.ErrSourceInUse, "source %q used by layer %q", id, l.ID)
		}
	}
	delete(s.sources, id)
	return nil
}

// HasSource implements surface.Surface
func (s *Surface) HasSource(id string) bool {
	_, exists := s.sources[id]
	return exists
}

// Source returns a source's data
func (s *Surface) Source(id string) (*geojson.FeatureCollection, bool) {
	fc, exists := s.sources[id]
	return fc, exists
}

// SourceIDs returns every source ID, sorted
func (s *Surface) SourceIDs() []string {
	ids := make([]string, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddLayer implements surface.Surface. Layers stack in insertion order.
func (s *Surface) AddLayer(layer surface.Layer) error {
	if !s.styleLoaded {
		return eris.Wrapf(surface.ErrStyleNotLoaded, "add layer %q", layer.ID)
	}
	if s.HasLayer(layer.ID) {
		return eris.Wrapf(surface.ErrAlreadyExists, "layer %q", layer.ID)
	}
	if !s.HasSource(layer.Source) {
		return eris.Wrapf(surface.ErrNotFound, "source %q for layer %q", layer.Source, layer.ID)
	}
	s.layers = append(s.layers, layer)
	return nil
}

// RemoveLayer implements surface.Surface
func (s *Surface) RemoveLayer(id string) error {
	if !s.styleLoaded {
		return eris.Wrapf(surface.ErrStyleNotLoaded, "remove layer %q", id)
	}
	for i, l := range s.layers {
		if l.ID == id {
			s.layers = append(s.layers[:i:i], s.layers[i+1:]...)
			return nil
		}
	}
	return eris.Wrapf(surface.ErrNotFound, "layer %q", id)
}

// HasLayer implements surface.Surface
func (s *Surface) HasLayer(id string) bool {
	_, ok := s.Layer(id)
	return ok
}

// Layer returns a layer by ID
func (s *Surface) Layer(id string) (surface.Layer, bool) {
	for _, l := range s.layers {
		if l.ID == id {
			return l, true
		}
	}
	return surface.Layer{}, false
}

// Layers returns the layer stack, bottom first
func (s *Surface) Layers() []surface.Layer {
	return append([]surface.Layer(nil), s.layers...)
}

// Camera implements surface.Surface
func (s *Surface) Camera() surface.Camera {
	return s.camera
}

// JumpTo implements surface.Surface
func (s *Surface) JumpTo(cam surface.Camera) {
	s.Stop()
	s.camera = cam
	s.Emit(surface.EventMoveEnd)
}

// FlyTo implements surface.Surface. The flight stays in progress until
// CompleteMove or Stop is called.
func (s *Surface) FlyTo(opts surface.FlyOptions) {
	s.Stop()
	s.flight = &opts
}

// FitBounds implements surface.Surface. The fit is applied immediately.
func (s *Surface) FitBounds(bounds geo.Bounds, opts surface.FitOptions) {
	s.Stop()
	span := math.Max(
		bounds.NorthEast.Latitude-bounds.SouthWest.Latitude,
		bounds.NorthEast.Longitude-bounds.SouthWest.Longitude,
	)
	zoom := 20.0
	if span > 0 {
		zoom = math.Log2(360 / span)
	}
	if opts.MaxZoom > 0 && zoom > opts.MaxZoom {
		zoom = opts.MaxZoom
	}
	s.camera.Center = bounds.Center()
	s.camera.Zoom = math.Max(0, zoom)
	s.Emit(surface.EventMoveEnd)
}

// Stop implements surface.Surface
func (s *Surface) Stop() {
	if s.flight == nil {
		return
	}
	s.flight = nil
	s.Emit(surface.EventMoveEnd)
}

// IsMoving implements surface.Surface
func (s *Surface) IsMoving() bool {
	return s.flight != nil
}

// Flight returns the in-progress flight, if any
func (s *Surface) Flight() (surface.FlyOptions, bool) {
	if s.flight == nil {
		return surface.FlyOptions{}, false
	}
	return *s.flight, true
}

// CompleteMove lands the in-progress flight and fires EventMoveEnd
func (s *Surface) CompleteMove() bool {
	if s.flight == nil {
		return false
	}
	f := s.flight
	s.flight = nil
	s.camera.Center = f.Center
	s.camera.Zoom = f.Zoom
	s.camera.Pitch = f.Pitch
	s.Emit(surface.EventMoveEnd)
	return true
}

// RequestFrame implements surface.Surface
func (s *Surface) RequestFrame(fn func(now time.Time)) {
	s.frames = append(s.frames, fn)
}

// Frame runs every callback requested before this call
func (s *Surface) Frame(now time.Time) int {
	pending := s.frames
	s.frames = nil
	for _, fn := range pending {
		fn(now)
	}
	return len(pending)
}

// PendingFrames reports the number of scheduled frame callbacks
func (s *Surface) PendingFrames() int {
	return len(s.frames)
}

// Simulated pointer input on the map canvas

// PointerDown simulates a mouse press on the map
func (s *Surface) PointerDown() {
	s.Emit(surface.EventMouseDown)
}

// TouchStart simulates a touch on the map
func (s *Surface) TouchStart() {
	s.Emit(surface.EventTouchStart)
}

func newID() string {
	return uuid.NewString()
}
