package overlay

import (
	"context"
	"errors"

	"github.com/dpup/prefab/logging"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// Descriptor records everything one overlay put on the surface
type Descriptor struct {
	Kind    Kind
	ID      string
	Sources []string
	Layers  []string

	handlers []func()
}

// Recorder adds primitives to the surface on behalf of one overlay and
// remembers them so the overlay can be torn down as a unit.
type Recorder struct {
	s surface.Surface
	d *Descriptor
}

// AddSource adds a GeoJSON source
func (r *Recorder) AddSource(id string, data *geojson.FeatureCollection) error {
	if err := r.s.AddSource(id, data); err != nil {
		return err
	}
	r.d.Sources = append(r.d.Sources, id)
	return nil
}

// AddLayer adds a style layer above the overlay's previous layers
func (r *Recorder) AddLayer(layer surface.Layer) error {
	if err := r.s.AddLayer(layer); err != nil {
		return err
	}
	r.d.Layers = append(r.d.Layers, layer.ID)
	return nil
}

// OnLayer subscribes to a pointer event for as long as the overlay lives
func (r *Recorder) OnLayer(event surface.LayerEvent, layerID string, fn func(surface.FeatureEvent)) {
	r.d.handlers = append(r.d.handlers, r.s.OnLayer(event, layerID, fn))
}

// Registry tracks live overlays by ID and guarantees at most one instance per
// ID: adding an ID that already exists removes the old instance first.
type Registry struct {
	ctx      context.Context
	surface  surface.Surface
	overlays map[string]*Descriptor
	order    []string
}

// NewRegistry creates an empty registry for a surface
func NewRegistry(ctx context.Context, s surface.Surface) *Registry {
	return &Registry{
		ctx:      logging.EnsureLogger(ctx),
		surface:  s,
		overlays: make(map[string]*Descriptor),
	}
}

// Add replaces the overlay with the given ID by whatever build adds. If build
// fails, everything it added so far is removed again.
func (r *Registry) Add(kind Kind, id string, build func(*Recorder) error) error {
	r.Remove(id)

	if !r.surface.IsStyleLoaded() {
		return eris.Wrapf(surface.ErrStyleNotLoaded, "add overlay %q", id)
	}

	d := &Descriptor{Kind: kind, ID: id}
	if err := build(&Recorder{s: r.surface, d: d}); err != nil {
		r.teardown(d)
		return eris.Wrapf(err, "build overlay %q", id)
	}

	r.overlays[id] = d
	r.order = append(r.order, id)
	return nil
}

// Remove tears down an overlay: event subscriptions, then layers top-down,
// then sources. Removal is attempted even while the style reports not loaded.
// Unknown IDs are ignored and surface errors are only logged, since a style
// reload may already have destroyed the primitives.
func (r *Registry) Remove(id string) {
	d, ok := r.overlays[id]
	if !ok {
		return
	}
	delete(r.overlays, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	r.teardown(d)
}

func (r *Registry) teardown(d *Descriptor) {
	for _, unsubscribe := range d.handlers {
		unsubscribe()
	}
	d.handlers = nil

	for i := len(d.Layers) - 1; i >= 0; i-- {
		r.warnUnlessGone(r.surface.RemoveLayer(d.Layers[i]), d, "layer", d.Layers[i])
	}
	for i := len(d.Sources) - 1; i >= 0; i-- {
		r.warnUnlessGone(r.surface.RemoveSource(d.Sources[i]), d, "source", d.Sources[i])
	}
}

func (r *Registry) warnUnlessGone(err error, d *Descriptor, what, id string) {
	if err == nil || errors.Is(err, surface.ErrNotFound) || errors.Is(err, surface.ErrStyleNotLoaded) {
		return
	}
	logging.Warnw(r.ctx, "Overlay registry: failed to remove stale "+what,
		"overlay", d.ID, "kind", d.Kind.String(), what, id, "error", err)
}

// ClearAll removes every overlay, newest first
func (r *Registry) ClearAll() {
	for i := len(r.order) - 1; i >= 0; i-- {
		r.Remove(r.order[i])
	}
}

// Forget drops all bookkeeping without touching sources or layers. It is used
// after a style reload, when the surface has already discarded them.
func (r *Registry) Forget() {
	for _, d := range r.overlays {
		for _, unsubscribe := range d.handlers {
			unsubscribe()
		}
	}
	r.overlays = make(map[string]*Descriptor)
	r.order = nil
}

// Has reports whether an overlay is live
func (r *Registry) Has(id string) bool {
	_, ok := r.overlays[id]
	return ok
}

// Get returns a copy of an overlay's descriptor
func (r *Registry) Get(id string) (Descriptor, bool) {
	d, ok := r.overlays[id]
	if !ok {
		return Descriptor{}, false
	}
	return Descriptor{
		Kind:    d.Kind,
		ID:      d.ID,
		Sources: append([]string(nil), d.Sources...),
		Layers:  append([]string(nil), d.Layers...),
	}, true
}

// IDs returns live overlay IDs in the order they were added
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
