// Package overlay composes safety overlays onto a map surface: density and
// hotspot fields, risk-colored route lines, live incidents, points of interest
// and named markers. Every drawn dataset is recorded in a restoration cache and
// redrawn automatically when the surface reloads its style.
//
// An Engine is driven from the surface's event loop and is not safe for
// concurrent use.
package overlay

import (
	"context"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/cache"
	"github.com/dpup/saferoute/mapcore/internal/camera"
	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/guard"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// ErrInvalidInput is returned for arguments that can never be drawn
var ErrInvalidInput = eris.New("invalid overlay input")

// Engine is the overlay composition facade for one surface
type Engine struct {
	ctx      context.Context
	surface  surface.Surface
	cfg      *config.Config
	cache    *cache.RestorationCache
	matcher  routing.SegmentMatcher
	geo      geo.GeoUtils
	registry *Registry
	camera   *camera.Controller

	markers map[string]surface.Marker

	// fitPending is set when a route draw was deferred; the camera is fit to
	// the route when it is finally drawn.
	fitPending bool

	// hover is the transient tooltip shared by all point layers
	hover surface.Popup
	// sticky is the click popup for points of interest
	sticky        surface.Popup
	stickyFeature any

	unsubscribe []func()
}

// Option configures an Engine
type Option func(*Engine)

// WithCache uses the given restoration cache instead of cache.Default()
func WithCache(c *cache.RestorationCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithConfig overrides the default configuration
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithMatcher overrides the route segment matcher
func WithMatcher(m routing.SegmentMatcher) Option {
	return func(e *Engine) {
		e.matcher = m
	}
}

// New attaches an engine to a surface. Overlays drawn before the style has
// loaded are drawn when it does.
func New(ctx context.Context, s surface.Surface, opts ...Option) *Engine {
	ctx = logging.EnsureLogger(ctx)
	e := &Engine{
		ctx:     ctx,
		surface: s,
		cfg:     config.DefaultConfig(),
		cache:   cache.Default(),
		matcher: routing.NewSegmentMatcher(),
		geo:     geo.NewGeoUtils(),
		markers: make(map[string]surface.Marker),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registry = NewRegistry(ctx, s)
	e.camera = camera.New(ctx, s, e.cfg.Camera)

	e.unsubscribe = append(e.unsubscribe,
		s.On(surface.EventStyleLoad, guard.Wrap(ctx, "Overlay restore", e.restore)))
	return e
}

// restore runs once per style load. The new style starts empty, so the
// registry's bookkeeping is stale and every cached dataset is redrawn.
func (e *Engine) restore() {
	e.registry.Forget()
	e.hideHover()
	e.hideSticky()

	start := time.Now()
	n := e.cache.Replay(e)
	logging.Debugw(e.ctx, "Overlay restore: replayed cached overlays",
		"overlays", n, "duration", time.Since(start).String())
}

// Registry exposes the live overlay bookkeeping
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Camera exposes the rotation controller
func (e *Engine) Camera() *camera.Controller {
	return e.camera
}

// Snapshot returns what would be redrawn after a style reload
func (e *Engine) Snapshot() cache.Snapshot {
	return e.cache.Snapshot()
}

// ready reports whether overlays can be drawn now. When it returns false the
// dataset stays cached and is drawn by the next style load.
func (e *Engine) ready(what string) bool {
	if e.surface.IsStyleLoaded() {
		return true
	}
	logging.Debugw(e.ctx, "Overlay deferred until style load", "overlay", what)
	return false
}

// FlyTo flies the camera to a coordinate, pausing rotation. onComplete runs
// when the flight lands; a zero duration uses the configured default.
func (e *Engine) FlyTo(lat, lng float64, onComplete func(), duration time.Duration) error {
	target := geo.Point{Latitude: lat, Longitude: lng}
	if !geo.IsValidCoordinate(target) {
		return eris.Wrapf(ErrInvalidInput, "fly-to target %f,%f", lat, lng)
	}
	var done func()
	if onComplete != nil {
		done = guard.Wrap(e.ctx, "Fly-to callback", onComplete)
	}
	return e.camera.FlyTo(target, duration, done)
}

// StartRotation starts the idle rotation loop
func (e *Engine) StartRotation() {
	e.camera.Start()
}

// PauseRotation stops idle rotation until ResumeRotation
func (e *Engine) PauseRotation() error {
	return e.camera.Pause()
}

// ResumeRotation restarts idle rotation. It fails while a fly-to is in flight.
func (e *Engine) ResumeRotation() error {
	return e.camera.Resume()
}

// ResetAll removes every overlay, marker and popup and empties the
// restoration cache.
func (e *Engine) ResetAll() {
	e.cache.Clear()
	e.fitPending = false
	e.hideHover()
	e.hideSticky()
	e.registry.ClearAll()
	for slot := range e.markers {
		e.ClearNamedMarker(slot)
	}
	logging.Debugw(e.ctx, "Overlay reset")
}

// Close detaches the engine from the surface. Drawn overlays stay on the
// surface but no longer respond to events or style reloads.
func (e *Engine) Close() {
	e.camera.Stop()
	for _, unsubscribe := range e.unsubscribe {
		unsubscribe()
	}
	e.unsubscribe = nil
	e.registry.Forget()
}

// layerHandler guards a pointer handler registered on the surface
func (e *Engine) layerHandler(name string, fn func(surface.FeatureEvent)) func(surface.FeatureEvent) {
	return func(ev surface.FeatureEvent) {
		guard.Run(e.ctx, name, func() { fn(ev) })
	}
}

func (e *Engine) showHover(html string, at geo.Point) {
	if html == "" {
		return
	}
	if e.hover == nil {
		e.hover = e.surface.NewPopup(html)
	} else {
		e.hover.SetHTML(html)
	}
	e.surface.ShowPopup(e.hover, at)
}

func (e *Engine) hideHover() {
	if e.hover != nil {
		e.hover.Remove()
	}
}

func (e *Engine) hideSticky() {
	if e.sticky != nil {
		e.sticky.Remove()
	}
	e.stickyFeature = nil
}
