package overlay

import (
	"github.com/dpup/prefab/logging"
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// DrawRoute matches risk segments onto the route path, draws each as an
// outlined, risk-colored line and fits the camera to the route.
func (e *Engine) DrawRoute(segments []routing.RouteSegment, path geo.Path) error {
	if len(segments) == 0 {
		return nil
	}
	route := routing.Route{Segments: segments, Path: path}

	e.cache.SetRoute(route)
	if !e.ready(RouteID) {
		e.fitPending = true
		return nil
	}
	e.fitPending = false
	if err := e.drawRoute(route); err != nil {
		return err
	}
	e.fitRoute(route)
	return nil
}

// DrawRouteEncoded is DrawRoute for a Google encoded polyline path
func (e *Engine) DrawRouteEncoded(segments []routing.RouteSegment, encoded string) error {
	path, err := e.geo.DecodePolyline(encoded)
	if err != nil {
		return eris.Wrapf(ErrInvalidInput, "route polyline: %v", err)
	}
	return e.DrawRoute(segments, path)
}

// ClearRoute removes the route overlay
func (e *Engine) ClearRoute() {
	e.cache.ClearRoute()
	e.fitPending = false
	e.registry.Remove(RouteID)
}

// ReplayRoute implements cache.Replayer. The camera is left where the user
// put it, unless the route is being drawn for the first time after a deferred
// DrawRoute.
func (e *Engine) ReplayRoute(route routing.Route) {
	if err := e.drawRoute(route); err != nil {
		logging.Warnw(e.ctx, "Overlay restore: route failed", "error", err)
		return
	}
	if e.fitPending {
		e.fitPending = false
		e.fitRoute(route)
	}
}

func (e *Engine) drawRoute(route routing.Route) error {
	cfg := e.cfg.Overlay
	matched := e.matcher.MatchRoute(route)

	fallbacks := 0
	for _, m := range matched {
		if m.Fallback {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		logging.Debugw(e.ctx, "Route overlay: segments drawn as straight lines",
			"segments", len(matched), "fallbacks", fallbacks)
	}

	return e.registry.Add(KindRouteLines, RouteID, func(r *Recorder) error {
		src := sourceID(RouteID)
		if err := r.AddSource(src, routeFeatures(matched, cfg)); err != nil {
			return err
		}
		if err := r.AddLayer(routeOutlineLayer(layerID(RouteID, "outline"), src, cfg)); err != nil {
			return err
		}
		return r.AddLayer(routeLineLayer(layerID(RouteID, "line"), src))
	})
}

func (e *Engine) fitRoute(route routing.Route) {
	path := route.Path
	if len(path) == 0 {
		for _, seg := range route.Segments {
			path = append(path, seg.Start(), seg.End())
		}
	}
	bounds, ok := e.geo.PathBounds(path)
	if !ok {
		return
	}
	e.surface.FitBounds(bounds, surface.FitOptions{
		Padding: e.cfg.Overlay.FitPadding,
		MaxZoom: e.cfg.Overlay.FitMaxZoom,
	})
}
