package overlay

import (
	"github.com/dpup/prefab/logging"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// DrawDensity renders weighted points either as a continuous heat field or as
// weighted hotspot circles. Switching modes replaces the other mode's overlay.
// An empty dataset leaves the current overlay in place.
func (e *Engine) DrawDensity(points []incident.WeightedPoint, mode incident.DensityMode) error {
	if !mode.Valid() {
		return eris.Wrapf(ErrInvalidInput, "density mode %q", mode)
	}
	points = incident.NormalizePoints(points)
	if len(points) == 0 {
		return nil
	}

	e.cache.SetDensity(points, mode)
	if !e.ready(string(mode)) {
		return nil
	}
	return e.drawDensity(points, mode)
}

// ClearDensity removes the density or hotspot overlay
func (e *Engine) ClearDensity() {
	e.cache.ClearDensity()
	e.hideHover()
	e.registry.Remove(DensityID)
	e.registry.Remove(HotspotsID)
}

// ReplayDensity implements cache.Replayer
func (e *Engine) ReplayDensity(points []incident.WeightedPoint, mode incident.DensityMode) {
	if err := e.drawDensity(points, mode); err != nil {
		logging.Warnw(e.ctx, "Overlay restore: density failed", "mode", string(mode), "error", err)
	}
}

func (e *Engine) drawDensity(points []incident.WeightedPoint, mode incident.DensityMode) error {
	cfg := e.cfg.Overlay
	data := pointFeatures(points)

	if mode == incident.ModeHotspots {
		e.registry.Remove(DensityID)
		return e.registry.Add(KindHotspots, HotspotsID, func(r *Recorder) error {
			src := sourceID(HotspotsID)
			if err := r.AddSource(src, data); err != nil {
				return err
			}
			circles := layerID(HotspotsID, "circles")
			if err := r.AddLayer(hotspotLayer(circles, src, cfg)); err != nil {
				return err
			}
			e.bindHoverTooltip(r, circles, incidentTooltip)
			return nil
		})
	}

	e.registry.Remove(HotspotsID)
	return e.registry.Add(KindDensity, DensityID, func(r *Recorder) error {
		src := sourceID(DensityID)
		if err := r.AddSource(src, data); err != nil {
			return err
		}
		if err := r.AddLayer(heatmapLayer(layerID(DensityID, "heat"), src, cfg)); err != nil {
			return err
		}
		hit := layerID(DensityID, "hit")
		if err := r.AddLayer(hitLayer(hit, src, cfg)); err != nil {
			return err
		}
		e.bindHoverTooltip(r, hit, incidentTooltip)
		return nil
	})
}

// bindHoverTooltip shows the shared transient tooltip while the pointer is
// over a feature of the layer.
func (e *Engine) bindHoverTooltip(r *Recorder, layer string, render func(*geojson.Feature) string) {
	r.OnLayer(surface.LayerMouseEnter, layer, e.layerHandler("Tooltip", func(ev surface.FeatureEvent) {
		e.showHover(render(ev.Feature), ev.LngLat)
	}))
	r.OnLayer(surface.LayerMouseLeave, layer, e.layerHandler("Tooltip", func(surface.FeatureEvent) {
		e.hideHover()
	}))
}
