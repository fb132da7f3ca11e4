package overlay

import (
	"github.com/dpup/prefab/logging"

	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// SetPointsOfInterest draws safety resources on one shared layer. Hovering a
// point shows a transient tooltip; clicking pins a popup for that point.
func (e *Engine) SetPointsOfInterest(pois []incident.PointOfInterest) error {
	pois = incident.NormalizePOIs(pois)
	if len(pois) == 0 {
		return nil
	}

	e.cache.SetPointsOfInterest(pois)
	if !e.ready(POIsID) {
		return nil
	}
	return e.drawPointsOfInterest(pois)
}

// ClearPointsOfInterest removes the POI layer and its popups
func (e *Engine) ClearPointsOfInterest() {
	e.cache.ClearPointsOfInterest()
	e.hideHover()
	e.hideSticky()
	e.registry.Remove(POIsID)
}

// ReplayPointsOfInterest implements cache.Replayer
func (e *Engine) ReplayPointsOfInterest(pois []incident.PointOfInterest) {
	if err := e.drawPointsOfInterest(pois); err != nil {
		logging.Warnw(e.ctx, "Overlay restore: points of interest failed", "error", err)
	}
}

func (e *Engine) drawPointsOfInterest(pois []incident.PointOfInterest) error {
	// The pinned popup belongs to the previous feature set
	e.hideSticky()

	return e.registry.Add(KindPointMarkers, POIsID, func(r *Recorder) error {
		src := sourceID(POIsID)
		if err := r.AddSource(src, poiFeatures(pois, e.cfg.Overlay)); err != nil {
			return err
		}
		circles := layerID(POIsID, "circles")
		if err := r.AddLayer(poiLayer(circles, src)); err != nil {
			return err
		}
		e.bindHoverTooltip(r, circles, poiTooltip)
		r.OnLayer(surface.LayerClick, circles, e.layerHandler("POI popup", e.pinPOI))
		return nil
	})
}

// pinPOI opens the sticky popup for the clicked feature. Clicking the pinned
// feature again only refreshes it.
func (e *Engine) pinPOI(ev surface.FeatureEvent) {
	if ev.Feature == nil {
		return
	}
	html := poiTooltip(ev.Feature)
	if e.sticky == nil {
		e.sticky = e.surface.NewPopup(html)
	} else {
		e.sticky.SetHTML(html)
	}
	e.stickyFeature = ev.Feature.ID
	e.hideHover()
	e.surface.ShowPopup(e.sticky, ev.LngLat)
}

// PinnedPOI returns the feature ID of the pinned popup, if any
func (e *Engine) PinnedPOI() (any, bool) {
	return e.stickyFeature, e.stickyFeature != nil
}
