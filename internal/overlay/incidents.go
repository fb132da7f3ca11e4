package overlay

import (
	"github.com/dpup/prefab/logging"

	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
)

// DrawIncidentField renders live incidents as severity-colored circles with
// hover tooltips. It is independent of the density overlay.
func (e *Engine) DrawIncidentField(points []incident.WeightedPoint) error {
	points = incident.NormalizePoints(points)
	if len(points) == 0 {
		return nil
	}

	e.cache.SetIncidentField(points)
	if !e.ready(IncidentsID) {
		return nil
	}
	return e.drawIncidentField(points)
}

// DrawLiveIncidents converts a live feed to weighted points and draws it
func (e *Engine) DrawLiveIncidents(incidents []incident.LiveIncident) error {
	return e.DrawIncidentField(incident.FromLiveIncidents(incidents))
}

// ClearIncidentField removes the live incident overlay
func (e *Engine) ClearIncidentField() {
	e.cache.ClearIncidentField()
	e.hideHover()
	e.registry.Remove(IncidentsID)
}

// ReplayIncidentField implements cache.Replayer
func (e *Engine) ReplayIncidentField(points []incident.WeightedPoint) {
	if err := e.drawIncidentField(points); err != nil {
		logging.Warnw(e.ctx, "Overlay restore: incident field failed", "error", err)
	}
}

func (e *Engine) drawIncidentField(points []incident.WeightedPoint) error {
	return e.registry.Add(KindIncidentField, IncidentsID, func(r *Recorder) error {
		src := sourceID(IncidentsID)
		if err := r.AddSource(src, pointFeatures(points)); err != nil {
			return err
		}
		circles := layerID(IncidentsID, "circles")
		if err := r.AddLayer(incidentLayer(circles, src)); err != nil {
			return err
		}
		e.bindHoverTooltip(r, circles, incidentTooltip)
		return nil
	})
}
