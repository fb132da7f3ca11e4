package overlay

import (
	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// SetNamedMarker places the marker for a slot such as SlotSearchCenter. A slot
// holds at most one marker: setting it again moves the marker and replaces its
// popup content.
func (e *Engine) SetNamedMarker(slot string, lat, lng float64, label string) error {
	if slot == "" {
		return eris.Wrap(ErrInvalidInput, "marker slot is empty")
	}
	at := geo.Point{Latitude: lat, Longitude: lng}
	if !geo.IsValidCoordinate(at) {
		return eris.Wrapf(ErrInvalidInput, "marker %q at %f,%f", slot, lat, lng)
	}

	if m, ok := e.markers[slot]; ok {
		m.SetLngLat(at)
		e.setMarkerLabel(m, label)
		return nil
	}

	m := e.surface.AddMarker(at, surface.MarkerOptions{
		Color:     markerColor(e.cfg.Overlay, slot),
		ClassName: "marker-" + slot,
	})
	e.setMarkerLabel(m, label)
	e.markers[slot] = m
	return nil
}

func (e *Engine) setMarkerLabel(m surface.Marker, label string) {
	if label == "" {
		if p := m.Popup(); p != nil {
			p.Remove()
			m.SetPopup(nil)
		}
		return
	}
	if p := m.Popup(); p != nil {
		p.SetHTML(markerPopup(label))
		return
	}
	m.SetPopup(e.surface.NewPopup(markerPopup(label)))
}

// ClearNamedMarker removes a slot's marker. Clearing an empty slot is a no-op.
func (e *Engine) ClearNamedMarker(slot string) {
	m, ok := e.markers[slot]
	if !ok {
		return
	}
	m.Remove()
	delete(e.markers, slot)
}

// NamedMarker returns the marker in a slot
func (e *Engine) NamedMarker(slot string) (surface.Marker, bool) {
	m, ok := e.markers[slot]
	return m, ok
}
