package memory

import (
	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// Marker implements surface.Marker
type Marker struct {
	id      string
	s       *Surface
	lngLat  geo.Point
	options surface.MarkerOptions
	popup   *Popup
}

// ID implements surface.Marker
func (m *Marker) ID() string { return m.id }

// SetLngLat implements surface.Marker
func (m *Marker) SetLngLat(p geo.Point) {
	m.lngLat = p
	if m.popup != nil {
		m.popup.lngLat = p
	}
}

// LngLat implements surface.Marker
func (m *Marker) LngLat() geo.Point { return m.lngLat }

// Options returns the options the marker was created with
func (m *Marker) Options() surface.MarkerOptions { return m.options }

// SetPopup implements surface.Marker
func (m *Marker) SetPopup(p surface.Popup) {
	if p == nil {
		m.popup = nil
		return
	}
	popup, ok := p.(*Popup)
	if !ok {
		return
	}
	popup.lngLat = m.lngLat
	m.popup = popup
}

// Popup implements surface.Marker
func (m *Marker) Popup() surface.Popup {
	if m.popup == nil {
		return nil
	}
	return m.popup
}

// Remove implements surface.Marker
func (m *Marker) Remove() {
	for i, candidate := range m.s.markers {
		if candidate == m {
			m.s.markers = append(m.s.markers[:i:i], m.s.markers[i+1:]...)
			break
		}
	}
	if m.popup != nil {
		m.popup.Remove()
	}
}

// Popup implements surface.Popup
type Popup struct {
	id     string
	s      *Surface
	html   string
	lngLat geo.Point
}

// ID implements surface.Popup
func (p *Popup) ID() string { return p.id }

// SetLngLat implements surface.Popup
func (p *Popup) SetLngLat(at geo.Point) { p.lngLat = at }

// LngLat returns the popup's anchor
func (p *Popup) LngLat() geo.Point { return p.lngLat }

// SetHTML implements surface.Popup
func (p *Popup) SetHTML(html string) { p.html = html }

// HTML returns the popup content
func (p *Popup) HTML() string { return p.html }

// Remove implements surface.Popup
func (p *Popup) Remove() {
	for i, candidate := range p.s.popups {
		if candidate == p {
			p.s.popups = append(p.s.popups[:i:i], p.s.popups[i+1:]...)
			return
		}
	}
}

// AddMarker implements surface.Surface
func (s *Surface) AddMarker(at geo.Point, opts surface.MarkerOptions) surface.Marker {
	m := &Marker{id: newID(), s: s, lngLat: at, options: opts}
	s.markers = append(s.markers, m)
	return m
}

// NewPopup implements surface.Surface
func (s *Surface) NewPopup(html string) surface.Popup {
	return &Popup{id: newID(), s: s, html: html}
}

// ShowPopup implements surface.Surface
func (s *Surface) ShowPopup(p surface.Popup, at geo.Point) {
	popup, ok := p.(*Popup)
	if !ok {
		return
	}
	popup.lngLat = at
	for _, open := range s.popups {
		if open == popup {
			return
		}
	}
	s.popups = append(s.popups, popup)
}

// Markers returns every live marker in creation order
func (s *Surface) Markers() []*Marker {
	return append([]*Marker(nil), s.markers...)
}

// OpenPopups returns every free-standing open popup
func (s *Surface) OpenPopups() []*Popup {
	return append([]*Popup(nil), s.popups...)
}
