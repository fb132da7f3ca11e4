package overlay

import (
	"fmt"
	"html"
	"strings"

	"github.com/paulmach/orb/geojson"
)

func escapeProp(props geojson.Properties, key string) string {
	return html.EscapeString(props.MustString(key, ""))
}

// incidentTooltip renders hover content for a weighted incident point
func incidentTooltip(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	props := f.Properties

	var b strings.Builder
	b.WriteString(`<div class="incident-tooltip">`)
	fmt.Fprintf(&b, "<strong>%s</strong>", titleOr(escapeProp(props, "type"), "Incident"))
	if d := escapeProp(props, "description"); d != "" {
		fmt.Fprintf(&b, "<p>%s</p>", d)
	}
	if date := escapeProp(props, "date"); date != "" {
		fmt.Fprintf(&b, `<div class="date">%s</div>`, date)
	}
	if src := escapeProp(props, "source"); src != "" {
		fmt.Fprintf(&b, `<div class="source">Source: %s</div>`, src)
	}
	fmt.Fprintf(&b, `<div class="weight">Severity %.0f%%</div>`, props.MustFloat64("weight", 0)*100)
	b.WriteString("</div>")
	return b.String()
}

// poiTooltip renders hover and click content for a point of interest
func poiTooltip(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	props := f.Properties

	var b strings.Builder
	b.WriteString(`<div class="poi-tooltip">`)
	fmt.Fprintf(&b, "<strong>%s</strong>", titleOr(escapeProp(props, "name"), "Point of interest"))
	fmt.Fprintf(&b, `<div class="type">%s</div>`, poiLabel(props.MustString("type", "")))
	if addr := escapeProp(props, "address"); addr != "" {
		fmt.Fprintf(&b, `<div class="address">%s</div>`, addr)
	}
	if d := props.MustFloat64("distance", 0); d > 0 {
		fmt.Fprintf(&b, `<div class="distance">%.1f mi away</div>`, d/1609.344)
	}
	b.WriteString("</div>")
	return b.String()
}

// markerPopup renders the popup attached to a named marker
func markerPopup(label string) string {
	return fmt.Sprintf(`<div class="marker-popup">%s</div>`, html.EscapeString(label))
}

func titleOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func poiLabel(t string) string {
	switch t {
	case "police":
		return "Police station"
	case "hospital":
		return "Hospital"
	case "fire_station":
		return "Fire station"
	default:
		return "Point of interest"
	}
}
