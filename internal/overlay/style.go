package overlay

import (
	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// Style expression helpers. Expressions use the Mapbox GL JSON form.

func get(property string) []any {
	return []any{"get", property}
}

func interpolateLinear(input []any, stops ...any) []any {
	return append([]any{"interpolate", []any{"linear"}, input}, stops...)
}

func zoom() []any {
	return []any{"zoom"}
}

func heatmapLayer(id, source string, cfg config.OverlayConfig) surface.Layer {
	c := cfg.HeatColors
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerHeatmap,
		Source: source,
		Paint: map[string]any{
			"heatmap-weight":    interpolateLinear(get("weight"), 0, 0, 1, 1),
			"heatmap-intensity": interpolateLinear(zoom(), 0, 1, cfg.HeatMaxZoom, 3),
			"heatmap-color": interpolateLinear([]any{"heatmap-density"},
				0, c[0], 0.25, c[1], 0.5, c[2], 0.75, c[3], 1, c[4]),
			"heatmap-radius":  interpolateLinear(zoom(), 0, 2, cfg.HeatMaxZoom, 25),
			"heatmap-opacity": 0.8,
		},
	}
}

// hitLayer is an invisible circle layer that gives point overlays a generous
// pointer target for tooltips.
func hitLayer(id, source string, cfg config.OverlayConfig) surface.Layer {
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerCircle,
		Source: source,
		Paint: map[string]any{
			"circle-radius":  cfg.HitRadius,
			"circle-color":   "#000000",
			"circle-opacity": 0,
		},
	}
}

func hotspotLayer(id, source string, cfg config.OverlayConfig) surface.Layer {
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerCircle,
		Source: source,
		Paint: map[string]any{
			"circle-radius":       interpolateLinear(get("weight"), 0, cfg.HotspotMinRadius, 1, cfg.HotspotMaxRadius),
			"circle-color":        interpolateLinear(get("weight"), 0, cfg.HotspotColdColor, 1, cfg.HotspotHotColor),
			"circle-opacity":      0.7,
			"circle-stroke-width": 1,
			"circle-stroke-color": "#ffffff",
		},
	}
}

// incidentLayer colors live incidents in three severity bands
func incidentLayer(id, source string) surface.Layer {
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerCircle,
		Source: source,
		Paint: map[string]any{
			"circle-radius": interpolateLinear(get("weight"), 0, 5, 1, 12),
			"circle-color": []any{"step", get("weight"),
				"#facc15",
				0.5, "#f97316",
				0.8, "#dc2626",
			},
			"circle-opacity":      0.85,
			"circle-stroke-width": 2,
			"circle-stroke-color": "#ffffff",
		},
	}
}

func poiLayer(id, source string) surface.Layer {
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerCircle,
		Source: source,
		Paint: map[string]any{
			"circle-radius":       7,
			"circle-color":        get("color"),
			"circle-stroke-width": 2,
			"circle-stroke-color": "#ffffff",
		},
	}
}

var roundLine = map[string]any{
	"line-join": "round",
	"line-cap":  "round",
}

func routeOutlineLayer(id, source string, cfg config.OverlayConfig) surface.Layer {
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerLine,
		Source: source,
		Layout: roundLine,
		Paint: map[string]any{
			"line-color":   cfg.RouteOutlineColor,
			"line-width":   get("outline_width"),
			"line-opacity": cfg.RouteOutlineOpacity,
		},
	}
}

func routeLineLayer(id, source string) surface.Layer {
	return surface.Layer{
		ID:     id,
		Type:   surface.LayerLine,
		Source: source,
		Layout: roundLine,
		Paint: map[string]any{
			"line-color":   get("color"),
			"line-width":   get("width"),
			"line-opacity": get("opacity"),
		},
	}
}

func riskColor(cfg config.OverlayConfig, level routing.RiskLevel) string {
	switch level {
	case routing.Danger:
		return cfg.RouteColors.Danger
	case routing.Caution:
		return cfg.RouteColors.Caution
	default:
		return cfg.RouteColors.Safe
	}
}

func riskWidth(cfg config.OverlayConfig, level routing.RiskLevel) float64 {
	if level == routing.Danger {
		return cfg.RouteDangerWidth
	}
	return cfg.RouteWidth
}

func poiColor(cfg config.OverlayConfig, t incident.POIType) string {
	if c, ok := cfg.POIColors[string(t)]; ok {
		return c
	}
	return cfg.POIColors["default"]
}

func markerColor(cfg config.OverlayConfig, slot string) string {
	if c, ok := cfg.MarkerColors[slot]; ok {
		return c
	}
	return cfg.MarkerColors["default"]
}
