package overlay

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
)

func pointFeatures(points []incident.WeightedPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(p.Point().Orb())
		f.ID = incident.FeatureID(p)
		f.Properties["weight"] = p.Weight
		f.Properties["type"] = p.Type
		if p.Description != "" {
			f.Properties["description"] = p.Description
		}
		if p.Timestamp != nil {
			f.Properties["date"] = p.Timestamp.Format(time.RFC3339)
		}
		if p.Source != "" {
			f.Properties["source"] = p.Source
		}
		fc.Append(f)
	}
	return fc
}

func poiFeatures(pois []incident.PointOfInterest, cfg config.OverlayConfig) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range pois {
		f := geojson.NewFeature(p.Point().Orb())
		f.ID = incident.POIFeatureID(p)
		f.Properties["name"] = p.Name
		f.Properties["type"] = string(p.Type)
		f.Properties["color"] = poiColor(cfg, p.Type)
		if p.Address != "" {
			f.Properties["address"] = p.Address
		}
		if p.Distance > 0 {
			f.Properties["distance"] = p.Distance
		}
		fc.Append(f)
	}
	return fc
}

// routeFeatures emits one line feature per matched segment. Both route layers
// read the same features: the outline layer uses outline_width, the colored
// layer uses color, width and opacity.
func routeFeatures(matched []routing.MatchedSegment, cfg config.OverlayConfig) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, m := range matched {
		risk := m.Segment.Risk()
		f := geojson.NewFeature(geo.Path(m.Points).LineString())
		f.ID = i
		f.Properties["risk"] = string(risk)
		f.Properties["safety_score"] = m.Segment.SafetyScore
		f.Properties["color"] = riskColor(cfg, risk)
		f.Properties["width"] = riskWidth(cfg, risk)
		f.Properties["outline_width"] = cfg.RouteOutlineWidth
		f.Properties["opacity"] = 0.9
		f.Properties["fallback"] = m.Fallback
		fc.Append(f)
	}
	return fc
}
