package incident

import (
	"math"
	"strings"
	"time"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
)

// Severity weights for live incidents
const (
	severeWeight   = 1.0
	moderateWeight = 0.6
	minorWeight    = 0.3
	defaultWeight  = 0.5
)

// Accepted live incident date layouts, most specific first
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizePoints drops points with invalid coordinates and clamps weights to [0, 1].
// The input slice is not modified.
func NormalizePoints(points []WeightedPoint) []WeightedPoint {
	out := make([]WeightedPoint, 0, len(points))
	for _, p := range points {
		if !geo.IsValidCoordinate(p.Point()) {
			continue
		}
		p.Weight = clampWeight(p.Weight)
		out = append(out, p)
	}
	return out
}

// NormalizePOIs drops points of interest with invalid coordinates
func NormalizePOIs(pois []PointOfInterest) []PointOfInterest {
	out := make([]PointOfInterest, 0, len(pois))
	for _, p := range pois {
		if !geo.IsValidCoordinate(p.Point()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FromLiveIncidents converts live feed incidents into weighted points
func FromLiveIncidents(incidents []LiveIncident) []WeightedPoint {
	points := make([]WeightedPoint, 0, len(incidents))
	for _, li := range incidents {
		p := WeightedPoint{
			Lat:         li.Lat,
			Lng:         li.Lng,
			Weight:      SeverityWeight(li.Severity),
			Type:        li.Type,
			Description: li.Headline,
			Source:      li.Source,
		}
		if ts, ok := parseDate(li.Date); ok {
			p.Timestamp = &ts
		}
		points = append(points, p)
	}
	return NormalizePoints(points)
}

// SeverityWeight maps a free-text severity label to a weight
func SeverityWeight(severity string) float64 {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "severe", "high", "critical", "extreme":
		return severeWeight
	case "moderate", "medium":
		return moderateWeight
	case "minor", "low":
		return minorWeight
	default:
		return defaultWeight
	}
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
