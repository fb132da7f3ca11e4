package routing

import (
	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
)

// RiskLevel classifies a route segment
type RiskLevel string

const (
	Safe    RiskLevel = "safe"
	Caution RiskLevel = "caution"
	Danger  RiskLevel = "danger"
)

// Score thresholds used by the route analysis backend
const (
	safeScoreThreshold    = 70
	cautionScoreThreshold = 40
)

// RouteSegment is a coarse, risk-classified span of a route.
// Its endpoints are not guaranteed to lie on the path polyline.
type RouteSegment struct {
	StartLat    float64   `json:"startLat"`
	StartLng    float64   `json:"startLng"`
	EndLat      float64   `json:"endLat"`
	EndLng      float64   `json:"endLng"`
	SafetyScore float64   `json:"safetyScore"`
	RiskLevel   RiskLevel `json:"riskLevel"`
}

// Start returns the segment's start coordinate
func (s RouteSegment) Start() geo.Point {
	return geo.Point{Latitude: s.StartLat, Longitude: s.StartLng}
}

// End returns the segment's end coordinate
func (s RouteSegment) End() geo.Point {
	return geo.Point{Latitude: s.EndLat, Longitude: s.EndLng}
}

// Risk returns the segment's risk level, deriving it from the score when unset or unknown
func (s RouteSegment) Risk() RiskLevel {
	switch s.RiskLevel {
	case Safe, Caution, Danger:
		return s.RiskLevel
	default:
		return RiskLevelForScore(s.SafetyScore)
	}
}

// Route is a route analysis result: risk segments plus the road-following path
type Route struct {
	Segments []RouteSegment `json:"segments"`
	Path     geo.Path       `json:"path"`
}

// MatchedSegment is a segment aligned to a contiguous slice of the path
type MatchedSegment struct {
	Segment    RouteSegment `json:"segment"`
	StartIndex int          `json:"start_index"`
	EndIndex   int          `json:"end_index"`
	Points     []geo.Point  `json:"points"`
	// Fallback is set when the path could not provide two points and
	// Points is the straight line between the segment's own endpoints.
	Fallback bool `json:"fallback"`
}

// SegmentMatcher aligns coarse route segments to a concrete path
type SegmentMatcher interface {
	// Match each segment, in order, to a monotonically advancing slice of the path
	MatchSegments(path geo.Path, segments []RouteSegment) []MatchedSegment

	// Convenience wrapper for a full route analysis result
	MatchRoute(route Route) []MatchedSegment
}

// NewSegmentMatcher is implemented in matcher.go
