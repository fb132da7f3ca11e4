package routing

import (
	"math"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
)

// segmentMatcher implements the SegmentMatcher interface
type segmentMatcher struct{}

// NewSegmentMatcher creates a new SegmentMatcher implementation
func NewSegmentMatcher() SegmentMatcher {
	return &segmentMatcher{}
}

// MatchSegments maps every segment onto path[start..end], inclusive.
//
// Nearest-point search uses planar squared distance on raw lat/lng. The search
// for a segment's start begins at the previous segment's end index, and the
// search for its end begins at the start index just found, so matched slices
// never move backward along the path.
func (m *segmentMatcher) MatchSegments(path geo.Path, segments []RouteSegment) []MatchedSegment {
	matched := make([]MatchedSegment, 0, len(segments))
	cursor := 0

	for _, seg := range segments {
		startIdx := nearestIndex(path, seg.Start(), cursor)
		endIdx := nearestIndex(path, seg.End(), startIdx)

		if startIdx < 0 || endIdx <= startIdx {
			// Empty path, or start and end collapsed onto one index
			if startIdx > cursor {
				cursor = startIdx
			}
			matched = append(matched, straightLine(seg, cursor))
			continue
		}

		points := make([]geo.Point, endIdx-startIdx+1)
		copy(points, path[startIdx:endIdx+1])

		matched = append(matched, MatchedSegment{
			Segment:    seg,
			StartIndex: startIdx,
			EndIndex:   endIdx,
			Points:     points,
		})
		cursor = endIdx
	}

	return matched
}

// MatchRoute matches a full route analysis result
func (m *segmentMatcher) MatchRoute(route Route) []MatchedSegment {
	return m.MatchSegments(route.Path, route.Segments)
}

// nearestIndex scans path[from:] for the point closest to target.
// Ties resolve to the lowest index. Returns -1 if nothing is searchable.
func nearestIndex(path geo.Path, target geo.Point, from int) int {
	if from < 0 {
		from = 0
	}
	best := -1
	bestDist := math.Inf(1)
	for i := from; i < len(path); i++ {
		d := geo.SquaredDistance(path[i], target)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// straightLine is the degraded match for a segment the path cannot represent
func straightLine(seg RouteSegment, index int) MatchedSegment {
	return MatchedSegment{
		Segment:    seg,
		StartIndex: index,
		EndIndex:   index,
		Points:     []geo.Point{seg.Start(), seg.End()},
		Fallback:   true,
	}
}

// RiskLevelForScore classifies a 0-100 safety score
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= safeScoreThreshold:
		return Safe
	case score >= cautionScoreThreshold:
		return Caution
	default:
		return Danger
	}
}
