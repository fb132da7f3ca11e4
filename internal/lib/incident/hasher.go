package incident

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// Length of the hex feature identifier
const featureIDLength = 16

var (
	spaceRegex      = regexp.MustCompile(`\s+`)
	trailPunctRegex = regexp.MustCompile(`[.!?:;,]+$`)
	extraPunctRegex = regexp.MustCompile(`[.!?:;,]{2,}`)
)

// FeatureID returns a stable identifier for a weighted point. Points that differ
// only in whitespace, case or trailing punctuation share an identifier, which
// keeps tooltips attached to the same feature across refreshes.
func FeatureID(p WeightedPoint) string {
	return contentHash(NormalizeText(p.Description), LocationKey(p.Lat, p.Lng), NormalizeText(p.Type))
}

// POIFeatureID returns a stable identifier for a point of interest
func POIFeatureID(p PointOfInterest) string {
	return contentHash(NormalizeText(p.Name), LocationKey(p.Lat, p.Lng), string(p.Type))
}

// NormalizeText cleans text for consistent hashing
func NormalizeText(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = spaceRegex.ReplaceAllString(normalized, " ")
	normalized = trailPunctRegex.ReplaceAllString(normalized, "")
	normalized = extraPunctRegex.ReplaceAllString(normalized, "")
	return normalized
}

// LocationKey rounds a coordinate to ~10m, fine enough to tell adjacent incidents apart
func LocationKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f_%.4f", lat, lng)
}

func contentHash(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash)[:featureIDLength]
}
