// Package classify maps Baseline status to severities and curated recommendations.
package classify

import (
	"strings"

	"github.com/specvital/baseline/pkg/domain"
)

// DefaultRecommendation is returned for features without a curated tip.
const DefaultRecommendation = "Check browser compatibility for your target audience"

// securityFeatures lists features whose use is a security concern in itself.
var securityFeatures = map[string]bool{
	"eval-usage": true,
}

var recommendations = map[string]string{
	"container-queries":  "Container Queries are newly baseline (2023) - safe for modern applications",
	"console-statements": "Remove console statements before production deployment",
	"css-cascade-layers": "CSS Cascade Layers are newly baseline (2022) - consider fallbacks for older browsers",
	"css-grid":           "Perfect! CSS Grid is widely supported across all modern browsers",
	"eval-usage":         "Avoid eval() - use safer alternatives like JSON.parse() or Function constructor",
	"fetch-api":          "Modern and widely supported - excellent choice over XMLHttpRequest",
	"nullish-coalescing": "Great modern syntax! Nullish coalescing is widely supported",
	"optional-chaining":  "Excellent choice! Optional chaining is widely supported",
	"webkit-prefixes":    "Remove vendor prefix - this feature is now standard",
}

// SeverityOf returns the severity for a feature based on its Baseline level.
func SeverityOf(f domain.Feature) domain.Severity {
	return SeverityForLevel(f.Status.Level)
}

// SeverityForLevel maps a Baseline level to a severity.
// Unknown levels are treated as not baseline.
func SeverityForLevel(level domain.Level) domain.Severity {
	switch level {
	case domain.LevelWidelyAvailable:
		return domain.SeverityInfo
	case domain.LevelNewlyAvailable, domain.LevelLimited:
		return domain.SeverityWarning
	default:
		return domain.SeverityError
	}
}

// RecommendationFor returns the curated tip for a feature.
// The matched text is currently unused; tips are per feature.
func RecommendationFor(featureID, matchedText string) string {
	if rec, ok := recommendations[featureID]; ok {
		return rec
	}
	return DefaultRecommendation
}

// IsSecurityConcern reports whether error-severity matches of a feature
// count as security issues rather than performance issues.
func IsSecurityConcern(featureID string) bool {
	return securityFeatures[featureID] || strings.Contains(featureID, "security")
}
