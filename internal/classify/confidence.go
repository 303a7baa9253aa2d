// Package classify maps numeric scores from flag-analysis workflows
// onto discrete levels and recommended next actions. The buckets are
// fixed; callers that want different thresholds should not be using
// this package.
package classify

import "math"

// Confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Recommended actions, one per confidence level.
const (
	RecommendUseExisting = "use_existing"
	RecommendAskUser     = "ask_user"
	RecommendCreateNew   = "create_new"
)

// Confidence pairs a flag-match score with its level and the action a
// client should take next.
type Confidence struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	Recommendation string  `json:"recommendation"`
}

// ClassifyConfidence buckets a 0..1 match score. Out-of-range input
// is clamped and NaN counts as zero, so the result is always one of
// the three defined levels. Thresholds are inclusive at the bottom of
// each bucket: 0.7 is already high, 0.4 already medium.
func ClassifyConfidence(score float64) Confidence {
	switch {
	case math.IsNaN(score), score < 0:
		score = 0
	case score > 1:
		score = 1
	}

	c := Confidence{Score: score}
	switch {
	case score >= 0.7:
		c.Level = ConfidenceHigh
		c.Recommendation = RecommendUseExisting
	case score >= 0.4:
		c.Level = ConfidenceMedium
		c.Recommendation = RecommendAskUser
	default:
		c.Level = ConfidenceLow
		c.Recommendation = RecommendCreateNew
	}
	return c
}
