package stats

import (
	"fmt"

	"github.com/specvital/baseline/pkg/domain"
)

// Rating is a coarse verdict on a compatibility score.
type Rating string

const (
	RatingExcellent      Rating = "excellent"
	RatingGreat          Rating = "great"
	RatingGood           Rating = "good"
	RatingNeedsAttention Rating = "needs-attention"
)

// Rate classifies a score.
func Rate(score int) Rating {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingGreat
	case score >= 50:
		return RatingGood
	default:
		return RatingNeedsAttention
	}
}

// Summary returns a one-line verdict for the rating.
func (r Rating) Summary() string {
	switch r {
	case RatingExcellent:
		return "Excellent! Your code uses modern, well-supported web features."
	case RatingGreat:
		return "Great job! Minor improvements possible."
	case RatingGood:
		return "Good start! Consider updating some legacy patterns."
	default:
		return "Needs attention! Many features need modernization."
	}
}

// NoAdvice is the single advice line for a result set with nothing to fix.
const NoAdvice = "No recommendations - excellent code!"

// Advise returns project-level advice derived from the detected features,
// one line per actionable feature in result order.
func Advise(results []domain.FeatureResult) []string {
	var advice []string
	for _, r := range results {
		switch r.Feature.Status.Level {
		case domain.LevelNotBaseline:
			switch r.Feature.ID {
			case "webkit-prefixes":
				advice = append(advice, "Remove webkit prefixes - now standard")
			case "console-statements":
				advice = append(advice, "Remove console.log before production")
			case "eval-usage":
				advice = append(advice, "Replace eval() with safer alternatives")
			}
		case domain.LevelNewlyAvailable:
			advice = append(advice, fmt.Sprintf("%s is newly baseline - verify browser targets", r.Feature.Name))
		}
	}
	if len(advice) == 0 {
		advice = append(advice, NoAdvice)
	}
	return advice
}
