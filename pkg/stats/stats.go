// Package stats aggregates detection results into project-level statistics.
package stats

import (
	"math"

	"github.com/specvital/baseline/pkg/classify"
	"github.com/specvital/baseline/pkg/domain"
)

// PerfectScore is the score of a result set without matches.
const PerfectScore = 100

// Summarize computes ProjectStats over all matches in results.
//
// Each match is counted in exactly one status bucket according to its
// feature's level. Error-severity matches are additionally counted as
// security or performance issues; those counts overlap the status buckets.
func Summarize(results []domain.FeatureResult) domain.ProjectStats {
	var s domain.ProjectStats

	for _, r := range results {
		security := classify.IsSecurityConcern(r.Feature.ID)
		for _, m := range r.Matches {
			s.TotalMatches++

			switch r.Feature.Status.Level {
			case domain.LevelWidelyAvailable:
				s.WidelySupported++
			case domain.LevelNewlyAvailable:
				s.NewlySupported++
			case domain.LevelLimited:
				s.LimitedSupport++
			default:
				s.NotBaseline++
			}

			if m.Severity == domain.SeverityError {
				if security {
					s.SecurityIssues++
				} else {
					s.PerformanceIssues++
				}
			}
		}
	}

	s.Score = Score(s)
	return s
}

// Merge sums several stats records and recomputes the score.
func Merge(all ...domain.ProjectStats) domain.ProjectStats {
	var s domain.ProjectStats
	for _, o := range all {
		s.TotalMatches += o.TotalMatches
		s.WidelySupported += o.WidelySupported
		s.NewlySupported += o.NewlySupported
		s.LimitedSupport += o.LimitedSupport
		s.NotBaseline += o.NotBaseline
		s.SecurityIssues += o.SecurityIssues
		s.PerformanceIssues += o.PerformanceIssues
	}
	s.Score = Score(s)
	return s
}

// Score computes round((3·widely + 2·newly + limited) / (3·total) × 100),
// or PerfectScore when there are no matches.
func Score(s domain.ProjectStats) int {
	if s.TotalMatches <= 0 {
		return PerfectScore
	}
	weighted := float64(3*s.WidelySupported + 2*s.NewlySupported + s.LimitedSupport)
	return int(math.Round(weighted / float64(3*s.TotalMatches) * 100))
}
