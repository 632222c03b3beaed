// Package detection scans source text for registered web features.
package detection

import (
	"strings"

	"github.com/specvital/baseline/pkg/classify"
	"github.com/specvital/baseline/pkg/domain"
	"github.com/specvital/baseline/pkg/registry"
)

// Engine performs line-based feature detection against a registry.
// Analysis holds no state between calls, so an Engine may be shared
// across goroutines.
type Engine struct {
	registry *registry.Registry
}

// NewEngine creates an engine reading features and patterns from reg.
// A nil registry uses registry.DefaultRegistry().
func NewEngine(reg *registry.Registry) *Engine {
	if reg == nil {
		reg = registry.DefaultRegistry()
	}
	return &Engine{registry: reg}
}

// Registry returns the registry the engine reads from.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Analyze detects all registered features in source.
//
// The text is split on line feeds and every pattern is searched per line,
// so line-start anchors match at the start of each line. Results follow
// registry order. Within a feature, matches are ordered by line, then by
// pattern declaration order, then left to right. Patterns that match the
// same text each record their own match.
func (e *Engine) Analyze(source string) []domain.FeatureResult {
	return e.analyze(source, e.registry.Features())
}

// AnalyzeFeatures is like Analyze but only considers the given feature ids.
// Unknown ids are ignored.
func (e *Engine) AnalyzeFeatures(source string, ids ...string) []domain.FeatureResult {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var features []domain.Feature
	for _, f := range e.registry.Features() {
		if wanted[f.ID] {
			features = append(features, f)
		}
	}
	return e.analyze(source, features)
}

func (e *Engine) analyze(source string, features []domain.Feature) []domain.FeatureResult {
	results := make([]domain.FeatureResult, 0)
	if source == "" || len(features) == 0 {
		return results
	}

	lines := strings.Split(source, "\n")

	for _, f := range features {
		patterns := e.registry.PatternsFor(f.ID)
		if len(patterns) == 0 {
			continue
		}

		matches := findMatches(f, patterns, lines)
		if len(matches) > 0 {
			results = append(results, domain.FeatureResult{
				Feature: f,
				Matches: matches,
			})
		}
	}

	return results
}

func findMatches(f domain.Feature, patterns []registry.Pattern, lines []string) []domain.Match {
	severity := classify.SeverityOf(f)

	var matches []domain.Match
	for lineIndex, line := range lines {
		for _, p := range patterns {
			for _, loc := range p.FindAll(line) {
				text := line[loc[0]:loc[1]]
				matches = append(matches, domain.Match{
					Column:         UTF16Len(line[:loc[0]]),
					FeatureID:      f.ID,
					Line:           lineIndex,
					Recommendation: classify.RecommendationFor(f.ID, text),
					Severity:       severity,
					Text:           text,
				})
			}
		}
	}
	return matches
}
