package domain

// Match is a single occurrence of a feature in source text.
type Match struct {
	// Column is the 0-based offset in UTF-16 code units.
	Column int `json:"column" msgpack:"column"`
	// FeatureID references the matched Feature.
	FeatureID string `json:"featureId" msgpack:"featureId"`
	// Line is the 0-based line index.
	Line int `json:"line" msgpack:"line"`
	// Recommendation is a human-readable tip for this match.
	Recommendation string `json:"recommendation" msgpack:"recommendation"`
	// Severity is derived from the feature's Baseline level.
	Severity Severity `json:"severity" msgpack:"severity"`
	// Text is the exact matched substring.
	Text string `json:"text" msgpack:"text"`
}

// FeatureResult groups the matches of one feature.
type FeatureResult struct {
	Feature Feature `json:"feature" msgpack:"feature"`
	Matches []Match `json:"matches" msgpack:"matches"`
}

// FileResult holds the analysis of one source file.
type FileResult struct {
	// Language is the source language inferred from the file extension.
	Language Language `json:"language" msgpack:"language"`
	// Path is the file path relative to the scan root.
	Path string `json:"path" msgpack:"path"`
	// Results contains detected features in registry order.
	Results []FeatureResult `json:"results,omitempty" msgpack:"results,omitempty"`
}

// CountMatches returns the total number of matches in this file.
func (f *FileResult) CountMatches() int {
	return CountMatches(f.Results)
}

// Inventory represents the analysis of a collection of files in a project.
type Inventory struct {
	// Files contains all analyzed files, sorted by path.
	Files []FileResult `json:"files" msgpack:"files"`
	// RootPath is the root directory path of the scanned project.
	RootPath string `json:"rootPath" msgpack:"rootPath"`
}

// CountMatches returns the total number of matches across all files.
func (inv Inventory) CountMatches() int {
	count := 0
	for _, f := range inv.Files {
		count += f.CountMatches()
	}
	return count
}

// Results flattens all file results into one sequence, preserving file order.
func (inv Inventory) Results() []FeatureResult {
	var all []FeatureResult
	for _, f := range inv.Files {
		all = append(all, f.Results...)
	}
	return all
}

// CountMatches returns the total number of matches across results.
func CountMatches(results []FeatureResult) int {
	count := 0
	for _, r := range results {
		count += len(r.Matches)
	}
	return count
}

// ProjectStats is the aggregate over a full result set.
type ProjectStats struct {
	LimitedSupport    int `json:"limitedSupport" msgpack:"limitedSupport"`
	NewlySupported    int `json:"newlySupported" msgpack:"newlySupported"`
	NotBaseline       int `json:"notBaseline" msgpack:"notBaseline"`
	PerformanceIssues int `json:"performanceIssues" msgpack:"performanceIssues"`
	// Score is the 0-100 compatibility score.
	Score          int `json:"score" msgpack:"score"`
	SecurityIssues int `json:"securityIssues" msgpack:"securityIssues"`
	// TotalMatches counts every match across all results.
	TotalMatches    int `json:"totalMatches" msgpack:"totalMatches"`
	WidelySupported int `json:"widelySupported" msgpack:"widelySupported"`
}
