package registry

import "regexp"

// Pattern locates occurrences of a feature within a single line of text.
// Implementations must be safe for concurrent use.
type Pattern interface {
	// Source returns a stable textual form of the pattern.
	Source() string
	// FindAll returns the byte ranges [start, end) of all non-overlapping
	// occurrences in line, left to right.
	FindAll(line string) [][]int
}

// RegexPattern is a Pattern backed by a regular expression.
// Anchors such as ^ refer to the start of the line being searched.
type RegexPattern struct {
	re *regexp.Regexp
}

// NewRegexPattern compiles expr into a RegexPattern.
func NewRegexPattern(expr string) (*RegexPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RegexPattern{re: re}, nil
}

// MustRegex is like NewRegexPattern but panics if expr cannot be compiled.
func MustRegex(expr string) *RegexPattern {
	return &RegexPattern{re: regexp.MustCompile(expr)}
}

func (p *RegexPattern) Source() string {
	return p.re.String()
}

func (p *RegexPattern) FindAll(line string) [][]int {
	return p.re.FindAllStringIndex(line, -1)
}
