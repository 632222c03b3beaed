package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/specvital/baseline/pkg/domain"
	"github.com/specvital/baseline/pkg/stats"
)

var (
	headingColor = color.New(color.Bold)
	pathColor    = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.Faint)

	severityColors = map[domain.Severity]*color.Color{
		domain.SeverityInfo:    color.New(color.FgBlue),
		domain.SeverityWarning: color.New(color.FgYellow),
		domain.SeverityError:   color.New(color.FgRed, color.Bold),
	}

	ratingColors = map[stats.Rating]*color.Color{
		stats.RatingExcellent:      color.New(color.FgGreen, color.Bold),
		stats.RatingGreat:          color.New(color.FgGreen),
		stats.RatingGood:           color.New(color.FgYellow),
		stats.RatingNeedsAttention: color.New(color.FgRed, color.Bold),
	}
)

func severityColor(s domain.Severity) *color.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return dimColor
}

// errWriter remembers the first write error so the renderer can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(c *color.Color, format string, args ...any) {
	if ew.err != nil {
		return
	}
	if c == nil {
		_, ew.err = fmt.Fprintf(ew.w, format, args...)
		return
	}
	_, ew.err = c.Fprintf(ew.w, format, args...)
}

func writeText(w io.Writer, r Report) error {
	ew := &errWriter{w: w}

	ew.printf(headingColor, "Baseline compatibility report")
	ew.printf(nil, " %s\n\n", r.Root)

	ew.printf(nil, "Score: ")
	ew.printf(ratingColors[r.Rating], "%d/100", r.Stats.Score)
	ew.printf(nil, " (%s)\n%s\n\n", r.Rating, r.Rating.Summary())

	ew.printf(headingColor, "Summary\n")
	ew.printf(nil, "  Files scanned:      %d\n", r.FilesScanned)
	ew.printf(nil, "  Files with matches: %d\n", r.FilesMatched)
	if r.FilesFailed > 0 {
		ew.printf(nil, "  Files failed:       %d\n", r.FilesFailed)
	}
	ew.printf(nil, "  Total matches:      %d\n", r.Stats.TotalMatches)
	ew.printf(nil, "  %-19s %d\n", domain.LevelWidelyAvailable.Label()+":", r.Stats.WidelySupported)
	ew.printf(nil, "  %-19s %d\n", domain.LevelNewlyAvailable.Label()+":", r.Stats.NewlySupported)
	ew.printf(nil, "  %-19s %d\n", domain.LevelLimited.Label()+":", r.Stats.LimitedSupport)
	ew.printf(nil, "  %-19s %d\n", domain.LevelNotBaseline.Label()+":", r.Stats.NotBaseline)
	ew.printf(nil, "  Security issues:    %d\n", r.Stats.SecurityIssues)
	ew.printf(nil, "  Performance issues: %d\n", r.Stats.PerformanceIssues)

	for _, f := range r.Files {
		ew.printf(nil, "\n")
		ew.printf(pathColor, "%s", f.Path)
		ew.printf(dimColor, " (%s)\n", f.Language)
		for _, fr := range f.Results {
			for _, m := range fr.Matches {
				ew.printf(dimColor, "  %d:%d", m.Line+1, m.Column+1)
				ew.printf(nil, "  ")
				ew.printf(severityColor(m.Severity), "%-7s", m.Severity)
				ew.printf(nil, "  %s  %q\n", fr.Feature.Name, m.Text)
				ew.printf(dimColor, "      %s\n", m.Recommendation)
			}
		}
	}

	ew.printf(nil, "\n")
	ew.printf(headingColor, "Recommendations\n")
	for _, a := range r.Advice {
		ew.printf(nil, "  - %s\n", a)
	}

	if len(r.Errors) > 0 {
		ew.printf(nil, "\n")
		ew.printf(severityColor(domain.SeverityError), "Errors\n")
		for _, e := range r.Errors {
			ew.printf(nil, "  %s\n", e)
		}
	}
	return ew.err
}
