// Package report renders scan results for the command line.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/specvital/baseline/pkg/domain"
	"github.com/specvital/baseline/pkg/scanner"
	"github.com/specvital/baseline/pkg/stats"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatSARIF   Format = "sarif"
	FormatText    Format = "text"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("report: unknown format")

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMsgpack, FormatSARIF}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Report is the serializable view of a project scan.
type Report struct {
	Advice       []string            `json:"advice" msgpack:"advice"`
	DurationMS   int64               `json:"durationMs" msgpack:"durationMs"`
	Errors       []string            `json:"errors,omitempty" msgpack:"errors,omitempty"`
	Files        []domain.FileResult `json:"files" msgpack:"files"`
	FilesFailed  int                 `json:"filesFailed" msgpack:"filesFailed"`
	FilesMatched int                 `json:"filesMatched" msgpack:"filesMatched"`
	FilesScanned int                 `json:"filesScanned" msgpack:"filesScanned"`
	Rating       stats.Rating        `json:"rating" msgpack:"rating"`
	Root         string              `json:"root" msgpack:"root"`
	Stats        domain.ProjectStats `json:"stats" msgpack:"stats"`
}

// FromScan builds a Report from a scan result.
func FromScan(res *scanner.ScanResult) Report {
	r := Report{
		DurationMS:   res.Stats.Duration.Milliseconds(),
		FilesFailed:  res.Stats.FilesFailed,
		FilesMatched: res.Stats.FilesMatched,
		FilesScanned: res.Stats.FilesScanned,
		Stats:        res.Stats.Project,
		Rating:       stats.Rate(res.Stats.Project.Score),
		Files:        []domain.FileResult{},
	}
	if res.Inventory != nil {
		r.Root = res.Inventory.RootPath
		r.Files = append(r.Files, res.Inventory.Files...)
		r.Advice = Advice(res.Inventory.Files)
	} else {
		r.Advice = []string{stats.NoAdvice}
	}
	for _, e := range res.Errors {
		r.Errors = append(r.Errors, e.Error())
	}
	return r
}

// Advice merges per-file results by feature before deriving project advice,
// so each feature contributes at most one line.
func Advice(files []domain.FileResult) []string {
	seen := make(map[string]int)
	var merged []domain.FeatureResult
	for _, f := range files {
		for _, fr := range f.Results {
			if i, ok := seen[fr.Feature.ID]; ok {
				merged[i].Matches = append(merged[i].Matches, fr.Matches...)
				continue
			}
			seen[fr.Feature.ID] = len(merged)
			merged = append(merged, domain.FeatureResult{
				Feature: fr.Feature,
				Matches: append([]domain.Match(nil), fr.Matches...),
			})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Feature.ID < merged[j].Feature.ID
	})
	return stats.Advise(merged)
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatText, "":
		return writeText(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatMsgpack:
		return writeMsgpack(w, r)
	case FormatSARIF:
		return writeSARIF(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
