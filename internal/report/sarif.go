package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/specvital/baseline/pkg/detection"
	"github.com/specvital/baseline/pkg/domain"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	HelpURI          string       `json:"helpUri,omitempty"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

// SARIF regions are 1-based.
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndColumn   int `json:"endColumn"`
}

func sarifLevel(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func toSARIF(r Report) sarifLog {
	rules := make(map[string]sarifRule)
	results := []sarifResult{}
	for _, f := range r.Files {
		for _, fr := range f.Results {
			if _, ok := rules[fr.Feature.ID]; !ok {
				rules[fr.Feature.ID] = sarifRule{
					ID:               fr.Feature.ID,
					Name:             fr.Feature.Name,
					ShortDescription: sarifMessage{Text: fr.Feature.Description},
					HelpURI:          fr.Feature.ReferenceURL,
				}
			}
			for _, m := range fr.Matches {
				results = append(results, sarifResult{
					RuleID:  m.FeatureID,
					Level:   sarifLevel(m.Severity),
					Message: sarifMessage{Text: fmt.Sprintf("%s (%s): %s", fr.Feature.Name, fr.Feature.Status.Level.Label(), m.Recommendation)},
					Locations: []sarifLoc{{Physical: sarifPhys{
						ArtifactLocation: sarifArt{URI: f.Path},
						Region: sarifRegion{
							StartLine:   m.Line + 1,
							StartColumn: m.Column + 1,
							EndColumn:   m.Column + 1 + detection.UTF16Len(m.Text),
						},
					}}},
				})
			}
		}
	}

	ruleList := make([]sarifRule, 0, len(rules))
	for _, rule := range rules {
		ruleList = append(ruleList, rule)
	}
	sort.Slice(ruleList, func(i, j int) bool { return ruleList[i].ID < ruleList[j].ID })

	return sarifLog{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "baseline", Rules: ruleList}},
			Results: results,
		}},
	}
}

func writeSARIF(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toSARIF(r)); err != nil {
		return fmt.Errorf("encode sarif report: %w", err)
	}
	return nil
}
