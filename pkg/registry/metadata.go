package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/specvital/baseline/pkg/domain"
)

// Format identifies the encoding of an external metadata source.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is reported when a metadata source has an unknown encoding.
	ErrUnsupportedFormat = errors.New("registry: unsupported metadata format")
	// ErrInvalidMetadata is reported when a metadata entry fails validation.
	ErrInvalidMetadata = errors.New("registry: invalid metadata")
)

// FormatFromPath infers the metadata format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Metadata is one entry of an external feature-metadata source, shaped
// like the web-features data set.
type Metadata struct {
	Description string          `json:"description" yaml:"description"`
	MDNURL      string          `json:"mdn_url" yaml:"mdn_url"`
	Spec        StringList      `json:"spec" yaml:"spec"`
	Status      *MetadataStatus `json:"status" yaml:"status"`
}

// MetadataStatus is the Baseline status block of a Metadata entry.
type MetadataStatus struct {
	Baseline         BaselineFlag      `json:"baseline" yaml:"baseline"`
	BaselineHighDate string            `json:"baseline_high_date" yaml:"baseline_high_date"`
	BaselineLowDate  string            `json:"baseline_low_date" yaml:"baseline_low_date"`
	Support          map[string]string `json:"support" yaml:"support"`
}

// BaselineFlag is the baseline marker of a status block: "high", "low",
// "limited", or empty when the source says false.
type BaselineFlag string

const (
	BaselineFlagNone    BaselineFlag = ""
	BaselineFlagHigh    BaselineFlag = "high"
	BaselineFlagLow     BaselineFlag = "low"
	BaselineFlagLimited BaselineFlag = "limited"
)

func (f *BaselineFlag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = BaselineFlagNone
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			return fmt.Errorf("%w: baseline must be false or a string", ErrInvalidMetadata)
		}
		*f = BaselineFlagNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: baseline: %v", ErrInvalidMetadata, err)
	}
	return f.set(s)
}

func (f *BaselineFlag) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: baseline must be a scalar", ErrInvalidMetadata)
	}
	switch node.ShortTag() {
	case "!!null":
		*f = BaselineFlagNone
		return nil
	case "!!bool":
		if node.Value != "false" {
			return fmt.Errorf("%w: baseline must be false or a string", ErrInvalidMetadata)
		}
		*f = BaselineFlagNone
		return nil
	}
	return f.set(node.Value)
}

func (f *BaselineFlag) set(s string) error {
	switch v := BaselineFlag(s); v {
	case BaselineFlagHigh, BaselineFlagLow, BaselineFlagLimited:
		*f = v
		return nil
	default:
		return fmt.Errorf("%w: unknown baseline %q", ErrInvalidMetadata, s)
	}
}

// StringList accepts either a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: spec: %v", ErrInvalidMetadata, err)
	}
	*l = list
	return nil
}

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("%w: spec: %v", ErrInvalidMetadata, err)
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("%w: spec must be a string or list", ErrInvalidMetadata)
	}
}

// Enrich merges external metadata onto features already in the registry.
// Unknown ids are ignored and invalid entries are logged and skipped.
// It returns the number of features updated.
func (r *Registry) Enrich(data map[string]Metadata) int {
	updated := 0
	for _, id := range r.IDs() {
		m, ok := data[id]
		if !ok {
			continue
		}
		if r.apply(id, m) {
			updated++
		}
	}
	r.logger.Info().Int("features", updated).Msg("enriched feature metadata")
	return updated
}

// EnrichFromReader decodes a metadata source and merges it like Enrich.
// Decoding failures are logged and leave the registry unchanged.
func (r *Registry) EnrichFromReader(rd io.Reader, format Format) int {
	decoders, err := decodeEntries(rd, format)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to load feature metadata, using built-in data")
		return 0
	}

	updated := 0
	for _, id := range r.IDs() {
		decode, ok := decoders[id]
		if !ok {
			continue
		}
		var m Metadata
		if err := decode(&m); err != nil {
			r.logger.Warn().Err(err).Str("feature", id).Msg("skipping malformed metadata entry")
			continue
		}
		if r.apply(id, m) {
			updated++
		}
	}
	r.logger.Info().Int("features", updated).Msg("enriched feature metadata")
	return updated
}

// EnrichFromFile loads a JSON or YAML metadata file and merges it like Enrich.
// A missing or malformed file is logged and leaves the registry unchanged.
func (r *Registry) EnrichFromFile(path string) int {
	format, err := FormatFromPath(path)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("failed to load feature metadata, using built-in data")
		return 0
	}

	f, err := os.Open(path)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("failed to load feature metadata, using built-in data")
		return 0
	}
	defer func() { _ = f.Close() }()

	return r.EnrichFromReader(f, format)
}

func (r *Registry) apply(id string, m Metadata) bool {
	status, err := validateMetadata(m)
	if err != nil {
		r.logger.Warn().Err(err).Str("feature", id).Msg("skipping invalid metadata entry")
		return false
	}

	return r.update(id, func(f *domain.Feature) {
		f.Status = status
		if m.Description != "" {
			f.Description = m.Description
		}
		if len(m.Spec) > 0 {
			f.SpecURLs = append([]string(nil), m.Spec...)
		}
		if m.MDNURL != "" {
			f.ReferenceURL = m.MDNURL
		}
	})
}

func validateMetadata(m Metadata) (domain.BaselineStatus, error) {
	if m.Status == nil {
		return domain.BaselineStatus{}, fmt.Errorf("%w: missing status", ErrInvalidMetadata)
	}

	low, err := parseStatusDate(m.Status.BaselineLowDate)
	if err != nil {
		return domain.BaselineStatus{}, fmt.Errorf("%w: baseline_low_date: %v", ErrInvalidMetadata, err)
	}
	high, err := parseStatusDate(m.Status.BaselineHighDate)
	if err != nil {
		return domain.BaselineStatus{}, fmt.Errorf("%w: baseline_high_date: %v", ErrInvalidMetadata, err)
	}

	switch m.Status.Baseline {
	case BaselineFlagHigh:
		if high == nil {
			return domain.BaselineStatus{}, fmt.Errorf("%w: baseline high without baseline_high_date", ErrInvalidMetadata)
		}
	case BaselineFlagLow:
		if low == nil {
			return domain.BaselineStatus{}, fmt.Errorf("%w: baseline low without baseline_low_date", ErrInvalidMetadata)
		}
	}

	var support map[string]string
	if len(m.Status.Support) > 0 {
		support = make(map[string]string, len(m.Status.Support))
		for browser, version := range m.Status.Support {
			support[browser] = version
		}
	}

	return domain.NewStatus(low, high, m.Status.Baseline == BaselineFlagLimited, support), nil
}

// parseStatusDate parses a YYYY-MM-DD date. Ranged dates such as
// "≤2018-01-29" are taken at their upper bound.
func parseStatusDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "≤"))
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type entryDecoder func(*Metadata) error

// decodeEntries splits a metadata document into per-feature decoders so a
// single malformed entry does not reject the whole source. Both a bare
// id-to-entry mapping and the web-features layout with a top-level
// "features" object are accepted.
func decodeEntries(rd io.Reader, format Format) (map[string]entryDecoder, error) {
	switch format {
	case FormatJSON:
		return decodeJSONEntries(rd)
	case FormatYAML:
		return decodeYAMLEntries(rd)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func decodeJSONEntries(rd io.Reader) (map[string]entryDecoder, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(rd).Decode(&top); err != nil {
		return nil, fmt.Errorf("decode json metadata: %w", err)
	}

	if raw, ok := top["features"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			top = nested
		}
	}

	result := make(map[string]entryDecoder, len(top))
	for id, raw := range top {
		raw := raw
		result[id] = func(m *Metadata) error {
			return json.Unmarshal(raw, m)
		}
	}
	return result, nil
}

func decodeYAMLEntries(rd io.Reader) (map[string]entryDecoder, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml metadata: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: yaml metadata must be a mapping", ErrInvalidMetadata)
	}

	root := doc.Content[0]
	if nested := mappingValue(root, "features"); nested != nil && nested.Kind == yaml.MappingNode {
		root = nested
	}

	result := make(map[string]entryDecoder, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		value := root.Content[i+1]
		result[root.Content[i].Value] = func(m *Metadata) error {
			return value.Decode(m)
		}
	}
	return result, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
