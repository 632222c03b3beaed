// Package registry holds the table of detectable web features and their patterns.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/specvital/baseline/pkg/domain"
)

var (
	// ErrDuplicateFeature is returned when a feature id is registered twice.
	ErrDuplicateFeature = errors.New("registry: duplicate feature")
	// ErrNoPatterns is returned when a feature is registered without patterns.
	ErrNoPatterns = errors.New("registry: feature has no patterns")
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

type entry struct {
	feature  domain.Feature
	patterns []Pattern
}

// Registry manages registered features and their detection patterns.
// Patterns are fixed once registered; Enrich only replaces descriptive
// metadata, so a reader may observe either the old or new status of a
// feature while enrichment runs.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  zerolog.Logger
	order   []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report enrichment problems.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger.With().Str("component", "registry").Logger()
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewBuiltin creates a registry loaded with the bundled feature table.
func NewBuiltin(opts ...Option) *Registry {
	r := New(opts...)
	for _, def := range builtinFeatures() {
		if err := r.Register(def.feature, def.patterns...); err != nil {
			panic(fmt.Sprintf("registry: builtin table: %v", err))
		}
	}
	return r
}

// DefaultRegistry returns a shared registry loaded with the bundled feature table.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewBuiltin()
	})
	return defaultRegistry
}

// Register adds a feature with its patterns, keeping insertion order.
func (r *Registry) Register(f domain.Feature, patterns ...Pattern) error {
	if len(patterns) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPatterns, f.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[f.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFeature, f.ID)
	}

	ps := make([]Pattern, len(patterns))
	copy(ps, patterns)
	r.entries[f.ID] = &entry{feature: f, patterns: ps}
	r.order = append(r.order, f.ID)
	return nil
}

// Load returns a snapshot of all features keyed by id.
func (r *Registry) Load() map[string]domain.Feature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]domain.Feature, len(r.entries))
	for id, e := range r.entries {
		result[id] = e.feature
	}
	return result
}

// Features returns all features in registration order.
func (r *Registry) Features() []domain.Feature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Feature, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id].feature)
	}
	return result
}

// IDs returns all feature ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}

// Find returns the feature with the given id.
func (r *Registry) Find(id string) (domain.Feature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return domain.Feature{}, false
	}
	return e.feature, true
}

// PatternsFor returns the patterns of a feature in declaration order.
// Unknown ids yield nil.
func (r *Registry) PatternsFor(id string) []Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	result := make([]Pattern, len(e.patterns))
	copy(result, e.patterns)
	return result
}

// Len returns the number of registered features.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) update(id string, fn func(f *domain.Feature)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	f := e.feature
	fn(&f)
	e.feature = f
	return true
}
