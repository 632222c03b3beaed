package scanner

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/specvital/baseline/pkg/detection"
)

// ScanOptions configures scanner behavior.
type ScanOptions struct {
	// Engine is the detection engine used for every file.
	// If nil, an engine over registry.DefaultRegistry() is used.
	Engine *detection.Engine

	// ExcludePatterns specifies directory names to skip during file discovery.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// Features restricts detection to the given feature ids.
	// Empty means all registered features.
	Features []string

	// Logger receives per-file diagnostics. Defaults to a no-op logger.
	Logger zerolog.Logger

	// MaxFileSize is the maximum file size in bytes to process.
	// Files larger than this are skipped.
	MaxFileSize int64

	// Patterns specifies doublestar glob patterns to filter source files.
	// Empty means all supported files are processed.
	Patterns []string

	// Timeout is the maximum duration for the entire scan operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent file analyzers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// ScanOption is a functional option for configuring Scanner.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent file analyzers.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the scan timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory names to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to process.
// Negative values are ignored.
func WithMaxFileSize(size int64) ScanOption {
	return func(o *ScanOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithPatterns sets glob patterns to filter source files.
func WithPatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.Patterns = patterns
	}
}

// WithFeatures restricts detection to the given feature ids.
func WithFeatures(ids []string) ScanOption {
	return func(o *ScanOptions) {
		o.Features = ids
	}
}

// WithEngine sets the detection engine.
func WithEngine(engine *detection.Engine) ScanOption {
	return func(o *ScanOptions) {
		o.Engine = engine
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ScanOption {
	return func(o *ScanOptions) {
		o.Logger = logger
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Engine == nil {
		opts.Engine = detection.NewEngine(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}

func newDefaultOptions() ScanOptions {
	return ScanOptions{
		Logger: zerolog.Nop(),
	}
}
