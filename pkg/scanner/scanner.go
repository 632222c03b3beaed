// Package scanner analyzes every web source file under a project root.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/baseline/pkg/domain"
	"github.com/specvital/baseline/pkg/source"
	"github.com/specvital/baseline/pkg/stats"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (2MB).
	DefaultMaxFileSize = 2 * 1024 * 1024
)

// Scan phases reported in ScanError.
const (
	PhaseDiscovery = "discovery"
	PhaseRead      = "read"
)

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	"vendor",
	"dist",
	"build",
	".next",
	".nuxt",
	"coverage",
	".cache",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scanner discovers web source files and runs feature detection on each.
type Scanner struct {
	logger  zerolog.Logger
	options *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Inventory contains every file with at least one detected feature.
	Inventory *domain.Inventory

	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError

	// Stats provides scan statistics and the aggregated project stats.
	Stats ScanStats
}

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase indicates which phase the error occurred in: "discovery" or "read".
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the total number of source files discovered.
	FilesScanned int

	// FilesMatched is the number of files with at least one detected feature.
	FilesMatched int

	// FilesFailed is the number of files that could not be read.
	FilesFailed int

	// FilesSkipped is the number of files analyzed without any detected feature.
	FilesSkipped int

	// Project aggregates all matches across files.
	Project domain.ProjectStats

	// Duration is the total scan duration.
	Duration time.Duration
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := newDefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	applyDefaults(&options)

	return &Scanner{
		logger:  options.Logger.With().Str("component", "scanner").Logger(),
		options: &options,
	}
}

// Scan discovers supported source files under the source root and analyzes
// them in parallel.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) Scan(ctx context.Context, src source.Source) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := newScanResult(src.Root())

	files, errs := s.discoverFiles(ctx, src)
	for _, err := range errs {
		result.Errors = append(result.Errors, ScanError{
			Err:   err,
			Phase: PhaseDiscovery,
		})
	}
	result.Stats.FilesScanned = len(files)
	s.logger.Debug().Int("files", len(files)).Str("root", src.Root()).Msg("discovered source files")

	return s.finish(ctx, src, files, result, startTime)
}

// ScanFiles analyzes specific files, bypassing discovery.
// Paths are relative to the source root.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) ScanFiles(ctx context.Context, src source.Source, files []string) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := newScanResult(src.Root())
	result.Stats.FilesScanned = len(files)

	return s.finish(ctx, src, files, result, startTime)
}

func newScanResult(root string) *ScanResult {
	return &ScanResult{
		Inventory: &domain.Inventory{
			RootPath: root,
			Files:    []domain.FileResult{},
		},
		Errors: []ScanError{},
	}
}

func (s *Scanner) finish(ctx context.Context, src source.Source, files []string, result *ScanResult, startTime time.Time) (*ScanResult, error) {
	if len(files) > 0 {
		analyzed, scanErrors := s.analyzeFilesParallel(ctx, src, files)
		result.Inventory.Files = analyzed
		result.Errors = append(result.Errors, scanErrors...)
		result.Stats.FilesMatched = len(analyzed)
		result.Stats.FilesFailed = len(scanErrors)
		result.Stats.FilesSkipped = result.Stats.FilesScanned - result.Stats.FilesMatched - result.Stats.FilesFailed
	}

	result.Stats.Project = stats.Summarize(result.Inventory.Results())
	result.Stats.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverFiles walks the source root to find supported source files.
// Returns relative paths from the source root for consistent Source.Open() usage.
func (s *Scanner) discoverFiles(ctx context.Context, src source.Source) ([]string, []error) {
	rootPath := src.Root()
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), s.options.ExcludePatterns...))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(path, rootPath, skipSet) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isSourceCandidate(path) {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(relPath, s.options.Patterns) {
			return nil
		}

		if s.options.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", path, err))
				return nil
			}
			if info.Size() > s.options.MaxFileSize {
				s.logger.Debug().Str("path", relPath).Int64("size", info.Size()).Msg("skipping large file")
				return nil
			}
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, err)
		}
	}

	return files, errs
}

func (s *Scanner) analyzeFilesParallel(ctx context.Context, src source.Source, files []string) ([]domain.FileResult, []ScanError) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu         sync.Mutex
		analyzed   = make([]domain.FileResult, 0, len(files))
		scanErrors = make([]ScanError, 0)
	)

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			fileResult, scanErr := s.analyzeFile(gCtx, src, file)

			mu.Lock()
			defer mu.Unlock()

			if scanErr != nil {
				scanErrors = append(scanErrors, *scanErr)
				return nil
			}
			if fileResult != nil {
				analyzed = append(analyzed, *fileResult)
			}
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines finish in arbitrary order.
	sort.Slice(analyzed, func(i, j int) bool {
		return analyzed[i].Path < analyzed[j].Path
	})
	sort.Slice(scanErrors, func(i, j int) bool {
		return scanErrors[i].Path < scanErrors[j].Path
	})

	return analyzed, scanErrors
}

func (s *Scanner) analyzeFile(ctx context.Context, src source.Source, path string) (*domain.FileResult, *ScanError) {
	content, err := readFileFromSource(ctx, src, path)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("failed to read file")
		return nil, &ScanError{
			Err:   err,
			Path:  path,
			Phase: PhaseRead,
		}
	}

	var results []domain.FeatureResult
	if len(s.options.Features) > 0 {
		results = s.options.Engine.AnalyzeFeatures(string(content), s.options.Features...)
	} else {
		results = s.options.Engine.Analyze(string(content))
	}

	if len(results) == 0 {
		return nil, nil
	}

	lang, _ := domain.LanguageFromPath(path)
	return &domain.FileResult{
		Language: lang,
		Path:     filepath.ToSlash(path),
		Results:  results,
	}, nil
}

// readFileFromSource reads a file from source using relative path.
// The relPath must be relative to src.Root().
func readFileFromSource(ctx context.Context, src source.Source, relPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, relPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", relPath, err)
	}

	return content, nil
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func shouldSkipDir(path, rootPath string, skipSet map[string]bool) bool {
	if path == rootPath {
		return false
	}
	return skipSet[filepath.Base(path)]
}

// isSourceCandidate reports whether a file has a supported extension and
// is not a minified bundle.
func isSourceCandidate(path string) bool {
	if _, ok := domain.LanguageFromPath(path); !ok {
		return false
	}
	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)
	return !strings.HasSuffix(strings.TrimSuffix(base, ext), ".min")
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Scan is a convenience wrapper around NewScanner(opts...).Scan.
func Scan(ctx context.Context, src source.Source, opts ...ScanOption) (*ScanResult, error) {
	return NewScanner(opts...).Scan(ctx, src)
}
