package scanner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specvital/baseline/pkg/detection"
	"github.com/specvital/baseline/pkg/registry"
	"github.com/specvital/baseline/pkg/scanner"
	"github.com/specvital/baseline/pkg/source"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func newSource(t *testing.T, root string) *source.LocalSource {
	t.Helper()
	src, err := source.NewLocalSource(root)
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestScan(t *testing.T) {
	t.Run("should return empty inventory for empty directory", func(t *testing.T) {
		src := newSource(t, t.TempDir())

		result, err := scanner.Scan(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Inventory == nil {
			t.Fatal("inventory should not be nil")
		}
		if len(result.Inventory.Files) != 0 {
			t.Errorf("expected 0 files, got %d", len(result.Inventory.Files))
		}
		if result.Stats.Project.Score != 100 {
			t.Errorf("expected score 100, got %d", result.Stats.Project.Score)
		}
	})

	t.Run("should analyze supported files", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "src/app.js", "const x = a?.b;\neval(input);\n")
		writeFile(t, tmpDir, "styles/main.css", ".c { display: grid; }\n@container (min-width: 1px) {}\n")
		writeFile(t, tmpDir, "README.md", "const y = a?.b")
		writeFile(t, tmpDir, "src/plain.ts", "type A = string")

		src := newSource(t, tmpDir)
		result, err := scanner.Scan(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 3 {
			t.Errorf("expected 3 files scanned, got %d", result.Stats.FilesScanned)
		}
		if result.Stats.FilesMatched != 2 {
			t.Errorf("expected 2 files matched, got %d", result.Stats.FilesMatched)
		}
		if result.Stats.FilesSkipped != 1 {
			t.Errorf("expected 1 file skipped, got %d", result.Stats.FilesSkipped)
		}
		if len(result.Inventory.Files) != 2 {
			t.Fatalf("expected 2 files, got %d", len(result.Inventory.Files))
		}
		if result.Inventory.Files[0].Path != "src/app.js" || result.Inventory.Files[1].Path != "styles/main.css" {
			t.Errorf("unexpected file order: %s, %s", result.Inventory.Files[0].Path, result.Inventory.Files[1].Path)
		}
		if result.Inventory.RootPath != src.Root() {
			t.Errorf("expected rootPath %s, got %s", src.Root(), result.Inventory.RootPath)
		}
		if got, want := result.Stats.Project.TotalMatches, result.Inventory.CountMatches(); got != want {
			t.Errorf("project total %d != inventory total %d", got, want)
		}
		if result.Stats.Project.SecurityIssues != 1 {
			t.Errorf("expected 1 security issue, got %d", result.Stats.Project.SecurityIssues)
		}
	})

	t.Run("should skip default and excluded directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "node_modules/lib/index.js", "a?.b")
		writeFile(t, tmpDir, "legacy/old.js", "a?.b")
		writeFile(t, tmpDir, "src/app.js", "a?.b")

		src := newSource(t, tmpDir)
		result, err := scanner.Scan(context.Background(), src, scanner.WithExcludePatterns([]string{"legacy"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 1 {
			t.Errorf("expected 1 file scanned, got %d", result.Stats.FilesScanned)
		}
	})

	t.Run("should skip minified bundles", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "vendor.min.js", "a?.b")
		writeFile(t, tmpDir, "theme.min.css", "display: grid")

		result, err := scanner.Scan(context.Background(), newSource(t, tmpDir))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 0 {
			t.Errorf("expected 0 files scanned, got %d", result.Stats.FilesScanned)
		}
	})

	t.Run("should filter by glob patterns", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "src/a/app.css", "display: grid")
		writeFile(t, tmpDir, "src/b/app.js", "a?.b")

		result, err := scanner.Scan(context.Background(), newSource(t, tmpDir), scanner.WithPatterns([]string{"**/*.css"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Inventory.Files) != 1 || result.Inventory.Files[0].Path != "src/a/app.css" {
			t.Errorf("expected only src/a/app.css, got %+v", result.Inventory.Files)
		}
	})

	t.Run("should skip files over the size limit", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "big.js", strings.Repeat("a?.b;", 100))
		writeFile(t, tmpDir, "small.js", "a?.b")

		result, err := scanner.Scan(context.Background(), newSource(t, tmpDir), scanner.WithMaxFileSize(64))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 1 {
			t.Errorf("expected 1 file scanned, got %d", result.Stats.FilesScanned)
		}
	})

	t.Run("should restrict to selected features", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "app.js", "const x = a?.b;\neval(input);\n")

		result, err := scanner.Scan(context.Background(), newSource(t, tmpDir), scanner.WithFeatures([]string{"eval-usage"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Inventory.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Inventory.Files))
		}
		results := result.Inventory.Files[0].Results
		if len(results) != 1 || results[0].Feature.ID != "eval-usage" {
			t.Errorf("expected only eval-usage, got %+v", results)
		}
	})

	t.Run("should use the configured engine", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "app.js", "const x = a?.b;")
		engine := detection.NewEngine(registry.New())

		result, err := scanner.Scan(context.Background(), newSource(t, tmpDir), scanner.WithEngine(engine))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesMatched != 0 {
			t.Errorf("expected no matches with empty registry, got %d", result.Stats.FilesMatched)
		}
	})

	t.Run("should return cancellation error", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, "app.js", "a?.b")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := scanner.Scan(ctx, newSource(t, tmpDir))
		if !errors.Is(err, scanner.ErrScanCancelled) {
			t.Errorf("expected ErrScanCancelled, got %v", err)
		}
	})
}

func TestScanFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.js", "a?.b")
	writeFile(t, tmpDir, "b.css", "display: flex")

	result, err := scanner.NewScanner().ScanFiles(context.Background(), newSource(t, tmpDir), []string{"a.js", "missing.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.FilesScanned != 2 {
		t.Errorf("expected 2 files scanned, got %d", result.Stats.FilesScanned)
	}
	if result.Stats.FilesMatched != 1 {
		t.Errorf("expected 1 file matched, got %d", result.Stats.FilesMatched)
	}
	if result.Stats.FilesFailed != 1 {
		t.Errorf("expected 1 file failed, got %d", result.Stats.FilesFailed)
	}
	if len(result.Errors) != 1 || result.Errors[0].Phase != scanner.PhaseRead || result.Errors[0].Path != "missing.js" {
		t.Errorf("unexpected errors: %+v", result.Errors)
	}
	if !errors.Is(result.Errors[0], os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", result.Errors[0].Err)
	}
}

func TestScan_Concurrency(t *testing.T) {
	t.Run("should safely handle concurrent scans", func(t *testing.T) {
		tmpDir := t.TempDir()
		for i := 0; i < 10; i++ {
			writeFile(t, tmpDir, fmt.Sprintf("file%d.js", i), "const x = a?.b ?? c;")
		}
		src := newSource(t, tmpDir)

		var wg sync.WaitGroup
		var errCount atomic.Int32

		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := scanner.Scan(context.Background(), src, scanner.WithWorkers(4))
				if err != nil || result.Stats.FilesMatched != 10 {
					errCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if errCount.Load() > 0 {
			t.Errorf("concurrent scans had %d failures", errCount.Load())
		}
	})

	t.Run("should produce identical results regardless of worker count", func(t *testing.T) {
		tmpDir := t.TempDir()
		for i := 0; i < 20; i++ {
			writeFile(t, tmpDir, fmt.Sprintf("dir%d/style.css", i), ".a { gap: 1rem; -webkit-appearance: none; }")
		}
		src := newSource(t, tmpDir)

		one, err := scanner.Scan(context.Background(), src, scanner.WithWorkers(1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		many, err := scanner.Scan(context.Background(), src, scanner.WithWorkers(8))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if one.Stats.Project != many.Stats.Project {
			t.Errorf("stats differ: %+v vs %+v", one.Stats.Project, many.Stats.Project)
		}
		for i := range one.Inventory.Files {
			if one.Inventory.Files[i].Path != many.Inventory.Files[i].Path {
				t.Errorf("file order differs at %d", i)
			}
		}
	})
}

func TestScanOptions(t *testing.T) {
	t.Run("WithWorkers sets worker count", func(t *testing.T) {
		opts := &scanner.ScanOptions{}
		scanner.WithWorkers(4)(opts)
		if opts.Workers != 4 {
			t.Errorf("expected 4 workers, got %d", opts.Workers)
		}
	})

	t.Run("WithWorkers ignores negative values", func(t *testing.T) {
		opts := &scanner.ScanOptions{Workers: 4}
		scanner.WithWorkers(-1)(opts)
		if opts.Workers != 4 {
			t.Errorf("expected 4 (unchanged), got %d", opts.Workers)
		}
	})

	t.Run("WithTimeout ignores negative values", func(t *testing.T) {
		opts := &scanner.ScanOptions{Timeout: time.Minute}
		scanner.WithTimeout(-1)(opts)
		if opts.Timeout != time.Minute {
			t.Errorf("expected 1m (unchanged), got %v", opts.Timeout)
		}
	})

	t.Run("WithMaxFileSize ignores negative values", func(t *testing.T) {
		opts := &scanner.ScanOptions{MaxFileSize: 100}
		scanner.WithMaxFileSize(-1)(opts)
		if opts.MaxFileSize != 100 {
			t.Errorf("expected 100 (unchanged), got %d", opts.MaxFileSize)
		}
	})
}

func TestScanError(t *testing.T) {
	t.Run("Error with path returns formatted string", func(t *testing.T) {
		err := scanner.ScanError{Err: os.ErrNotExist, Path: "src/app.js", Phase: scanner.PhaseRead}

		expected := "[read] src/app.js: file does not exist"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("Error without path returns phase only", func(t *testing.T) {
		err := scanner.ScanError{Err: os.ErrPermission, Phase: scanner.PhaseDiscovery}

		expected := "[discovery] permission denied"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})
}
