package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLocalSource(t *testing.T) {
	t.Run("should resolve directory root", func(t *testing.T) {
		dir := t.TempDir()

		src, err := NewLocalSource(dir)
		if err != nil {
			t.Fatalf("NewLocalSource() error = %v", err)
		}
		defer src.Close()

		if !filepath.IsAbs(src.Root()) {
			t.Errorf("Root() = %q, want absolute path", src.Root())
		}
	})

	t.Run("should reject files", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "a.css")
		if err := os.WriteFile(file, []byte("a{}"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := NewLocalSource(file)
		if !errors.Is(err, ErrNotDirectory) {
			t.Errorf("NewLocalSource(file) error = %v, want ErrNotDirectory", err)
		}
	})

	t.Run("should fail on missing path", func(t *testing.T) {
		if _, err := NewLocalSource(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestLocalSource_Open(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("a?.b"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewLocalSource(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("should read relative path", func(t *testing.T) {
		rc, err := src.Open(context.Background(), "app.js")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer rc.Close()

		content, _ := io.ReadAll(rc)
		if string(content) != "a?.b" {
			t.Errorf("content = %q", content)
		}
	})

	t.Run("should refuse paths outside root", func(t *testing.T) {
		_, err := src.Open(context.Background(), "../etc/passwd")
		if !errors.Is(err, ErrOutsideRoot) {
			t.Errorf("Open(..) error = %v, want ErrOutsideRoot", err)
		}
	})

	t.Run("should honor cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := src.Open(ctx, "app.js"); !errors.Is(err, context.Canceled) {
			t.Errorf("Open() error = %v, want context.Canceled", err)
		}
	})
}
