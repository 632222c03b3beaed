// Package source abstracts where analyzed files are read from.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotDirectory is returned when a local source root is not a directory.
	ErrNotDirectory = errors.New("source: root is not a directory")
	// ErrOutsideRoot is returned when a path escapes the source root.
	ErrOutsideRoot = errors.New("source: path escapes root")
)

// Source provides read access to files under a root directory.
type Source interface {
	// Root returns the absolute root path.
	Root() string
	// Open opens a file by path relative to Root.
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	// Close releases resources held by the source.
	Close() error
}

// LocalSource reads files from the local filesystem.
type LocalSource struct {
	root string
}

// NewLocalSource creates a source rooted at path.
func NewLocalSource(path string) (*LocalSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source: stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return &LocalSource{root: abs}, nil
}

func (s *LocalSource) Root() string {
	return s.root
}

func (s *LocalSource) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(relPath)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, relPath)
	}

	return os.Open(filepath.Join(s.root, clean))
}

func (s *LocalSource) Close() error {
	return nil
}
