// Package config loads baseline.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/specvital/baseline/pkg/scanner"
)

// FileName is the project configuration file name.
const FileName = "baseline.toml"

// Config is the decoded project configuration.
type Config struct {
	Metadata MetadataConfig `toml:"metadata"`
	// Path is the file the configuration was loaded from, empty for defaults.
	Path     string         `toml:"-"`
	Scan     ScanConfig     `toml:"scan"`
}

// ScanConfig holds [scan] settings.
type ScanConfig struct {
	Exclude     []string `toml:"exclude"`
	Features    []string `toml:"features"`
	Include     []string `toml:"include"`
	MaxFileSize int64    `toml:"max_file_size"`
	Timeout     Duration `toml:"timeout"`
	Workers     int      `toml:"workers"`
}

// MetadataConfig holds [metadata] settings.
type MetadataConfig struct {
	// Path points to a JSON or YAML feature-metadata file, relative to the
	// configuration file.
	Path string `toml:"path"`
}

// Duration is a time.Duration decoded from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Find looks for baseline.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the configuration file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Scan.Workers < 0 {
		return nil, fmt.Errorf("%s: scan.workers must not be negative", path)
	}
	cfg.Path = path
	if cfg.Metadata.Path != "" && !filepath.IsAbs(cfg.Metadata.Path) {
		cfg.Metadata.Path = filepath.Join(filepath.Dir(path), cfg.Metadata.Path)
	}
	return &cfg, nil
}

// Discover finds and loads the configuration for startDir.
// Without a configuration file it returns an empty Config.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Config{}, nil
	}
	return Load(path)
}

// ScanOptions converts the [scan] section into scanner options.
func (c *Config) ScanOptions() []scanner.ScanOption {
	var opts []scanner.ScanOption
	if len(c.Scan.Include) > 0 {
		opts = append(opts, scanner.WithPatterns(c.Scan.Include))
	}
	if len(c.Scan.Exclude) > 0 {
		opts = append(opts, scanner.WithExcludePatterns(c.Scan.Exclude))
	}
	if len(c.Scan.Features) > 0 {
		opts = append(opts, scanner.WithFeatures(c.Scan.Features))
	}
	if c.Scan.MaxFileSize > 0 {
		opts = append(opts, scanner.WithMaxFileSize(c.Scan.MaxFileSize))
	}
	if c.Scan.Timeout.Duration > 0 {
		opts = append(opts, scanner.WithTimeout(c.Scan.Timeout.Duration))
	}
	if c.Scan.Workers > 0 {
		opts = append(opts, scanner.WithWorkers(c.Scan.Workers))
	}
	return opts
}
