package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/specvital/baseline/internal/config"
	"github.com/specvital/baseline/internal/report"
	"github.com/specvital/baseline/pkg/detection"
	"github.com/specvital/baseline/pkg/registry"
	"github.com/specvital/baseline/pkg/scanner"
	"github.com/specvital/baseline/pkg/source"
)

// errScoreBelowThreshold signals a successful scan that failed --fail-under.
var errScoreBelowThreshold = errors.New("compatibility score below threshold")

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [directory]",
		Short: "Scan a project and report Baseline compatibility",
		Long:  `Scan all web source files under a directory (default: current directory), detect web-platform features and report a compatibility score`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText), "output format (text|json|msgpack|sarif)")
	cmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().String("config", "", "path to baseline.toml (default: discovered from the scanned directory upward)")
	cmd.Flags().StringSlice("feature", nil, "only detect the given feature ids (repeatable)")
	cmd.Flags().StringSlice("include", nil, "only scan files matching these glob patterns")
	cmd.Flags().StringSlice("exclude", nil, "additional directory names to skip")
	cmd.Flags().Int("workers", 0, "max parallel workers (0=auto)")
	cmd.Flags().Int64("max-file-size", 0, "skip files larger than this many bytes (0=default)")
	cmd.Flags().Duration("timeout", 0, "abort the scan after this duration (0=default)")
	cmd.Flags().Int("fail-under", 0, "exit non-zero when the score is below this value")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	logger := newLogger(cmd)

	format, err := report.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		logger.Debug().Str("path", cfg.Path).Msg("loaded configuration")
	}

	reg := newRegistry(cmd, logger, cfg.Metadata.Path)
	opts := append(cfg.ScanOptions(),
		scanner.WithEngine(detection.NewEngine(reg)),
		scanner.WithLogger(logger),
	)
	opts = append(opts, flagScanOptions(cmd)...)

	src, err := source.NewLocalSource(root)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := scanner.NewScanner(opts...).Scan(ctx, src)
	if err != nil {
		return err
	}
	for _, scanErr := range result.Errors {
		logger.Warn().Str("phase", scanErr.Phase).Str("path", scanErr.Path).Err(scanErr.Err).Msg("scan error")
	}
	logger.Debug().
		Int("files", result.Stats.FilesScanned).
		Int("matched", result.Stats.FilesMatched).
		Dur("duration", result.Stats.Duration).
		Msg("scan complete")

	rep := report.FromScan(result)
	if err := writeReport(cmd, rep, format); err != nil {
		return err
	}

	if threshold := mustInt(cmd, "fail-under"); threshold > 0 && rep.Stats.Score < threshold {
		return fmt.Errorf("%w: %d < %d", errScoreBelowThreshold, rep.Stats.Score, threshold)
	}
	return nil
}

func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	if path := mustString(cmd, "config"); path != "" {
		return config.Load(path)
	}
	return config.Discover(root)
}

// newRegistry builds the built-in registry, enriched from the --metadata
// flag or the configured metadata file.
func newRegistry(cmd *cobra.Command, logger zerolog.Logger, configured string) *registry.Registry {
	reg := registry.NewBuiltin(registry.WithLogger(logger))
	path := mustString(cmd, "metadata")
	if path == "" {
		path = configured
	}
	if path != "" {
		reg.EnrichFromFile(path)
	}
	return reg
}

// flagScanOptions returns options for explicitly set flags only, so they
// override values from baseline.toml.
func flagScanOptions(cmd *cobra.Command) []scanner.ScanOption {
	var opts []scanner.ScanOption
	flags := cmd.Flags()
	if flags.Changed("feature") {
		ids, _ := flags.GetStringSlice("feature")
		opts = append(opts, scanner.WithFeatures(ids))
	}
	if flags.Changed("include") {
		patterns, _ := flags.GetStringSlice("include")
		opts = append(opts, scanner.WithPatterns(patterns))
	}
	if flags.Changed("exclude") {
		patterns, _ := flags.GetStringSlice("exclude")
		opts = append(opts, scanner.WithExcludePatterns(patterns))
	}
	if flags.Changed("workers") {
		n, _ := flags.GetInt("workers")
		opts = append(opts, scanner.WithWorkers(n))
	}
	if flags.Changed("max-file-size") {
		size, _ := flags.GetInt64("max-file-size")
		opts = append(opts, scanner.WithMaxFileSize(size))
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		opts = append(opts, scanner.WithTimeout(d))
	}
	return opts
}

func writeReport(cmd *cobra.Command, rep report.Report, format report.Format) (err error) {
	var out io.Writer = cmd.OutOrStdout()
	if path := mustString(cmd, "output"); path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
		out = f
	}
	return report.Write(out, rep, format)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}
