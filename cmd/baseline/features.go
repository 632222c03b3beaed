package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specvital/baseline/pkg/domain"
)

var levelColors = map[domain.Level]*color.Color{
	domain.LevelWidelyAvailable: color.New(color.FgGreen),
	domain.LevelNewlyAvailable:  color.New(color.FgYellow),
	domain.LevelLimited:         color.New(color.FgMagenta),
	domain.LevelNotBaseline:     color.New(color.FgRed),
}

func newFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List detectable web features and their Baseline status",
		Args:  cobra.NoArgs,
		RunE:  runFeatures,
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text|json)")
	cmd.Flags().String("level", "", "only list features at this level (widely|newly|limited|not-baseline)")
	return cmd
}

func runFeatures(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd)
	reg := newRegistry(cmd, logger, "")

	level := domain.Level(mustString(cmd, "level"))
	switch level {
	case "", domain.LevelWidelyAvailable, domain.LevelNewlyAvailable, domain.LevelLimited, domain.LevelNotBaseline:
	default:
		return fmt.Errorf("unknown level %q", level)
	}

	features := make([]domain.Feature, 0, reg.Len())
	for _, f := range reg.Features() {
		if level == "" || f.Status.Level == level {
			features = append(features, f)
		}
	}

	out := cmd.OutOrStdout()
	switch format := mustString(cmd, "format"); format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(features)
	case "text":
		for _, f := range features {
			since := "-"
			if f.Status.LowDate != nil {
				since = f.Status.LowDate.Format(domain.DateLayout)
			}
			if _, err := fmt.Fprintf(out, "%-28s ", f.ID); err != nil {
				return err
			}
			if _, err := levelColors[f.Status.Level].Fprintf(out, "%-17s", f.Status.Level.Label()); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(out, " %-10s  %s\n", since, f.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
