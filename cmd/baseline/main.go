// Command baseline reports which web-platform features a project uses and
// how broadly those features are supported by browsers.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version can be overridden at build time via -ldflags.
var Version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "baseline",
		Short:         "Web feature Baseline compatibility analyzer",
		Long:          `Detects web-platform features in CSS, HTML and JavaScript sources and scores them by Baseline status`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("metadata", "", "feature metadata file (web-features JSON or YAML)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newFeaturesCmd())
	return rootCmd
}

// newLogger writes human-readable logs to stderr; debug level with --verbose.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
