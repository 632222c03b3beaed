package scanner_test

import (
	"context"
	"fmt"
	"time"

	"github.com/specvital/baseline/pkg/scanner"
	"github.com/specvital/baseline/pkg/source"
)

func Example() {
	ctx := context.Background()

	// Create a source for the project directory
	src, err := source.NewLocalSource("/path/to/project")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer src.Close()

	result, err := scanner.Scan(ctx, src)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, file := range result.Inventory.Files {
		fmt.Printf("File: %s (%s)\n", file.Path, file.Language)
		fmt.Printf("  Matches: %d\n", file.CountMatches())
	}
	fmt.Printf("Score: %d\n", result.Stats.Project.Score)

	// Check for non-fatal errors
	for _, scanErr := range result.Errors {
		fmt.Printf("Warning: %v\n", scanErr)
	}
}

func Example_withOptions() {
	ctx := context.Background()

	src, err := source.NewLocalSource("/path/to/project")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer src.Close()

	result, err := scanner.Scan(ctx, src,
		scanner.WithWorkers(4),
		scanner.WithTimeout(2*time.Minute),
		scanner.WithExcludePatterns([]string{"fixtures"}),
		scanner.WithPatterns([]string{"src/**/*.css"}),
		scanner.WithFeatures([]string{"container-queries", "css-cascade-layers"}),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Files scanned: %d\n", result.Stats.FilesScanned)
	fmt.Printf("Duration: %v\n", result.Stats.Duration)
}
