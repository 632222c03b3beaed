//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/specvital/baseline/pkg/scanner"
	"github.com/specvital/baseline/pkg/source"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <path>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, err := source.NewLocalSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	result, err := scanner.Scan(ctx, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"filesScanned": result.Stats.FilesScanned,
		"filesMatched": result.Stats.FilesMatched,
		"matchCount":   result.Inventory.CountMatches(),
		"score":        result.Stats.Project.Score,
		"duration":     result.Stats.Duration.String(),
		"features":     countFeatures(result),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}

func countFeatures(result *scanner.ScanResult) map[string]int {
	counts := make(map[string]int)
	for _, file := range result.Inventory.Files {
		for _, r := range file.Results {
			counts[r.Feature.ID] += len(r.Matches)
		}
	}
	return counts
}
