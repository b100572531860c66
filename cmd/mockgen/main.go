package main

import (
	"flag"
	"fmt"
	"insightgen/cmd/mockgen/engine"
	"os"
	"time"
)

func main() {
	scenario := flag.String("scenario", "sales", "Scenario to generate: sales, ads, survey")
	outDir := flag.String("out", "./testdata", "Output directory for mock files")
	rows := flag.Int("rows", 200, "Number of rows to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Rows:     *rows,
		Seed:     *seed,
	}

	fmt.Printf("Generating scenario '%s' (Rows: %d) to %s...\n", cfg.Scenario, cfg.Rows, *outDir)

	header, data, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}

	path, err := engine.Save(*outDir, cfg.Scenario, header, data)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %s\n", path)
}
