// Package main provides the exporter command-line tool: re-export a cached
// raw dataset to XLSX or JSON without touching the network.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nycovid/internal/export"
	"nycovid/internal/fetcher"
	"nycovid/internal/transform"
)

func main() {
	// Define command-line flags
	cacheFile := flag.String("cache", "data/xdss-u53e.json", "Path to the cached raw dataset")
	output := flag.String("output", "", "Output file path (defaults to covid-export.<format>)")
	format := flag.String("format", "xlsx", "Export format: xlsx or json")
	window := flag.Int("window", 7, "Rolling average window in days")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *format != "xlsx" && *format != "json" {
		log.Fatalf("❌ Unknown format %q (want xlsx or json)\n", *format)
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = "covid-export." + *format
	}

	fmt.Println("📤 NY Covid-19 Dataset Exporter")
	fmt.Printf("📂 Cache file: %s\n", *cacheFile)
	fmt.Println()

	body, err := os.ReadFile(*cacheFile)
	if err != nil {
		log.Fatalf("❌ Failed to read cache file: %v\n", err)
	}

	dataset, err := fetcher.DecodeDataset(body, *cacheFile, true)
	if err != nil {
		log.Fatalf("❌ Cache file is not a valid dataset: %v\n", err)
	}

	fmt.Printf("✅ Loaded %d rows\n", dataset.Len())

	transformer := transform.NewTransformer(*window)

	table, diags, err := transformer.Transform(dataset)
	if err != nil {
		log.Fatalf("❌ Transform failed: %v\n", err)
	}

	if diags.SkipCount() > 0 {
		fmt.Printf("⚠️  Skipped %d malformed rows\n", diags.SkipCount())
	}

	fmt.Printf("✅ Built series for %d counties\n", len(table))

	switch *format {
	case "xlsx":
		err = export.WriteXLSX(outputPath, table)
	case "json":
		err = export.WriteJSONSummary(outputPath, table)
	}

	if err != nil {
		log.Fatalf("❌ Export failed: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", outputPath)
}

func printUsage() {
	fmt.Println("Usage: ./bin/exporter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/exporter -cache data/xdss-u53e.json -format xlsx -output covid.xlsx")
	fmt.Println("  ./bin/exporter -cache data/xdss-u53e.json -format json")
}
