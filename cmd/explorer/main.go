// Package main provides the explorer command-line tool: fetch the NYS DOH
// testing dataset, transform it into per-county series and render the
// standalone HTML document.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"nycovid/internal/config"
	"nycovid/internal/export"
	"nycovid/internal/fetcher"
	"nycovid/internal/logger"
	"nycovid/internal/models"
	"nycovid/internal/render"
	"nycovid/internal/report"
	"nycovid/internal/transform"
)

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetURL := flag.String("url", "", "Dataset URL (overrides config)")
	output := flag.String("output", "", "Output HTML file path (overrides config)")
	cacheFile := flag.String("cache", "", "Cache file path (overrides config)")
	noFetch := flag.Bool("no-fetch", false, "Use the cache file only, never touch the network")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if *targetURL != "" {
		cfg.Explorer.Source.URL = *targetURL
	}

	if *output != "" {
		cfg.Explorer.Output.Path = *output
	}

	if *cacheFile != "" {
		cfg.Explorer.Source.CacheFile = *cacheFile
	}

	log := logger.NewLogger(cfg.Explorer.Logging.Level, cfg.Explorer.Logging.Format)

	printHeader(cfg)

	// Stage 1: fetch
	dataset := fetchDataset(cfg, log, *noFetch)

	fmt.Printf("✅ Dataset ready: %d rows (source: %s)\n", dataset.Len(), dataset.Source)

	// Stage 2: transform
	fmt.Println("\n📊 Transforming into per-county series...")

	transformer := transform.NewTransformer(cfg.Explorer.Transform.RollingWindowDays)

	table, diags, err := transformer.Transform(dataset)
	if err != nil {
		log.Error("transform stage failed", "error", err)
		os.Exit(1)
	}

	if diags.SkipCount() > 0 {
		diags.LogAll(log)
		fmt.Printf("⚠️  Skipped %d malformed rows\n", diags.SkipCount())
	}

	fmt.Printf("✅ Built series for %d counties\n", len(table))

	// Stage 3: render + export
	outputs := cfg.Explorer.Output

	if outputs.HasFormat("html") {
		fmt.Println("\n📝 Rendering HTML document...")

		spec, specErr := render.BuildChartSpec(table, outputs.Title, cfg.Explorer.Source.Name)
		if specErr != nil {
			log.Error("render stage failed", "error", specErr)
			os.Exit(1)
		}

		doc, renderErr := render.RenderDocument(spec)
		if renderErr != nil {
			log.Error("render stage failed", "error", renderErr)
			os.Exit(1)
		}

		if writeErr := render.WriteDocument(outputs.Path, doc); writeErr != nil {
			log.Error("output stage failed", "error", writeErr)
			os.Exit(1)
		}

		fmt.Printf("✅ Saved to: %s\n", outputs.Path)
	}

	if outputs.HasFormat("xlsx") {
		path := withExt(outputs.Path, ".xlsx")
		if exportErr := export.WriteXLSX(path, table); exportErr != nil {
			log.Error("xlsx export failed", "error", exportErr)
			os.Exit(1)
		}

		fmt.Printf("✅ Workbook saved to: %s\n", path)
	}

	if outputs.HasFormat("json") {
		path := withExt(outputs.Path, ".json")
		if exportErr := export.WriteJSONSummary(path, table); exportErr != nil {
			log.Error("json export failed", "error", exportErr)
			os.Exit(1)
		}

		fmt.Printf("✅ Summary saved to: %s\n", path)
	}

	if outputs.TopRegions > 0 {
		fmt.Printf("\n📈 Top %d counties by latest new positives:\n\n", outputs.TopRegions)
		fmt.Println(report.Render(table, outputs.TopRegions))
	}

	fmt.Println("\n✨ Done!")
}

// loadConfig resolves the configuration: explicit file, default file, then
// built-in defaults.
func loadConfig(configFile string) *config.Config {
	if configFile != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", configFile)

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		return cfg
	}

	defaultConfig := "configs/explorer.yaml"
	if _, statErr := os.Stat(defaultConfig); statErr == nil {
		fmt.Printf("⚙️  Loading default configuration: %s\n", defaultConfig)

		cfg, err := config.LoadConfig(defaultConfig)
		if err != nil {
			log.Fatalf("❌ Failed to load default config: %v\n", err)
		}

		return cfg
	}

	fmt.Println("⚙️  Using built-in defaults")

	return config.Default()
}

// fetchDataset runs the fetch stage: cache first when enabled, then the
// network, saving a fresh cache copy on success.
func fetchDataset(cfg *config.Config, log *logger.Logger, noFetch bool) *models.RawDataset {
	source := cfg.Explorer.Source
	client := fetcher.NewClientWithPolicy(&cfg.Explorer.Fetch)

	useCache := noFetch || source.UseCache
	if useCache && source.CacheFile != "" {
		if _, statErr := os.Stat(source.CacheFile); statErr == nil {
			fmt.Printf("⏳ Reading cached dataset: %s\n", source.CacheFile)

			body, fileSize, duration, readErr := client.ReadCacheWithMetrics(source.CacheFile)
			if readErr == nil {
				dataset, decodeErr := fetcher.DecodeDataset(body, source.CacheFile, true)
				if decodeErr == nil {
					fmt.Printf("✅ Read %d bytes (%.2fms)\n", fileSize, float64(duration.Microseconds())/1000)

					return dataset
				}

				log.Warn("cache file is not a valid dataset, refetching", "error", decodeErr)
			} else {
				log.Warn("cache read failed, refetching", "error", readErr)
			}
		}
	}

	if noFetch {
		log.Error("fetch stage failed", "error", "no usable cache file and -no-fetch is set")
		os.Exit(1)
	}

	fmt.Printf("⏳ Fetching: %s\n", source.URL)

	body, statusCode, duration, fetchErr := client.FetchWithMetrics(source.URL)
	if fetchErr != nil {
		log.Error("fetch stage failed", "error", fetchErr, "status", statusCode)
		os.Exit(1)
	}

	fmt.Printf("✅ Fetched %d bytes (%.2fs)\n", len(body), duration.Seconds())

	dataset, decodeErr := fetcher.DecodeDataset(body, source.URL, false)
	if decodeErr != nil {
		log.Error("fetch stage failed", "error", decodeErr)
		os.Exit(1)
	}

	if source.CacheFile != "" {
		if saveErr := fetcher.SaveCache(source.CacheFile, body); saveErr != nil {
			// Cache is an optimization for later runs, not an output.
			log.Warn("could not save cache file", "error", saveErr)
		} else {
			fmt.Printf("💾 Cached raw dataset to: %s\n", source.CacheFile)
		}
	}

	return dataset
}

func printHeader(cfg *config.Config) {
	fmt.Println("🦠 New York Covid-19 Data Explorer")
	fmt.Printf("Source: %s\n", cfg.Explorer.Source.URL)
	fmt.Printf("Fetch policy: max %d attempts, %ds timeout\n",
		cfg.Explorer.Fetch.MaxAttempts,
		cfg.Explorer.Fetch.TimeoutSec)
	fmt.Printf("Output: %s (%s)\n", cfg.Explorer.Output.Path, strings.Join(cfg.Explorer.Output.Formats, ", "))
	fmt.Println()
}

// withExt swaps the extension of the configured output path.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func printUsage() {
	fmt.Println("Usage: ./bin/explorer [OPTIONS]")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  1. Config-based:   ./bin/explorer -config configs/explorer.yaml")
	fmt.Println("  2. Default config: ./bin/explorer (reads configs/explorer.yaml if it exists)")
	fmt.Println("  3. CLI arguments:  ./bin/explorer -url <URL> -output <PATH>")
	fmt.Println("  4. Offline:        ./bin/explorer -no-fetch -cache data/xdss-u53e.json")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}
