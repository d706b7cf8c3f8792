// Package config provides configuration management for the data explorer.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingSourceURL         = errors.New("source.url is required")
	ErrInvalidMaxAttempts       = errors.New("fetch.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("fetch.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("fetch.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidBufferSize        = errors.New("fetch.buffer_size_kb must be at least 1")
	ErrInvalidRollingWindow     = errors.New("transform.rolling_window_days must be at least 1")
	ErrMissingOutputPath        = errors.New("output.path is required")
	ErrNoOutputFormats          = errors.New("at least one output format is required")
	ErrInvalidOutputFormat      = errors.New("output.formats entries must be 'html', 'xlsx' or 'json'")
	ErrInvalidTopRegions        = errors.New("output.top_regions must be non-negative")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// DefaultDatasetURL is the NYS DOH county-level testing dataset (Socrata).
const DefaultDatasetURL = "https://health.data.ny.gov/resource/xdss-u53e.json"

// Config represents the complete explorer configuration.
type Config struct {
	Explorer ExplorerConfig `yaml:"explorer"`
}

// ExplorerConfig contains the pipeline settings.
type ExplorerConfig struct {
	Source    SourceConfig    `yaml:"source"`
	Fetch     FetchPolicy     `yaml:"fetch"`
	Transform TransformConfig `yaml:"transform"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes the remote dataset and its local cache.
type SourceConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	CacheFile string `yaml:"cache_file"`
	UseCache  bool   `yaml:"use_cache"`
}

// FetchPolicy defines timeout and retry behavior for the HTTP fetch.
type FetchPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	BufferSizeKb      int     `yaml:"buffer_size_kb"`
}

// TransformConfig defines derived-metric parameters.
type TransformConfig struct {
	RollingWindowDays int `yaml:"rolling_window_days"`
}

// OutputConfig defines artifact output behavior.
type OutputConfig struct {
	Path       string   `yaml:"path"`
	Formats    []string `yaml:"formats"`
	Title      string   `yaml:"title"`
	TopRegions int      `yaml:"top_regions"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Explorer: ExplorerConfig{
			Source: SourceConfig{
				Name:      "NYS DOH testing dataset",
				URL:       DefaultDatasetURL,
				CacheFile: "data/xdss-u53e.json",
				UseCache:  true,
			},
			Fetch: FetchPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
				BufferSizeKb:      8192,
			},
			Transform: TransformConfig{
				RollingWindowDays: 7,
			},
			Output: OutputConfig{
				Path:       "final.html",
				Formats:    []string{"html"},
				Title:      "New York Covid-19 Data",
				TopRegions: 10,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Explorer.Source.URL == "" {
		return ErrMissingSourceURL
	}

	if c.Explorer.Fetch.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Explorer.Fetch.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Explorer.Fetch.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Explorer.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Explorer.Fetch.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if c.Explorer.Transform.RollingWindowDays < 1 {
		return ErrInvalidRollingWindow
	}

	if c.Explorer.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if len(c.Explorer.Output.Formats) == 0 {
		return ErrNoOutputFormats
	}

	for _, format := range c.Explorer.Output.Formats {
		if format != "html" && format != "xlsx" && format != "json" {
			return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, format)
		}
	}

	if c.Explorer.Output.TopRegions < 0 {
		return ErrInvalidTopRegions
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Explorer.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Explorer.Logging.Format != "text" && c.Explorer.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// HasFormat reports whether the given output format is enabled.
func (o *OutputConfig) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}

	return false
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (fp *FetchPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(fp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= fp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > fp.MaxDelayMs {
		delayMs = float64(fp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (fp *FetchPolicy) GetTimeout() time.Duration {
	return time.Duration(fp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, MaxAttempts: %d, Output: %s}",
		c.Explorer.Source.URL,
		c.Explorer.Fetch.MaxAttempts,
		c.Explorer.Output.Path,
	)
}
