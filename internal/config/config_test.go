package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
explorer:
  source:
    name: "Test dataset"
    url: "http://example.com/data.json"
    cache_file: "data/cache.json"
    use_cache: true
  fetch:
    max_attempts: 3
    initial_delay_ms: 100
    max_delay_ms: 5000
    backoff_multiplier: 2.0
    timeout_sec: 30
    buffer_size_kb: 1024
  transform:
    rolling_window_days: 7
  output:
    path: "./out/final.html"
    formats: ["html", "json"]
    title: "Test Data"
    top_regions: 5
  logging:
    level: "info"
    format: "text"
`

func TestLoadConfig_Valid(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned unexpected error: %v", err)
	}

	if cfg.Explorer.Source.URL != "http://example.com/data.json" {
		t.Errorf("Source.URL = %s, want http://example.com/data.json", cfg.Explorer.Source.URL)
	}

	if cfg.Explorer.Fetch.MaxAttempts != 3 {
		t.Errorf("Fetch.MaxAttempts = %d, want 3", cfg.Explorer.Fetch.MaxAttempts)
	}

	if !cfg.Explorer.Output.HasFormat("json") {
		t.Error("expected json format to be enabled")
	}

	if cfg.Explorer.Output.HasFormat("xlsx") {
		t.Error("expected xlsx format to be disabled")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("does/not/exist.yaml")
	if err == nil {
		t.Fatal("LoadConfig expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "explorer: [not a mapping")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig expected error for invalid YAML")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}

	if cfg.Explorer.Source.URL != DefaultDatasetURL {
		t.Errorf("Source.URL = %s, want %s", cfg.Explorer.Source.URL, DefaultDatasetURL)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing source url",
			mutate:  func(c *Config) { c.Explorer.Source.URL = "" },
			wantErr: ErrMissingSourceURL,
		},
		{
			name:    "zero max attempts",
			mutate:  func(c *Config) { c.Explorer.Fetch.MaxAttempts = 0 },
			wantErr: ErrInvalidMaxAttempts,
		},
		{
			name:    "negative initial delay",
			mutate:  func(c *Config) { c.Explorer.Fetch.InitialDelayMs = -1 },
			wantErr: ErrInvalidInitialDelay,
		},
		{
			name:    "backoff below one",
			mutate:  func(c *Config) { c.Explorer.Fetch.BackoffMultiplier = 0.5 },
			wantErr: ErrInvalidBackoffMultiplier,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Explorer.Fetch.TimeoutSec = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero buffer",
			mutate:  func(c *Config) { c.Explorer.Fetch.BufferSizeKb = 0 },
			wantErr: ErrInvalidBufferSize,
		},
		{
			name:    "zero rolling window",
			mutate:  func(c *Config) { c.Explorer.Transform.RollingWindowDays = 0 },
			wantErr: ErrInvalidRollingWindow,
		},
		{
			name:    "missing output path",
			mutate:  func(c *Config) { c.Explorer.Output.Path = "" },
			wantErr: ErrMissingOutputPath,
		},
		{
			name:    "no output formats",
			mutate:  func(c *Config) { c.Explorer.Output.Formats = nil },
			wantErr: ErrNoOutputFormats,
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Explorer.Output.Formats = []string{"pdf"} },
			wantErr: ErrInvalidOutputFormat,
		},
		{
			name:    "negative top regions",
			mutate:  func(c *Config) { c.Explorer.Output.TopRegions = -1 },
			wantErr: ErrInvalidTopRegions,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Explorer.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Explorer.Logging.Format = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchPolicy_GetRetryDelay(t *testing.T) {
	fp := &FetchPolicy{
		MaxAttempts:       5,
		InitialDelayMs:    100,
		MaxDelayMs:        350,
		BackoffMultiplier: 2.0,
	}

	if got := fp.GetRetryDelay(1); got != 0 {
		t.Errorf("GetRetryDelay(1) = %v, want 0", got)
	}

	if got := fp.GetRetryDelay(2); got != 100*time.Millisecond {
		t.Errorf("GetRetryDelay(2) = %v, want 100ms", got)
	}

	if got := fp.GetRetryDelay(3); got != 200*time.Millisecond {
		t.Errorf("GetRetryDelay(3) = %v, want 200ms", got)
	}

	// Capped at MaxDelayMs
	if got := fp.GetRetryDelay(4); got != 350*time.Millisecond {
		t.Errorf("GetRetryDelay(4) = %v, want 350ms", got)
	}
}

func TestFetchPolicy_GetTimeout(t *testing.T) {
	fp := &FetchPolicy{TimeoutSec: 30}

	if got := fp.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s", got)
	}
}
