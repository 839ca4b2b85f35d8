// Package config loads canvashelper configuration from a YAML file with
// environment-variable overrides. Secrets (the Canvas access token) are
// normally supplied through the environment or a .env file rather than
// checked into the config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all canvashelper configuration.
type Config struct {
	// Canvas upstream API settings
	Canvas CanvasConfig `yaml:"canvas"`

	// MCP server settings
	Server ServerConfig `yaml:"server"`

	// Aggregation behavior
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// CanvasConfig configures the upstream Canvas API client.
type CanvasConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token"`

	// TermPrefix identifies the current academic term (e.g. "25-FS").
	// Courses whose term code does not start with this prefix are treated
	// as stale enrollments. Empty disables the filter.
	TermPrefix string `yaml:"term_prefix"`

	// Timeout for a single upstream request, as a duration string.
	Timeout string `yaml:"timeout"`
}

// ServerConfig configures the MCP HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AggregationConfig tunes the aggregation engine.
type AggregationConfig struct {
	// SummaryWindowHours is the deadline/announcement window used by the
	// today-summary tool.
	SummaryWindowHours int `yaml:"summary_window_hours"`

	// MaxConcurrentFetches bounds per-course fan-out. Zero means no limit.
	MaxConcurrentFetches int `yaml:"max_concurrent_fetches"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Timeout: "30s",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Aggregation: AggregationConfig{
			SummaryWindowHours:   48,
			MaxConcurrentFetches: 8,
		},
	}
}

// Load reads configuration from the given path, applying defaults for
// missing fields and environment overrides on top. A missing file is not
// an error; defaults plus environment are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets environment variables take precedence over file
// values. CANVAS_ACCESS_TOKEN is the usual way to supply the credential.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CANVAS_BASE_URL"); url != "" {
		c.Canvas.BaseURL = url
	}
	if token := os.Getenv("CANVAS_ACCESS_TOKEN"); token != "" {
		c.Canvas.AccessToken = token
	}
	if prefix := os.Getenv("CANVAS_TERM_PREFIX"); prefix != "" {
		c.Canvas.TermPrefix = prefix
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
}

// CanvasTimeout returns the upstream request timeout, falling back to 30s
// when the configured string is absent or unparseable.
func (c *Config) CanvasTimeout() time.Duration {
	d, err := time.ParseDuration(c.Canvas.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Validate checks that required fields are present and sane.
func (c *Config) Validate() error {
	if c.Canvas.BaseURL == "" {
		return fmt.Errorf("canvas.base_url is required (or set CANVAS_BASE_URL)")
	}
	if c.Canvas.AccessToken == "" {
		return fmt.Errorf("canvas.access_token is required (or set CANVAS_ACCESS_TOKEN)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Aggregation.SummaryWindowHours <= 0 {
		return fmt.Errorf("aggregation.summary_window_hours must be positive")
	}
	if c.Aggregation.MaxConcurrentFetches < 0 {
		return fmt.Errorf("aggregation.max_concurrent_fetches cannot be negative")
	}
	return nil
}
