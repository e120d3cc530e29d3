// Package config loads the gateway configuration from YAML with safe
// defaults for every field, so a missing file or a partial file still yields
// a runnable setup.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ragrelay/ragrelay/agent"
	"github.com/ragrelay/ragrelay/hyperliquid"
)

// Config is the process configuration. The truncation limit lives here once
// and is shared by every consumer.
type Config struct {
	Provider            string `yaml:"provider"`         // "openai" or "anthropic"
	CompletionModel     string `yaml:"completion_model"` // provider model id, empty for the adapter default
	EmbeddingModel      string `yaml:"embedding_model"`
	DocumentsDir        string `yaml:"documents_dir"`
	TopK                int    `yaml:"top_k"`
	MaxToolIterations   int    `yaml:"max_tool_iterations"`
	ResponseCharLimit   int    `yaml:"response_char_limit"`
	HyperliquidEndpoint string `yaml:"hyperliquid_endpoint"`
	LogLevel            string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat           string `yaml:"log_format"` // json or text
	LogFile             string `yaml:"log_file"`   // empty logs to stdout
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Provider:            "openai",
		DocumentsDir:        "documents",
		TopK:                agent.DefaultTopK,
		MaxToolIterations:   agent.DefaultMaxToolIterations,
		ResponseCharLimit:   agent.DefaultCharLimit,
		HyperliquidEndpoint: hyperliquid.DefaultEndpoint,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the gateway cannot run with.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.MaxToolIterations <= 0 {
		return fmt.Errorf("max_tool_iterations must be positive, got %d", c.MaxToolIterations)
	}
	if c.ResponseCharLimit <= len([]rune(agent.TruncationMarker)) {
		return fmt.Errorf("response_char_limit %d leaves no room for the truncation marker", c.ResponseCharLimit)
	}
	if c.HyperliquidEndpoint == "" {
		return fmt.Errorf("hyperliquid_endpoint must not be empty")
	}
	return nil
}

// SlogLevel maps the configured level name onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
