// Package models defines the result vocabulary and runtime configuration.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StrategyDirect    = "direct"
	StrategyDelegated = "delegated"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are then overridden by CLI flags.
type Config struct {
	Strategy string        `yaml:"strategy"`
	Workers  int           `yaml:"workers"`
	DBPath   string        `yaml:"db_path"`
	Fetch    FetchConfig   `yaml:"fetch"`
	Cache    CacheConfig   `yaml:"cache"`
	Extract  ExtractConfig `yaml:"extract"`
}

// FetchConfig controls the HTTP fetcher.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRedirects int           `yaml:"max_redirects"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	UserAgent    string        `yaml:"user_agent"`
}

// CacheConfig controls the in-memory preview cache.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	MaxEntries    int           `yaml:"max_entries"`    // 0 = unbounded
	SweepInterval time.Duration `yaml:"sweep_interval"` // 0 = lazy expiry only
}

// ExtractConfig controls metadata extraction.
type ExtractConfig struct {
	IncludeImages  bool `yaml:"include_images"`
	DetectLanguage bool `yaml:"detect_language"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Strategy: StrategyDirect,
		Workers:  4,
		Fetch: FetchConfig{
			Timeout:      10 * time.Second,
			MaxRedirects: 10,
			MaxBodyBytes: 10 * 1024 * 1024,
			UserAgent:    "LinkPreviewBot/1.0",
		},
		Cache: CacheConfig{
			TTL: DefaultTTL,
		},
		Extract: ExtractConfig{
			IncludeImages: true,
		},
	}
}

// LoadConfig reads a YAML config file, expanding environment variables.
// Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyDirect, StrategyDelegated:
	default:
		return fmt.Errorf("invalid strategy %q: must be %q or %q", c.Strategy, StrategyDirect, StrategyDelegated)
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.Fetch.Timeout < 0 || c.Fetch.MaxRedirects < 0 || c.Fetch.MaxBodyBytes < 0 {
		return errors.New("fetch settings must not be negative")
	}
	if c.Cache.TTL < 0 || c.Cache.MaxEntries < 0 || c.Cache.SweepInterval < 0 {
		return errors.New("cache settings must not be negative")
	}
	return nil
}

// Options derives the per-call resolve options from the config.
func (c *Config) Options() Options {
	ttl := c.Cache.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return Options{
		TTL:           ttl,
		IncludeImages: c.Extract.IncludeImages,
	}
}
