package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LP_AGENT", "TestBot/2.0")

	path := writeConfig(t, `
strategy: delegated
workers: 8
fetch:
  timeout: 3s
  user_agent: ${LP_AGENT}
cache:
  ttl: 1h
  max_entries: 500
extract:
  include_images: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Strategy != StrategyDelegated {
		t.Errorf("Strategy = %q, want %q", cfg.Strategy, StrategyDelegated)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 3s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.UserAgent != "TestBot/2.0" {
		t.Errorf("Fetch.UserAgent = %q, want expanded env value", cfg.Fetch.UserAgent)
	}
	// Unset keys keep defaults
	if cfg.Fetch.MaxRedirects != 10 {
		t.Errorf("Fetch.MaxRedirects = %d, want default 10", cfg.Fetch.MaxRedirects)
	}
	if cfg.Cache.MaxEntries != 500 {
		t.Errorf("Cache.MaxEntries = %d, want 500", cfg.Cache.MaxEntries)
	}

	opts := cfg.Options()
	if opts.TTL != time.Hour || opts.IncludeImages {
		t.Errorf("Options() = %+v, want TTL 1h and no images", opts)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown strategy", content: "strategy: native\n"},
		{name: "zero workers", content: "workers: 0\n"},
		{name: "negative ttl", content: "cache:\n  ttl: -1h\n"},
		{name: "malformed yaml", content: "fetch: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfig() error = nil, want error")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() error = nil, want error for missing file")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.TTL != 30*24*time.Hour {
		t.Errorf("TTL = %v, want 30 days", opts.TTL)
	}
	if !opts.IncludeImages {
		t.Error("IncludeImages = false, want true")
	}
}

func TestResultKinds(t *testing.T) {
	var r Result = StandardInfo{Title: "x"}
	if r.Kind() != KindStandard {
		t.Errorf("StandardInfo.Kind() = %q", r.Kind())
	}
	r = ImageInfo{Image: "https://example.com/a.png"}
	if r.Kind() != KindImage {
		t.Errorf("ImageInfo.Kind() = %q", r.Kind())
	}
}
