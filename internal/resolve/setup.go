package resolve

import (
	"fmt"
	"log/slog"

	"github.com/dtnitsch/link-preview/internal/common"
	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/caching"
	"github.com/dtnitsch/link-preview/pkg/extractor"
	"github.com/dtnitsch/link-preview/pkg/fetcher"
	"github.com/dtnitsch/link-preview/pkg/native"
	"github.com/dtnitsch/link-preview/pkg/resolver"
	"github.com/urfave/cli/v2"
)

// loadConfig reads --config when given and applies flag overrides on top.
func loadConfig(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("strategy") {
		cfg.Strategy = c.String("strategy")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("timeout") {
		cfg.Fetch.Timeout = c.Duration("timeout")
	}
	if c.IsSet("ttl") {
		cfg.Cache.TTL = c.Duration("ttl")
	}
	if c.IsSet("max-entries") {
		cfg.Cache.MaxEntries = c.Int("max-entries")
	}
	if c.Bool("no-images") {
		cfg.Extract.IncludeImages = false
	}
	if c.Bool("detect-language") {
		cfg.Extract.DetectLanguage = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(c *cli.Context) *slog.Logger {
	return common.NewLogger(c.App.ErrWriter, c.Bool("quiet"), c.Bool("verbose"))
}

// newResolver wires the strategy named by cfg to a fresh cache.
func newResolver(cfg *models.Config, logger *slog.Logger) *resolver.Resolver {
	f := fetcher.NewFetcher(
		fetcher.WithTimeout(cfg.Fetch.Timeout),
		fetcher.WithMaxRedirects(cfg.Fetch.MaxRedirects),
		fetcher.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
		fetcher.WithUserAgent(cfg.Fetch.UserAgent),
	)

	var strategy resolver.Strategy
	switch cfg.Strategy {
	case models.StrategyDelegated:
		strategy = resolver.NewDelegated(native.NewReadability(f))
	default:
		var opts []extractor.Option
		if cfg.Extract.DetectLanguage {
			opts = append(opts, extractor.WithLanguageDetection())
		}
		strategy = resolver.NewDirect(f, extractor.New(opts...))
	}

	cache := caching.NewCache(
		caching.WithMaxEntries(cfg.Cache.MaxEntries),
		caching.WithDefaultTTL(cfg.Options().TTL),
	)

	return resolver.New(strategy, resolver.WithLogger(logger), resolver.WithCache(cache))
}
