// Package resolver turns URLs into preview results, serving repeats from a
// TTL cache and coalescing concurrent misses for the same URL into a single
// fetch.
package resolver

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/caching"
	"golang.org/x/sync/singleflight"
)

type Resolver struct {
	strategy Strategy
	cache    *caching.Cache
	group    singleflight.Group
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCache injects the cache. Without it the Resolver owns a fresh,
// unbounded one.
func WithCache(c *caching.Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

func New(strategy Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategy: strategy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = caching.NewCache()
	}
	return r
}

// Resolve returns the preview result for rawURL. A cached result is returned
// without touching the network. On a miss the URL must be http or https.
// Concurrent misses for the same URL share one underlying resolution.
//
// If ctx is done first, Resolve returns ctx.Err() but the resolution keeps
// running and still populates the cache.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, opts models.Options) (models.Result, error) {
	key := strings.TrimSpace(rawURL)

	if result, ok := r.cache.Get(key); ok {
		r.logger.Debug("Cache hit", "url", key, "kind", result.Kind())
		return result, nil
	}

	if err := validateScheme(key); err != nil {
		return nil, err
	}

	flight := r.group.DoChan(key, func() (any, error) {
		return r.resolveMiss(context.WithoutCancel(ctx), key, opts)
	})

	select {
	case <-ctx.Done():
		r.logger.Debug("Caller abandoned resolution", "url", key, "error", ctx.Err())
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(models.Result), nil
	}
}

// resolveMiss runs once per in-flight key.
func (r *Resolver) resolveMiss(ctx context.Context, key string, opts models.Options) (models.Result, error) {
	// A flight for this key may have completed between the caller's cache
	// read and this flight starting.
	if result, ok := r.cache.Peek(key); ok {
		return result, nil
	}

	start := time.Now()
	r.logger.Info("Cache miss, resolving", "url", key)

	result, err := r.strategy.Resolve(ctx, key, opts)
	if err != nil {
		rerr := classify(key, err)
		r.logger.Warn("Resolution failed", "url", key, "category", rerr.Category(), "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, rerr
	}

	r.cache.Put(key, result, opts.TTL)
	r.logger.Info("Resolved", "url", key, "kind", result.Kind(), "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// Peek returns the cached result for rawURL, or nil. It never fetches and
// does not count toward cache stats.
func (r *Resolver) Peek(rawURL string) models.Result {
	result, _ := r.cache.Peek(strings.TrimSpace(rawURL))
	return result
}

// Clear drops every cached result.
func (r *Resolver) Clear() {
	r.cache.Clear()
}

// Cache exposes the underlying cache for snapshots and stats.
func (r *Resolver) Cache() *caching.Cache {
	return r.cache
}

func validateScheme(key string) error {
	u, err := url.Parse(key)
	if err != nil {
		return &Error{Kind: ErrUnsupportedScheme, URL: key, Err: err}
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return &Error{Kind: ErrUnsupportedScheme, URL: key}
	}
	if u.Host == "" {
		return &Error{Kind: ErrUnsupportedScheme, URL: key, Err: errMissingHost}
	}
	return nil
}
