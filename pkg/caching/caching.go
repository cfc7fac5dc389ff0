package caching

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/dtnitsch/link-preview/models"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Entry is a stored result and its expiry.
type Entry struct {
	Key       string
	Result    models.Result
	ExpiresAt time.Time
}

// Stats reports cache activity since construction or the last Clear.
type Stats struct {
	Entries   int   `json:"entries" yaml:"entries"`
	Hits      int64 `json:"hits" yaml:"hits"`
	Misses    int64 `json:"misses" yaml:"misses"`
	Evictions int64 `json:"evictions" yaml:"evictions"`
	Expired   int64 `json:"expired" yaml:"expired"`
}

// Cache is an in-memory result cache with per-entry TTL and an optional
// LRU size bound. It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	items      *simplelru.LRU[string, Entry]
	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time
	stats      Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries bounds the cache. When full, expired entries are dropped
// first, then the least recently used one. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithDefaultTTL sets the TTL used when Put is given a non-positive one.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.defaultTTL = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates an empty Cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		defaultTTL: models.DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	size := c.maxEntries
	if size == 0 {
		size = math.MaxInt
	}
	// Only fails for a non-positive size.
	c.items, _ = simplelru.NewLRU[string, Entry](size, nil)
	return c
}

// Get returns the stored result for key if it has not expired. Expired
// entries are removed.
func (c *Cache) Get(key string) (models.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items.Get(key)
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	if !c.now().Before(entry.ExpiresAt) {
		c.items.Remove(key)
		c.stats.Expired++
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	return entry.Result, true
}

// Peek is Get without side effects: hit and miss counters, recency order and
// expired entries are left untouched.
func (c *Cache) Peek(key string) (models.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items.Peek(key)
	if !ok || !c.now().Before(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Result, true
}

// Put stores result under key, replacing any existing entry. A non-positive
// ttl uses the default. A nil result is not stored.
func (c *Cache) Put(key string, result models.Result, ttl time.Duration) {
	if result == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(Entry{Key: key, Result: result, ExpiresAt: c.now().Add(ttl)})
}

// store must be called with c.mu held.
func (c *Cache) store(entry Entry) {
	if c.maxEntries > 0 && !c.items.Contains(entry.Key) && c.items.Len() >= c.maxEntries {
		c.sweepLocked()
		if c.items.Len() >= c.maxEntries {
			c.stats.Evictions++
		}
	}
	c.items.Add(entry.Key, entry)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Remove(key)
}

// Clear empties the cache and resets its counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Purge()
	c.stats = Stats{}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.items.Len()
	return s
}

// Sweep removes every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *Cache) sweepLocked() int {
	now := c.now()
	removed := 0
	for _, key := range c.items.Keys() {
		entry, ok := c.items.Peek(key)
		if ok && !now.Before(entry.ExpiresAt) {
			c.items.Remove(key)
			removed++
		}
	}
	c.stats.Expired += int64(removed)
	return removed
}

// StartSweeper removes expired entries every interval until ctx is done.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Snapshot returns the unexpired entries, least recently used first.
func (c *Cache) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entries := make([]Entry, 0, c.items.Len())
	for _, key := range c.items.Keys() {
		entry, ok := c.items.Peek(key)
		if ok && now.Before(entry.ExpiresAt) {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Restore loads entries, keeping their original expiry. Expired and nil
// entries are skipped. It returns how many were loaded.
func (c *Cache) Restore(entries []Entry) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	loaded := 0
	for _, entry := range entries {
		if entry.Result == nil || !now.Before(entry.ExpiresAt) {
			continue
		}
		c.store(entry)
		loaded++
	}
	return loaded
}
