package models

import "time"

// DefaultTTL is used when a caller does not specify a TTL.
const DefaultTTL = 30 * 24 * time.Hour

// Options are supplied per Resolve call and never persisted.
type Options struct {
	TTL           time.Duration
	IncludeImages bool
}

// DefaultOptions returns the options used by the CLI when no flags are given.
func DefaultOptions() Options {
	return Options{
		TTL:           DefaultTTL,
		IncludeImages: true,
	}
}
