package resolve

import (
	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/caching"
)

const (
	statusSuccess        = "success"
	statusPartialFailure = "partial_failure"
	statusFailed         = "failed"
	statusPending        = "pending"
	statusCached         = "cached"
)

type Job struct {
	Index int
	URL   string
}

// Result holds the outcome of one resolved URL.
type Result struct {
	URL      string
	Preview  models.Result
	Error    error
	CacheHit bool
	Duration int64 // milliseconds
}

// ResultOutput is the printed form of a single URL.
type ResultOutput struct {
	URL        string        `json:"url" yaml:"url"`
	Status     string        `json:"status" yaml:"status"`
	Kind       models.Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Preview    models.Result `json:"preview,omitempty" yaml:"preview,omitempty"`
	Category   string        `json:"category,omitempty" yaml:"category,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	CacheHit   bool          `json:"cache_hit" yaml:"cache_hit"`
	DurationMS int64         `json:"duration_ms" yaml:"duration_ms"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status" yaml:"status"`
	Results []ResultOutput `json:"results" yaml:"results"`
	Stats   Stats          `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int           `json:"total_urls" yaml:"total_urls"`
	Successful       int           `json:"successful" yaml:"successful"`
	Failed           int           `json:"failed" yaml:"failed"`
	TotalTimeSeconds float64       `json:"total_time_seconds" yaml:"total_time_seconds"`
	Cache            caching.Stats `json:"cache" yaml:"cache"`
}

// PeekOutput is printed by the peek command.
type PeekOutput struct {
	URL     string        `json:"url" yaml:"url"`
	Status  string        `json:"status" yaml:"status"`
	Preview models.Result `json:"preview,omitempty" yaml:"preview,omitempty"`
}
