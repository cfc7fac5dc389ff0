package db

import (
	"fmt"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Access is one recorded resolution attempt.
type Access struct {
	ID           int64     `json:"id" yaml:"id"`
	URL          string    `json:"url" yaml:"url"`
	Status       string    `json:"status" yaml:"status"`
	Category     string    `json:"category,omitempty" yaml:"category,omitempty"`
	ErrorMessage string    `json:"error,omitempty" yaml:"error,omitempty"`
	CacheHit     bool      `json:"cache_hit" yaml:"cache_hit"`
	DurationMS   int64     `json:"duration_ms" yaml:"duration_ms"`
	AccessedAt   time.Time `json:"accessed_at" yaml:"accessed_at"`
}

// RecordAccess appends a resolution attempt. A zero AccessedAt means now.
func (db *DB) RecordAccess(a Access) error {
	if a.AccessedAt.IsZero() {
		a.AccessedAt = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO accesses (url, status, category, error_message, cache_hit, duration_ms, accessed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.URL, a.Status, a.Category, a.ErrorMessage, a.CacheHit, a.DurationMS, a.AccessedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// ListAccesses returns the most recent attempts first. limit <= 0 means all.
func (db *DB) ListAccesses(limit int) ([]Access, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.Query(`
		SELECT access_id, url, status, category, error_message, cache_hit, duration_ms, accessed_at
		FROM accesses
		ORDER BY accessed_at DESC, access_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query accesses: %w", err)
	}
	defer rows.Close()

	var accesses []Access
	for rows.Next() {
		var (
			a          Access
			accessedAt int64
		)
		if err := rows.Scan(&a.ID, &a.URL, &a.Status, &a.Category, &a.ErrorMessage,
			&a.CacheHit, &a.DurationMS, &accessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan access: %w", err)
		}
		a.AccessedAt = time.Unix(0, accessedAt)
		accesses = append(accesses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accesses: %w", err)
	}

	return accesses, nil
}
