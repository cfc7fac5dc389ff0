package db

import (
	"fmt"
	"time"

	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/caching"
)

// SavePreviews upserts cache entries into the snapshot table.
func (db *DB) SavePreviews(entries []caching.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO previews (url, kind, title, description, image, icon, language, expires_at, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			description = excluded.description,
			image = excluded.image,
			icon = excluded.icon,
			language = excluded.language,
			expires_at = excluded.expires_at,
			stored_at = excluded.stored_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare preview insert: %w", err)
	}
	defer stmt.Close()

	// stored_at increases in slice order so LoadPreviews can replay it.
	storedAt := time.Now().UnixNano()
	for i, e := range entries {
		var info models.StandardInfo
		switch r := e.Result.(type) {
		case models.StandardInfo:
			info = r
		case models.ImageInfo:
			info.Image = r.Image
		default:
			continue
		}

		_, err := stmt.Exec(e.Key, string(e.Result.Kind()), info.Title, info.Description,
			info.Image, info.Icon, info.Language, e.ExpiresAt.UnixNano(), storedAt+int64(i))
		if err != nil {
			return fmt.Errorf("failed to save preview %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit previews: %w", err)
	}
	return nil
}

// LoadPreviews returns the snapshot entries still valid at now, in the order
// they were saved.
func (db *DB) LoadPreviews(now time.Time) ([]caching.Entry, error) {
	rows, err := db.Query(`
		SELECT url, kind, title, description, image, icon, language, expires_at
		FROM previews
		WHERE expires_at > ?
		ORDER BY stored_at ASC, url ASC
	`, now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query previews: %w", err)
	}
	defer rows.Close()

	var entries []caching.Entry
	for rows.Next() {
		var (
			key, kind string
			info      models.StandardInfo
			expiresAt int64
		)
		if err := rows.Scan(&key, &kind, &info.Title, &info.Description, &info.Image,
			&info.Icon, &info.Language, &expiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan preview: %w", err)
		}

		var result models.Result
		switch models.Kind(kind) {
		case models.KindStandard:
			result = info
		case models.KindImage:
			result = models.ImageInfo{Image: info.Image}
		default:
			continue
		}

		entries = append(entries, caching.Entry{
			Key:       key,
			Result:    result,
			ExpiresAt: time.Unix(0, expiresAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read previews: %w", err)
	}

	return entries, nil
}

// PrunePreviews deletes entries expired at now and returns how many went.
func (db *DB) PrunePreviews(now time.Time) (int64, error) {
	res, err := db.Exec("DELETE FROM previews WHERE expires_at <= ?", now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune previews: %w", err)
	}
	return res.RowsAffected()
}

func (db *DB) ClearPreviews() (int64, error) {
	res, err := db.Exec("DELETE FROM previews")
	if err != nil {
		return 0, fmt.Errorf("failed to clear previews: %w", err)
	}
	return res.RowsAffected()
}

// PreviewCounts splits the snapshot into live and expired rows.
type PreviewCounts struct {
	Live    int `json:"live" yaml:"live"`
	Expired int `json:"expired" yaml:"expired"`
}

func (db *DB) CountPreviews(now time.Time) (PreviewCounts, error) {
	var c PreviewCounts
	err := db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN expires_at > ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM previews
	`, now.UnixNano(), now.UnixNano()).Scan(&c.Live, &c.Expired)
	if err != nil {
		return PreviewCounts{}, fmt.Errorf("failed to count previews: %w", err)
	}
	return c, nil
}
