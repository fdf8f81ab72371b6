package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// CacheStats summarizes the translation cache.
type CacheStats struct {
	Entries int
	Hits    int
	Oldest  *string
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetTranslation returns a cached translation of text into target.
func (db *DB) GetTranslation(text, target string) (string, bool, error) {
	h := hashText(text)
	var translated string
	err := db.conn.QueryRow(
		"SELECT translated FROM translations WHERE source_hash = ? AND target = ?",
		h, target,
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading translation: %w", err)
	}

	if _, err := db.conn.Exec(
		"UPDATE translations SET hits = hits + 1 WHERE source_hash = ? AND target = ?",
		h, target,
	); err != nil {
		return "", false, fmt.Errorf("counting cache hit: %w", err)
	}
	return translated, true, nil
}

// PutTranslation stores or replaces a translation.
func (db *DB) PutTranslation(text, target, translated, provider string) error {
	_, err := db.conn.Exec(`
INSERT INTO translations (source_hash, target, source_text, translated, provider)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(source_hash, target) DO UPDATE SET
    translated = excluded.translated,
    provider = excluded.provider,
    created_at = datetime('now')`,
		hashText(text), target, text, translated, provider,
	)
	if err != nil {
		return fmt.Errorf("storing translation: %w", err)
	}
	return nil
}

// GetCacheStats returns entry and hit counts for the cache.
func (db *DB) GetCacheStats() (*CacheStats, error) {
	s := &CacheStats{}
	var oldest sql.NullString
	err := db.conn.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(hits), 0), MIN(created_at) FROM translations",
	).Scan(&s.Entries, &s.Hits, &oldest)
	if err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}
	if oldest.Valid {
		s.Oldest = &oldest.String
	}
	return s, nil
}

// PruneTranslations deletes entries created before now-maxAge and returns
// how many were removed. A zero maxAge removes everything.
func (db *DB) PruneTranslations(maxAge time.Duration) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if maxAge <= 0 {
		res, err = db.conn.Exec("DELETE FROM translations")
	} else {
		cutoff := time.Now().UTC().Add(-maxAge).Format("2006-01-02 15:04:05")
		res, err = db.conn.Exec("DELETE FROM translations WHERE created_at < ?", cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("pruning translations: %w", err)
	}
	return res.RowsAffected()
}
