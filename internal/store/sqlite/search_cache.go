package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/journeyreads/journey-server/internal/store"
)

// GetSearchResults returns the cached book IDs for the exact query string.
// Expired entries are treated as absent.
// Returns store.ErrNotFound on a cache miss.
func (s *Store) GetSearchResults(ctx context.Context, query string, now time.Time) ([]string, error) {
	var results string
	err := s.db.QueryRowContext(ctx, `
		SELECT results FROM search_cache
		WHERE query = ? AND expires_at > ?`,
		query, formatTime(now)).Scan(&results)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(results), &ids); err != nil {
		return nil, fmt.Errorf("parse cached results: %w", err)
	}
	return ids, nil
}

// PutSearchResults replaces the cached entry for the query. Existing rows
// for the same query are deleted first so repeated searches refresh the
// expiry instead of accumulating rows.
func (s *Store) PutSearchResults(ctx context.Context, query string, ids []string, now, expiresAt time.Time) error {
	if ids == nil {
		ids = []string{}
	}
	results, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM search_cache WHERE query = ?`, query); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO search_cache (query, results, result_count, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		query,
		string(results),
		len(ids),
		formatTime(now),
		formatTime(expiresAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// PurgeExpiredSearchCache removes entries whose expiry has passed and
// returns how many were deleted.
func (s *Store) PurgeExpiredSearchCache(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM search_cache WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
