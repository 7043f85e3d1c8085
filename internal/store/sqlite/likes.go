package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/store"
)

// ToggleLike flips the like state of a list for a user and keeps the
// denormalized like_count in step with the like rows, all in one
// transaction. Returns the resulting state and the new count.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) ToggleLike(ctx context.Context, userID, listID string, now time.Time) (liked bool, likeCount int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lists WHERE id = ?`, listID).Scan(&exists)
	if err != nil {
		return false, 0, err
	}
	if exists == 0 {
		return false, 0, store.ErrNotFound
	}

	var hasLike int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM list_likes WHERE user_id = ? AND list_id = ?`,
		userID, listID).Scan(&hasLike)
	if err != nil {
		return false, 0, err
	}

	if hasLike > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM list_likes WHERE user_id = ? AND list_id = ?`,
			userID, listID); err != nil {
			return false, 0, err
		}
		// MAX guards against a count that drifted below zero.
		if _, err := tx.ExecContext(ctx, `
			UPDATE lists SET like_count = MAX(like_count - 1, 0) WHERE id = ?`,
			listID); err != nil {
			return false, 0, err
		}
		liked = false
	} else {
		if err := insertLike(ctx, tx, userID, listID, now); err != nil {
			return false, 0, err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE lists SET like_count = like_count + 1 WHERE id = ?`,
			listID); err != nil {
			return false, 0, err
		}
		liked = true
	}

	err = tx.QueryRowContext(ctx,
		`SELECT like_count FROM lists WHERE id = ?`, listID).Scan(&likeCount)
	if err != nil {
		return false, 0, err
	}

	if err := tx.Commit(); err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}

// insertLike records a like row. A concurrent toggle that slipped in
// between the existence check and this insert trips the (user, list)
// uniqueness constraint and surfaces as store.ErrAlreadyExists so callers
// can tell the race from a plain failure.
func insertLike(ctx context.Context, tx *sql.Tx, userID, listID string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO list_likes (user_id, list_id, created_at)
		VALUES (?, ?, ?)`,
		userID, listID, formatTime(now))
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// IsLiked reports whether the user has liked the list.
func (s *Store) IsLiked(ctx context.Context, userID, listID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM list_likes WHERE user_id = ? AND list_id = ?`,
		userID, listID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikeCount returns the denormalized like count of a list.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) GetLikeCount(ctx context.Context, listID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT like_count FROM lists WHERE id = ?`, listID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListLikedLists returns the lists a user has liked, most recently liked
// first, with items loaded.
func (s *Store) ListLikedLists(ctx context.Context, userID string) ([]*domain.List, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listPrefixedColumns+`
		FROM lists l
		JOIN list_likes lk ON lk.list_id = l.id
		WHERE lk.user_id = ?
		ORDER BY lk.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, list := range lists {
		list.Items, err = s.loadItems(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("load items for %s: %w", list.ID, err)
		}
	}
	return lists, nil
}
