package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/store"
)

// listColumns is the ordered list of columns selected in list queries.
// Must match the scan order in scanList.
const listColumns = `id, slug, title, description, owner_id, is_public, is_anonymous,
	like_count, expires_at, created_at, updated_at`

// scanList scans a sql.Row (or sql.Rows via its Scan method) into a domain.List.
func scanList(scanner interface{ Scan(dest ...any) error }) (*domain.List, error) {
	var l domain.List

	var (
		ownerID     sql.NullString
		isPublic    int
		isAnonymous int
		expiresAt   sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&l.ID,
		&l.Slug,
		&l.Title,
		&l.Description,
		&ownerID,
		&isPublic,
		&isAnonymous,
		&l.LikeCount,
		&expiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.OwnerID = ownerID.String
	l.IsPublic = isPublic != 0
	l.IsAnonymous = isAnonymous != 0

	l.ExpiresAt, err = parseNullableTime(expiresAt)
	if err != nil {
		return nil, err
	}
	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// loadItems loads the ordered items of a list.
func (s *Store) loadItems(ctx context.Context, listID string) ([]domain.ListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, position, note FROM list_items
		WHERE list_id = ? ORDER BY position`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ListItem
	for rows.Next() {
		var item domain.ListItem
		if err := rows.Scan(&item.BookID, &item.Position, &item.Note); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateList inserts a list and its items in a transaction.
// Returns store.ErrAlreadyExists when the slug or ID is already taken.
func (s *Store) CreateList(ctx context.Context, list *domain.List) error {
	if len(list.Items) == 0 || len(list.Items) > domain.MaxListSize {
		return store.ErrInvalidInput.WithCause(
			fmt.Errorf("list must hold between 1 and %d items, got %d", domain.MaxListSize, len(list.Items)))
	}
	if !list.Contiguous() {
		return store.ErrInvalidInput.WithCause(fmt.Errorf("list item positions must be contiguous from 0"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lists (
			id, slug, title, description, owner_id, is_public, is_anonymous,
			like_count, expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID,
		list.Slug,
		list.Title,
		list.Description,
		nullString(list.OwnerID),
		boolToInt(list.IsPublic),
		boolToInt(list.IsAnonymous),
		list.LikeCount,
		nullTimeString(list.ExpiresAt),
		formatTime(list.CreatedAt),
		formatTime(list.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	for _, item := range list.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO list_items (list_id, book_id, position, note, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			list.ID, item.BookID, item.Position, item.Note, formatTime(list.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert list item %s: %w", item.BookID, err)
		}
	}

	return tx.Commit()
}

// GetList retrieves a list by ID and loads its items.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) GetList(ctx context.Context, id string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE id = ?`, id)
	return s.finishList(ctx, row)
}

// GetListBySlug retrieves a list by slug and loads its items.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) GetListBySlug(ctx context.Context, slug string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE slug = ?`, slug)
	return s.finishList(ctx, row)
}

// GetListByHandleAndSlug retrieves a public list owned by the user with the
// given handle. Returns store.ErrNotFound if no such list exists.
func (s *Store) GetListByHandleAndSlug(ctx context.Context, handle, slug string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+listPrefixedColumns+`
		FROM lists l
		JOIN users u ON u.id = l.owner_id
		WHERE u.handle = ? AND l.slug = ? AND l.is_public = 1`,
		handle, slug)
	return s.finishList(ctx, row)
}

// listPrefixedColumns mirrors listColumns with a table alias for joins.
const listPrefixedColumns = `l.id, l.slug, l.title, l.description, l.owner_id, l.is_public, l.is_anonymous,
	l.like_count, l.expires_at, l.created_at, l.updated_at`

func (s *Store) finishList(ctx context.Context, row *sql.Row) (*domain.List, error) {
	list, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	list.Items, err = s.loadItems(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("load list items: %w", err)
	}
	return list, nil
}

// ListListsByOwner returns all lists owned by a user, newest first, with
// items loaded.
func (s *Store) ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
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

// ListPopularLists returns public lists ordered by like count, most liked
// first, with items loaded.
func (s *Store) ListPopularLists(ctx context.Context, limit int) ([]*domain.List, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listColumns+` FROM lists
		WHERE is_public = 1
		ORDER BY like_count DESC, created_at DESC
		LIMIT ?`, limit)
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

// DeleteList hard-deletes a list. Items and likes are removed via
// ON DELETE CASCADE. Returns store.ErrNotFound if the list does not exist.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PurgeExpiredAnonymousLists removes anonymous lists whose expiry has
// passed and returns how many were deleted.
func (s *Store) PurgeExpiredAnonymousLists(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM lists
		WHERE is_anonymous = 1 AND expires_at IS NOT NULL AND expires_at <= ?`,
		formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ReleaseSlugs deletes the lists holding the given slugs, freeing them for
// reuse. Only unliked anonymous lists are released; owned or liked lists
// keep their slugs. Returns how many lists were deleted.
func (s *Store) ReleaseSlugs(ctx context.Context, slugs []string) (int64, error) {
	if len(slugs) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(slugs)), ",")
	args := make([]any, len(slugs))
	for i, slug := range slugs {
		args[i] = slug
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM lists
		 WHERE slug IN (`+placeholders+`)
		   AND is_anonymous = 1
		   AND like_count = 0`, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
