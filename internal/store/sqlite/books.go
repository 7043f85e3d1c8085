package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, authors, description, published_date,
	small_thumbnail, thumbnail, medium, large, extra_large,
	isbn10, isbn13, page_count, categories, language,
	preview_link, info_link, canonical_link,
	last_accessed, access_count, created_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.CachedBook.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.CachedBook, error) {
	var b domain.CachedBook

	var (
		authors      string
		categories   string
		lastAccessed sql.NullString
		createdAt    string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&authors,
		&b.Description,
		&b.PublishedDate,
		&b.ImageLinks.SmallThumbnail,
		&b.ImageLinks.Thumbnail,
		&b.ImageLinks.Medium,
		&b.ImageLinks.Large,
		&b.ImageLinks.ExtraLarge,
		&b.ISBN10,
		&b.ISBN13,
		&b.PageCount,
		&categories,
		&b.Language,
		&b.PreviewLink,
		&b.InfoLink,
		&b.CanonicalLink,
		&lastAccessed,
		&b.AccessCount,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(authors), &b.Authors); err != nil {
		return nil, fmt.Errorf("parse authors: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &b.Categories); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	b.LastAccessed, err = parseNullableTime(lastAccessed)
	if err != nil {
		return nil, err
	}
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// marshalStrings encodes a string slice as a JSON array, never NULL.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UpsertBook inserts or refreshes a cached book. On conflict the metadata
// columns are replaced, last_accessed is reset, and access_count is
// incremented; created_at keeps its existing value.
func (s *Store) UpsertBook(ctx context.Context, book *domain.Book, now time.Time) error {
	if !book.Valid() {
		return store.ErrInvalidInput.WithCause(fmt.Errorf("book %q missing id or title", book.ID))
	}

	authors, err := marshalStrings(book.Authors)
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	categories, err := marshalStrings(book.Categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, title, authors, description, published_date,
			small_thumbnail, thumbnail, medium, large, extra_large,
			isbn10, isbn13, page_count, categories, language,
			preview_link, info_link, canonical_link,
			last_accessed, access_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			description = excluded.description,
			published_date = excluded.published_date,
			small_thumbnail = excluded.small_thumbnail,
			thumbnail = excluded.thumbnail,
			medium = excluded.medium,
			large = excluded.large,
			extra_large = excluded.extra_large,
			isbn10 = excluded.isbn10,
			isbn13 = excluded.isbn13,
			page_count = excluded.page_count,
			categories = excluded.categories,
			language = excluded.language,
			preview_link = excluded.preview_link,
			info_link = excluded.info_link,
			canonical_link = excluded.canonical_link,
			last_accessed = excluded.last_accessed,
			access_count = books.access_count + 1`,
		book.ID,
		book.Title,
		authors,
		book.Description,
		book.PublishedDate,
		book.ImageLinks.SmallThumbnail,
		book.ImageLinks.Thumbnail,
		book.ImageLinks.Medium,
		book.ImageLinks.Large,
		book.ImageLinks.ExtraLarge,
		book.ISBN10,
		book.ISBN13,
		book.PageCount,
		categories,
		book.Language,
		book.PreviewLink,
		book.InfoLink,
		book.CanonicalLink,
		formatTime(now),
		formatTime(now),
	)
	return err
}

// GetBook retrieves a cached book by provider ID.
// Returns store.ErrNotFound if the book is not cached.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.CachedBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBooks retrieves cached books for the given IDs. Missing IDs are
// simply absent from the result map.
func (s *Store) GetBooks(ctx context.Context, ids []string) (map[string]*domain.CachedBook, error) {
	books := make(map[string]*domain.CachedBook, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books[book.ID] = book
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// TouchBook records a cache hit by bumping last_accessed and access_count.
// Returns store.ErrNotFound if the book is not cached.
func (s *Store) TouchBook(ctx context.Context, id string, now time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET last_accessed = ?, access_count = access_count + 1
		WHERE id = ?`,
		formatTime(now), id)
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

// CountBooks returns the number of cached books.
func (s *Store) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	return count, err
}
