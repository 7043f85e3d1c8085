package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/store"
)

func TestUpsertBook_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	book := &domain.Book{
		ID:            "vol-1",
		Title:         "The Left Hand of Darkness",
		Authors:       []string{"Ursula K. Le Guin"},
		Description:   "A novel.",
		PublishedDate: "1969",
		ImageLinks: domain.ImageLinks{
			Thumbnail: "https://books.google.com/thumb",
		},
		ISBN13:     "9780441478125",
		PageCount:  304,
		Categories: []string{"Fiction"},
		Language:   "en",
	}

	if err := s.UpsertBook(ctx, book, now); err != nil {
		t.Fatalf("upsert book: %v", err)
	}

	got, err := s.GetBook(ctx, "vol-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}

	if got.Title != book.Title {
		t.Errorf("title = %q, want %q", got.Title, book.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Ursula K. Le Guin" {
		t.Errorf("authors = %v", got.Authors)
	}
	if got.ImageLinks.Thumbnail != book.ImageLinks.Thumbnail {
		t.Errorf("thumbnail = %q", got.ImageLinks.Thumbnail)
	}
	if got.AccessCount != 0 {
		t.Errorf("new book should have access_count 0, got %d", got.AccessCount)
	}
	if got.LastAccessed == nil {
		t.Error("last_accessed should be set on insert")
	}
}

func TestUpsertBook_InvalidBook(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertBook(context.Background(), &domain.Book{ID: "x"}, time.Now())
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpsertBook_UpdateCountsAccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)

	if err := s.UpsertBook(ctx, testBook("vol-1", "Old Title"), t0); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Record some cache hits.
	for i := 0; i < 3; i++ {
		if err := s.TouchBook(ctx, "vol-1", t0.Add(time.Minute)); err != nil {
			t.Fatalf("touch: %v", err)
		}
	}

	first, err := s.GetBook(ctx, "vol-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}

	// Refresh from the provider with new metadata.
	t1 := time.Now()
	if err := s.UpsertBook(ctx, testBook("vol-1", "New Title"), t1); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetBook(ctx, "vol-1")
	if err != nil {
		t.Fatalf("get book after refresh: %v", err)
	}

	if got.Title != "New Title" {
		t.Errorf("title should be replaced, got %q", got.Title)
	}
	if got.AccessCount != first.AccessCount+1 {
		t.Errorf("access_count should count the refresh, got %d want %d",
			got.AccessCount, first.AccessCount+1)
	}
	if got.CreatedAt.After(first.CreatedAt.Add(time.Second)) {
		t.Errorf("created_at should survive refresh")
	}
	if got.LastAccessed == nil || !got.LastAccessed.After(t0.Add(30*time.Minute)) {
		t.Errorf("last_accessed should be reset on refresh, got %v", got.LastAccessed)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTouchBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	seedBooks(t, s, "vol-1")

	if err := s.TouchBook(ctx, "vol-1", now.Add(time.Minute)); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, err := s.GetBook(ctx, "vol-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.AccessCount != 1 {
		t.Errorf("access_count = %d, want 1", got.AccessCount)
	}

	// Touching a missing book reports not found.
	err = s.TouchBook(ctx, "missing", now)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBooks(t, s, "vol-1", "vol-2")

	books, err := s.GetBooks(ctx, []string{"vol-1", "vol-2", "missing"})
	if err != nil {
		t.Fatalf("get books: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if _, ok := books["missing"]; ok {
		t.Error("missing ID should be absent from result")
	}

	// Empty input short-circuits.
	books, err = s.GetBooks(ctx, nil)
	if err != nil {
		t.Fatalf("get books empty: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected empty map, got %d entries", len(books))
	}
}

func TestCountBooks(t *testing.T) {
	s := newTestStore(t)

	seedBooks(t, s, "vol-1", "vol-2", "vol-3")

	count, err := s.CountBooks(context.Background())
	if err != nil {
		t.Fatalf("count books: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
