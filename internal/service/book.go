// Package service implements the application logic between the HTTP API
// and the store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/journeyreads/journey-server/internal/books"
	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/errors"
	"github.com/journeyreads/journey-server/internal/store"
	"github.com/journeyreads/journey-server/internal/store/sqlite"
)

const (
	// hotTTL bounds the in-process tier well below the durable cache
	// window so a refresh in one replica is picked up quickly.
	hotTTL = 5 * time.Minute

	// resolveConcurrency caps parallel provider lookups per request.
	resolveConcurrency = 4

	defaultSearchLimit = 10
	maxSearchLimit     = 40
)

// BookService resolves book metadata through a layered cache: an
// in-process hot tier, the durable SQLite cache, and finally the
// upstream provider.
type BookService struct {
	store    *sqlite.Store
	provider books.Provider
	hot      *expirable.LRU[string, *domain.Book]
	logger   *slog.Logger

	bookTTL   time.Duration
	searchTTL time.Duration
}

// NewBookService creates a new book service.
func NewBookService(st *sqlite.Store, provider books.Provider, hotSize int, bookTTL, searchTTL time.Duration, logger *slog.Logger) *BookService {
	if hotSize <= 0 {
		hotSize = 512
	}
	return &BookService{
		store:     st,
		provider:  provider,
		hot:       expirable.NewLRU[string, *domain.Book](hotSize, nil, hotTTL),
		logger:    logger,
		bookTTL:   bookTTL,
		searchTTL: searchTTL,
	}
}

// Resolve returns the book with the given provider ID, consulting the hot
// tier, then the durable cache, then the provider. A fresh cache hit
// records bookkeeping without blocking the response path on it; a stale
// entry is refreshed from the provider, falling back to the stale copy
// when the provider is unreachable.
func (s *BookService) Resolve(ctx context.Context, bookID string) (*domain.Book, error) {
	if bookID == "" {
		return nil, errors.Validation("book ID is required")
	}

	if book, ok := s.hot.Get(bookID); ok {
		s.touchAsync(bookID)
		return book, nil
	}

	now := time.Now()

	cached, err := s.store.GetBook(ctx, bookID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, errors.CodeInternal, "read book cache")
	}

	if cached != nil && cached.Fresh(now, s.bookTTL) {
		s.hot.Add(bookID, &cached.Book)
		s.touchAsync(bookID)
		return &cached.Book, nil
	}

	// Cache miss or stale entry: go to the provider.
	book, err := s.provider.FetchByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		if cached != nil {
			// Serve the stale copy rather than failing the request.
			s.logger.Warn("provider unavailable, serving stale book",
				"book_id", bookID, "error", err)
			return &cached.Book, nil
		}
		return nil, errors.Resolution("fetch book metadata").WithCause(err)
	}

	if err := s.store.UpsertBook(ctx, book, now); err != nil {
		// The caller still gets their book; the cache just missed a write.
		s.logger.Warn("failed to cache book", "book_id", bookID, "error", err)
	}
	s.hot.Add(bookID, book)

	return book, nil
}

// ResolveMany resolves the given IDs in parallel, preserving input order.
// IDs that fail to resolve are dropped, so the result may be shorter than
// the input.
func (s *BookService) ResolveMany(ctx context.Context, bookIDs []string) ([]domain.Book, error) {
	resolved := make([]*domain.Book, len(bookIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for i, bookID := range bookIDs {
		g.Go(func() error {
			book, err := s.Resolve(ctx, bookID)
			if err != nil {
				if !errors.Is(err, errors.ErrNotFound) {
					s.logger.Warn("dropping unresolvable book", "book_id", bookID, "error", err)
				}
				return nil
			}
			resolved[i] = book
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]domain.Book, 0, len(bookIDs))
	for _, book := range resolved {
		if book != nil {
			results = append(results, *book)
		}
	}
	return results, nil
}

// Search returns books matching the query. Results for the exact query
// string are cached for the configured search TTL; hits are served from
// the durable book cache without touching the provider.
func (s *BookService) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	if query == "" {
		return nil, errors.Validation("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	now := time.Now()

	ids, err := s.store.GetSearchResults(ctx, query, now)
	if err == nil {
		results, ok := s.loadCachedResults(ctx, ids)
		if ok {
			return results, nil
		}
		// A referenced book fell out of the cache; redo the search.
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("search cache read failed", "error", err)
	}

	found, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, errors.Resolution("search books").WithCause(err)
	}

	resultIDs := make([]string, 0, len(found))
	for i := range found {
		book := &found[i]
		if err := s.store.UpsertBook(ctx, book, now); err != nil {
			s.logger.Warn("failed to cache search result", "book_id", book.ID, "error", err)
			continue
		}
		resultIDs = append(resultIDs, book.ID)
	}

	// Empty result sets are cached too, so repeated misses stay cheap.
	if err := s.store.PutSearchResults(ctx, query, resultIDs, now, now.Add(s.searchTTL)); err != nil {
		s.logger.Warn("failed to cache search results", "query", query, "error", err)
	}

	return found, nil
}

// loadCachedResults hydrates cached search IDs from the book cache,
// preserving result order. Returns ok=false when any book is missing.
func (s *BookService) loadCachedResults(ctx context.Context, ids []string) ([]domain.Book, bool) {
	if len(ids) == 0 {
		return []domain.Book{}, true
	}

	cached, err := s.store.GetBooks(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load cached search results", "error", err)
		return nil, false
	}

	results := make([]domain.Book, 0, len(ids))
	for _, bookID := range ids {
		book, ok := cached[bookID]
		if !ok {
			return nil, false
		}
		results = append(results, book.Book)
	}
	return results, true
}

// PurgeExpiredSearchCache drops expired search cache rows.
func (s *BookService) PurgeExpiredSearchCache(ctx context.Context) (int64, error) {
	return s.store.PurgeExpiredSearchCache(ctx, time.Now())
}

// touchAsync records a cache hit without holding up the request.
// Bookkeeping is best effort; a failed touch only skews access stats.
func (s *BookService) touchAsync(bookID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.TouchBook(ctx, bookID, time.Now()); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("touch book failed", "book_id", bookID, "error", err)
		}
	}()
}
