package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyreads/journey-server/internal/books"
	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/errors"
	"github.com/journeyreads/journey-server/internal/store/sqlite"
)

// fakeProvider is an in-memory books.Provider for tests.
type fakeProvider struct {
	mu          sync.Mutex
	books       map[string]*domain.Book
	searches    map[string][]domain.Book
	fetchErr    error
	fetchCalls  int
	searchCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		books:    make(map[string]*domain.Book),
		searches: make(map[string][]domain.Book),
	}
}

func (p *fakeProvider) add(bookID, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.books[bookID] = &domain.Book{ID: bookID, Title: title, Authors: []string{"Author"}}
}

func (p *fakeProvider) FetchByID(_ context.Context, bookID string) (*domain.Book, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetchCalls++
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	book, ok := p.books[bookID]
	if !ok {
		return nil, books.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (p *fakeProvider) Search(_ context.Context, query string, _ int) ([]domain.Book, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searchCalls++
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.searches[query], nil
}

func (p *fakeProvider) calls() (fetch, search int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchCalls, p.searchCalls
}

// newTestBookService wires a book service over a temp store and fake provider.
func newTestBookService(t *testing.T) (*BookService, *sqlite.Store, *fakeProvider) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	provider := newFakeProvider()
	logger := slog.New(slog.DiscardHandler)
	svc := NewBookService(st, provider, 64, 720*time.Hour, 24*time.Hour, logger)
	return svc, st, provider
}

func TestBookService_Resolve_CachesProviderResult(t *testing.T) {
	svc, _, provider := newTestBookService(t)
	ctx := context.Background()

	provider.add("vol-1", "Piranesi")

	book, err := svc.Resolve(ctx, "vol-1")
	require.NoError(t, err)
	assert.Equal(t, "Piranesi", book.Title)

	// Second resolve is served from cache.
	_, err = svc.Resolve(ctx, "vol-1")
	require.NoError(t, err)

	fetches, _ := provider.calls()
	assert.Equal(t, 1, fetches, "second resolve should not hit the provider")
}

func TestBookService_Resolve_NotFound(t *testing.T) {
	svc, _, _ := newTestBookService(t)

	_, err := svc.Resolve(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestBookService_Resolve_EmptyID(t *testing.T) {
	svc, _, _ := newTestBookService(t)

	_, err := svc.Resolve(context.Background(), "")
	assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
}

func TestBookService_Resolve_DurableCacheSurvivesHotEviction(t *testing.T) {
	svc, st, provider := newTestBookService(t)
	ctx := context.Background()

	provider.add("vol-1", "Piranesi")
	_, err := svc.Resolve(ctx, "vol-1")
	require.NoError(t, err)

	// Simulate a restart: fresh service, same store.
	svc2 := NewBookService(st, provider, 64, 720*time.Hour, 24*time.Hour, slog.New(slog.DiscardHandler))
	book, err := svc2.Resolve(ctx, "vol-1")
	require.NoError(t, err)
	assert.Equal(t, "Piranesi", book.Title)

	fetches, _ := provider.calls()
	assert.Equal(t, 1, fetches, "durable cache hit should not refetch")
}

func TestBookService_Resolve_StaleRefetches(t *testing.T) {
	svc, st, provider := newTestBookService(t)
	ctx := context.Background()

	// Seed the durable cache with an entry last touched beyond the TTL.
	old := time.Now().Add(-31 * 24 * time.Hour)
	stale := &domain.Book{ID: "vol-1", Title: "Old Title"}
	require.NoError(t, st.UpsertBook(ctx, stale, old))

	provider.add("vol-1", "New Title")

	book, err := svc.Resolve(ctx, "vol-1")
	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)

	fetches, _ := provider.calls()
	assert.Equal(t, 1, fetches)
}

func TestBookService_Resolve_ServesStaleWhenProviderDown(t *testing.T) {
	svc, st, provider := newTestBookService(t)
	ctx := context.Background()

	old := time.Now().Add(-31 * 24 * time.Hour)
	stale := &domain.Book{ID: "vol-1", Title: "Old Title"}
	require.NoError(t, st.UpsertBook(ctx, stale, old))

	provider.fetchErr = books.ErrUnavailable

	book, err := svc.Resolve(ctx, "vol-1")
	require.NoError(t, err)
	assert.Equal(t, "Old Title", book.Title)
}

func TestBookService_Resolve_ProviderDownNoCache(t *testing.T) {
	svc, _, provider := newTestBookService(t)

	provider.fetchErr = books.ErrUnavailable

	_, err := svc.Resolve(context.Background(), "vol-1")
	assert.True(t, errors.Is(err, errors.ErrResolution), "got %v", err)
}

func TestBookService_ResolveMany_PreservesOrder(t *testing.T) {
	svc, _, provider := newTestBookService(t)

	provider.add("a", "Book A")
	provider.add("b", "Book B")
	provider.add("c", "Book C")

	resolved, err := svc.ResolveMany(context.Background(), []string{"c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, resolved, 3)
	assert.Equal(t, "Book C", resolved[0].Title)
	assert.Equal(t, "Book A", resolved[1].Title)
	assert.Equal(t, "Book B", resolved[2].Title)
}

func TestBookService_ResolveMany_DropsMisses(t *testing.T) {
	svc, _, provider := newTestBookService(t)

	provider.add("a", "Book A")
	provider.add("c", "Book C")

	resolved, err := svc.ResolveMany(context.Background(), []string{"a", "missing", "c"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "Book A", resolved[0].Title)
	assert.Equal(t, "Book C", resolved[1].Title)
}

func TestBookService_ResolveMany_AllMisses(t *testing.T) {
	svc, _, _ := newTestBookService(t)

	resolved, err := svc.ResolveMany(context.Background(), []string{"missing-1", "missing-2"})
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestBookService_Search_CachesResults(t *testing.T) {
	svc, _, provider := newTestBookService(t)
	ctx := context.Background()

	provider.searches["le guin"] = []domain.Book{
		{ID: "vol-1", Title: "The Dispossessed"},
		{ID: "vol-2", Title: "The Lathe of Heaven"},
	}

	first, err := svc.Search(ctx, "le guin", 10)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := svc.Search(ctx, "le guin", 10)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)

	_, searches := provider.calls()
	assert.Equal(t, 1, searches, "second search should be served from cache")
}

func TestBookService_Search_CachesEmptyResults(t *testing.T) {
	svc, _, provider := newTestBookService(t)
	ctx := context.Background()

	results, err := svc.Search(ctx, "no such book anywhere", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(ctx, "no such book anywhere", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, searches := provider.calls()
	assert.Equal(t, 1, searches, "empty result should also be cached")
}

func TestBookService_Search_EmptyQuery(t *testing.T) {
	svc, _, _ := newTestBookService(t)

	_, err := svc.Search(context.Background(), "", 10)
	assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
}

func TestBookService_PurgeExpiredSearchCache(t *testing.T) {
	svc, st, provider := newTestBookService(t)
	ctx := context.Background()

	provider.searches["q"] = []domain.Book{{ID: "vol-1", Title: "T"}}
	_, err := svc.Search(ctx, "q", 10)
	require.NoError(t, err)

	// Nothing expired yet.
	purged, err := svc.PurgeExpiredSearchCache(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	// Force the entry to be expired.
	now := time.Now()
	require.NoError(t, st.PutSearchResults(ctx, "q", []string{"vol-1"}, now.Add(-25*time.Hour), now.Add(-time.Hour)))

	purged, err = svc.PurgeExpiredSearchCache(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}
