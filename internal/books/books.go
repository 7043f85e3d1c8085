// Package books defines the metadata provider contract for book lookups.
package books

import (
	"context"
	"errors"

	"github.com/journeyreads/journey-server/internal/domain"
)

// Sentinel errors for provider operations.
var (
	// ErrNotFound means the provider has no volume with the given ID.
	ErrNotFound = errors.New("books: not found")
	// ErrUnavailable means the provider could not be reached or answered
	// with a server error. Cached data should be served instead when present.
	ErrUnavailable = errors.New("books: provider unavailable")
)

// Provider fetches book metadata from an upstream catalog.
type Provider interface {
	// FetchByID returns the volume with the given provider ID.
	// Returns ErrNotFound if no such volume exists.
	FetchByID(ctx context.Context, id string) (*domain.Book, error)

	// Search returns volumes matching the free-text query, most
	// relevant first. An empty result is not an error.
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
}
