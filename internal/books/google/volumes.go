package google

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"

	"github.com/journeyreads/journey-server/internal/books"
	"github.com/journeyreads/journey-server/internal/domain"
)

// FetchByID returns the volume with the given ID.
func (c *Client) FetchByID(ctx context.Context, id string) (*domain.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("fetch volume: %w", books.ErrNotFound)
	}

	body, err := c.doRequest(ctx, "/volumes/"+url.PathEscape(id), url.Values{})
	if err != nil {
		return nil, fmt.Errorf("fetch volume %s: %w", id, err)
	}

	var raw rawVolume
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("fetch volume %s: parse response: %w", id, err)
	}

	book := raw.toDomain()
	if !book.Valid() {
		return nil, fmt.Errorf("fetch volume %s: incomplete volume data: %w", id, books.ErrNotFound)
	}
	return &book, nil
}

// Search returns volumes matching the free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = defaultMaxResults
	}
	if limit > maxMaxResults {
		limit = maxMaxResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}

	var raw rawVolumeList
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("search volumes: parse response: %w", err)
	}

	results := make([]domain.Book, 0, len(raw.Items))
	for i := range raw.Items {
		book := raw.Items[i].toDomain()
		// Volumes without an ID or title cannot be ranked or cached.
		if !book.Valid() {
			continue
		}
		results = append(results, book)
	}

	return results, nil
}
