// Package domain contains the core business entities and domain logic for Journey reading lists.
package domain

import "time"

// Book is the provider-assigned projection of a volume we render in lists.
// ID comes from the external metadata provider and is the only join key we
// ever persist; everything else is display metadata.
type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Authors       []string   `json:"authors,omitempty"`
	Description   string     `json:"description,omitempty"`
	PublishedDate string     `json:"published_date,omitempty"`
	ImageLinks    ImageLinks `json:"image_links"`
	ISBN10        string     `json:"isbn10,omitempty"`
	ISBN13        string     `json:"isbn13,omitempty"`
	PageCount     int        `json:"page_count,omitempty"`
	Categories    []string   `json:"categories,omitempty"`
	Language      string     `json:"language,omitempty"`
	PreviewLink   string     `json:"preview_link,omitempty"`
	InfoLink      string     `json:"info_link,omitempty"`
	CanonicalLink string     `json:"canonical_link,omitempty"`
}

// ImageLinks holds cover URLs at the resolutions the provider offers.
type ImageLinks struct {
	SmallThumbnail string `json:"small_thumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
	ExtraLarge     string `json:"extra_large,omitempty"`
}

// Valid reports whether the book can be cached: a provider ID and a title
// are the minimum we accept.
func (b *Book) Valid() bool {
	return b.ID != "" && b.Title != ""
}

// BestCover returns the highest-resolution cover URL available.
func (b *Book) BestCover() string {
	links := b.ImageLinks
	for _, u := range []string{links.ExtraLarge, links.Large, links.Medium, links.Thumbnail, links.SmallThumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}

// CachedBook is a Book together with its cache bookkeeping. LastAccessed is
// nil for rows written before access tracking existed; those are treated as
// fresh forever rather than stampeding the provider.
type CachedBook struct {
	Book
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	AccessCount  int64      `json:"access_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Fresh reports whether the cached record is within the retention window
// relative to now. A record with no recorded access time never expires.
func (c *CachedBook) Fresh(now time.Time, retention time.Duration) bool {
	if c.LastAccessed == nil {
		return true
	}
	return now.Sub(*c.LastAccessed) <= retention
}
