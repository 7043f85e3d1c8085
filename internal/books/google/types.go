package google

import (
	"strings"

	"github.com/journeyreads/journey-server/internal/domain"
)

// Raw API response types (internal)

type rawVolume struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title               string          `json:"title"`
	Authors             []string        `json:"authors"`
	Description         string          `json:"description"`
	PublishedDate       string          `json:"publishedDate"`
	ImageLinks          rawImageLinks   `json:"imageLinks"`
	IndustryIdentifiers []rawIdentifier `json:"industryIdentifiers"`
	PageCount           int             `json:"pageCount"`
	Categories          []string        `json:"categories"`
	Language            string          `json:"language"`
	PreviewLink         string          `json:"previewLink"`
	InfoLink            string          `json:"infoLink"`
	CanonicalVolumeLink string          `json:"canonicalVolumeLink"`
}

type rawImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
	ExtraLarge     string `json:"extraLarge"`
}

type rawIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type rawVolumeList struct {
	Items      []rawVolume `json:"items"`
	TotalItems int         `json:"totalItems"`
}

// toDomain converts an API volume to the domain model.
func (v *rawVolume) toDomain() domain.Book {
	info := &v.VolumeInfo

	book := domain.Book{
		ID:            v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   info.Description,
		PublishedDate: info.PublishedDate,
		ImageLinks: domain.ImageLinks{
			SmallThumbnail: secureImageURL(info.ImageLinks.SmallThumbnail),
			Thumbnail:      secureImageURL(info.ImageLinks.Thumbnail),
			Medium:         secureImageURL(info.ImageLinks.Medium),
			Large:          secureImageURL(info.ImageLinks.Large),
			ExtraLarge:     secureImageURL(info.ImageLinks.ExtraLarge),
		},
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		Language:      info.Language,
		PreviewLink:   info.PreviewLink,
		InfoLink:      info.InfoLink,
		CanonicalLink: info.CanonicalVolumeLink,
	}

	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			book.ISBN10 = ident.Identifier
		case "ISBN_13":
			book.ISBN13 = ident.Identifier
		}
	}

	return book
}

// secureImageURL rewrites plain-HTTP Google Books image links to HTTPS.
// The API still hands out http:// links which browsers block as mixed
// content.
func secureImageURL(u string) string {
	if strings.HasPrefix(u, "http://books.google.com") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
