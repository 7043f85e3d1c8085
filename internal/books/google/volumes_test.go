package google

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/journeyreads/journey-server/internal/books"
)

const volumeFixture = `{
	"id": "zyTCAlFPjgYC",
	"volumeInfo": {
		"title": "The Google Story",
		"authors": ["David A. Vise", "Mark Malseed"],
		"description": "The story of Google.",
		"publishedDate": "2005-11-15",
		"imageLinks": {
			"smallThumbnail": "http://books.google.com/books/content?id=zyTCAlFPjgYC&zoom=5",
			"thumbnail": "http://books.google.com/books/content?id=zyTCAlFPjgYC&zoom=1"
		},
		"industryIdentifiers": [
			{"type": "ISBN_10", "identifier": "055380457X"},
			{"type": "ISBN_13", "identifier": "9780553804577"}
		],
		"pageCount": 207,
		"categories": ["Business & Economics"],
		"language": "en",
		"previewLink": "http://books.google.com/books?id=zyTCAlFPjgYC",
		"infoLink": "http://books.google.com/books?id=zyTCAlFPjgYC&source=gbs_api",
		"canonicalVolumeLink": "https://books.google.com/books/about/The_Google_Story.html"
	}
}`

const searchFixture = `{
	"totalItems": 3,
	"items": [
		{"id": "vol-1", "volumeInfo": {"title": "First Book", "authors": ["A"]}},
		{"id": "vol-2", "volumeInfo": {"title": "Second Book"}},
		{"id": "", "volumeInfo": {"title": "No ID"}}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{BaseURL: server.URL, RequestsPerSecond: 100}, logger)
	return client, server
}

func TestClient_FetchByID(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(volumeFixture))
	})

	book, err := client.FetchByID(context.Background(), "zyTCAlFPjgYC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/volumes/zyTCAlFPjgYC" {
		t.Errorf("expected path /volumes/zyTCAlFPjgYC, got %s", gotPath)
	}
	if book.Title != "The Google Story" {
		t.Errorf("expected title 'The Google Story', got %q", book.Title)
	}
	if len(book.Authors) != 2 {
		t.Errorf("expected 2 authors, got %d", len(book.Authors))
	}
	if book.ISBN10 != "055380457X" || book.ISBN13 != "9780553804577" {
		t.Errorf("ISBN mapping wrong: %q / %q", book.ISBN10, book.ISBN13)
	}
	if book.ImageLinks.Thumbnail != "https://books.google.com/books/content?id=zyTCAlFPjgYC&zoom=1" {
		t.Errorf("thumbnail should be rewritten to https, got %s", book.ImageLinks.Thumbnail)
	}
}

func TestClient_FetchByID_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchByID(context.Background(), "missing")
	if !errors.Is(err, books.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_FetchByID_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchByID(context.Background(), "abc")
	if !errors.Is(err, books.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_Search(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(searchFixture))
	})

	results, err := client.Search(context.Background(), "golang", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "golang" {
		t.Errorf("expected query golang, got %s", gotQuery)
	}
	// The volume without an ID is dropped.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "vol-1" || results[1].ID != "vol-2" {
		t.Errorf("unexpected result order: %v", results)
	}
}

func TestClient_Search_EmptyResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`))
	})

	results, err := client.Search(context.Background(), "nothing matches this", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestClient_Search_APIKeyForwarded(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{BaseURL: server.URL, APIKey: "secret", RequestsPerSecond: 100}, logger)

	if _, err := client.Search(context.Background(), "q", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("expected API key forwarded, got %q", gotKey)
	}
}

func TestSecureImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://books.google.com/x", "https://books.google.com/x"},
		{"https://books.google.com/x", "https://books.google.com/x"},
		{"http://example.com/x", "http://example.com/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := secureImageURL(tt.in); got != tt.want {
			t.Errorf("secureImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
