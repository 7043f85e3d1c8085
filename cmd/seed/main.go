// Package main provides a tool to seed the database with test data.
//
// This creates a handful of users, cached books, and public lists so the
// popular feed and profile pages have something to show during development.
//
// Usage:
//
//	DATA_PATH=~/journey go run ./cmd/seed
//	DATA_PATH=~/journey go run ./cmd/seed --likes  # Also spread some likes
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/id"
	"github.com/journeyreads/journey-server/internal/slug"
	"github.com/journeyreads/journey-server/internal/store/sqlite"
)

var seedLikes = flag.Bool("likes", false, "Spread random likes across the seeded lists")

var seedBooks = []domain.Book{
	{ID: "seed-piranesi", Title: "Piranesi", Authors: []string{"Susanna Clarke"}, Language: "en"},
	{ID: "seed-circe", Title: "Circe", Authors: []string{"Madeline Miller"}, Language: "en"},
	{ID: "seed-overstory", Title: "The Overstory", Authors: []string{"Richard Powers"}, Language: "en"},
	{ID: "seed-severance", Title: "Severance", Authors: []string{"Ling Ma"}, Language: "en"},
	{ID: "seed-exhalation", Title: "Exhalation", Authors: []string{"Ted Chiang"}, Language: "en"},
	{ID: "seed-lathe", Title: "The Lathe of Heaven", Authors: []string{"Ursula K. Le Guin"}, Language: "en"},
}

var seedUsers = []domain.User{
	{ID: "seed-user-maria", DisplayName: "Maria", Handle: "maria", Bio: "Reads in transit."},
	{ID: "seed-user-jon", DisplayName: "Jon", Handle: "jon"},
	{ID: "seed-user-ade", DisplayName: "Ade", Handle: "ade", Bio: "Mostly speculative fiction."},
}

var seedLists = []struct {
	title   string
	owner   string // empty = anonymous
	bookIDs []string
}{
	{"Books that rewired me", "seed-user-maria", []string{"seed-piranesi", "seed-exhalation", "seed-lathe"}},
	{"Quiet apocalypses", "seed-user-ade", []string{"seed-severance", "seed-overstory"}},
	{"Start here", "", []string{"seed-circe", "seed-piranesi", "seed-overstory", "seed-exhalation"}},
	{"One sitting reads", "seed-user-jon", []string{"seed-exhalation"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/journey")
	}
	dbPath := filepath.Join(dataPath, "journey.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	now := time.Now()

	for _, book := range seedBooks {
		if err := s.UpsertBook(ctx, &book, now); err != nil {
			log.Fatalf("Failed to seed book %s: %v", book.ID, err)
		}
	}
	fmt.Printf("Seeded %d books\n", len(seedBooks))

	for _, user := range seedUsers {
		user.CreatedAt = now
		if err := s.UpsertUser(ctx, &user); err != nil {
			log.Fatalf("Failed to seed user %s: %v", user.Handle, err)
		}
	}
	fmt.Printf("Seeded %d users\n", len(seedUsers))

	created := make([]string, 0, len(seedLists))
	for _, spec := range seedLists {
		derived, err := slug.Derive(spec.title)
		if err != nil {
			log.Fatalf("Failed to derive slug for %q: %v", spec.title, err)
		}

		list := &domain.List{
			ID:          id.MustGenerate("list"),
			Slug:        derived,
			Title:       spec.title,
			OwnerID:     spec.owner,
			IsPublic:    true,
			IsAnonymous: spec.owner == "",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if list.IsAnonymous {
			expires := now.Add(90 * 24 * time.Hour)
			list.ExpiresAt = &expires
		}
		for i, bookID := range spec.bookIDs {
			list.Items = append(list.Items, domain.ListItem{BookID: bookID, Position: i})
		}

		if err := s.CreateList(ctx, list); err != nil {
			log.Fatalf("Failed to seed list %q: %v", spec.title, err)
		}
		created = append(created, list.ID)
		fmt.Printf("  %-24s /share/%s\n", spec.title, list.Slug)
	}

	if *seedLikes {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		likes := 0
		for _, listID := range created {
			for _, user := range seedUsers {
				if rng.Intn(2) == 0 {
					continue
				}
				liked, _, err := s.ToggleLike(ctx, user.ID, listID, now)
				if err != nil {
					log.Fatalf("Failed to like list %s: %v", listID, err)
				}
				if liked {
					likes++
				}
			}
		}
		fmt.Printf("Spread %d likes\n", likes)
	}

	fmt.Println("\nDone.")
}
