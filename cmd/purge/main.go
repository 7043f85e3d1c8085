// Package main provides a one-shot cleanup tool for expired data.
// Useful when the server is down or for cron-driven deployments.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/journeyreads/journey-server/internal/config"
	"github.com/journeyreads/journey-server/internal/logger"
	"github.com/journeyreads/journey-server/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	dbPath := filepath.Join(cfg.Data.BasePath, "journey.db")
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		log.Error("Failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()

	lists, err := st.PurgeExpiredAnonymousLists(ctx, now)
	if err != nil {
		log.Error("Failed to purge expired lists", "error", err)
		os.Exit(1)
	}

	searches, err := st.PurgeExpiredSearchCache(ctx, now)
	if err != nil {
		log.Error("Failed to purge search cache", "error", err)
		os.Exit(1)
	}

	log.Info("Purge complete", "lists", lists, "search_entries", searches)
}
