package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/journeyreads/journey-server/internal/config"
	"github.com/journeyreads/journey-server/internal/logger"
	"github.com/journeyreads/journey-server/internal/service"
)

// PurgeJob periodically removes expired anonymous lists and stale search
// cache entries.
type PurgeJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *PurgeJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvidePurgeJob provides the background purge worker.
func ProvidePurgeJob(i do.Injector) (*PurgeJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	listService := do.MustInvoke[*service.ListService](i)
	bookService := do.MustInvoke[*service.BookService](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &PurgeJob{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	interval := cfg.Lists.PurgeInterval
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runPurge(ctx, listService, bookService, log)
			}
		}
	}()

	log.Info("Purge job started", "interval", interval)

	return job, nil
}

func runPurge(ctx context.Context, lists *service.ListService, books *service.BookService, log *logger.Logger) {
	purgedLists, err := lists.PurgeExpired(ctx)
	if err != nil {
		log.Error("Failed to purge expired lists", "error", err)
	} else if purgedLists > 0 {
		log.Info("Purged expired anonymous lists", "count", purgedLists)
	}

	purgedSearches, err := books.PurgeExpiredSearchCache(ctx)
	if err != nil {
		log.Error("Failed to purge search cache", "error", err)
	} else if purgedSearches > 0 {
		log.Info("Purged expired search cache entries", "count", purgedSearches)
	}
}
