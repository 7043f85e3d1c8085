package providers

import (
	"github.com/samber/do/v2"

	"github.com/journeyreads/journey-server/internal/books"
	"github.com/journeyreads/journey-server/internal/books/google"
	"github.com/journeyreads/journey-server/internal/config"
	"github.com/journeyreads/journey-server/internal/logger"
)

// ProvideBookProvider provides the upstream book metadata client.
func ProvideBookProvider(i do.Injector) (books.Provider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := google.New(google.Config{
		BaseURL:           cfg.Books.BaseURL,
		APIKey:            cfg.Books.APIKey,
		Timeout:           cfg.Books.RequestTimeout,
		RequestsPerSecond: cfg.Books.RequestsPerSecond,
	}, log.Logger)

	return client, nil
}
