package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/journeyreads/journey-server/internal/api"
	"github.com/journeyreads/journey-server/internal/auth"
	"github.com/journeyreads/journey-server/internal/config"
	"github.com/journeyreads/journey-server/internal/logger"
	"github.com/journeyreads/journey-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	bookService := do.MustInvoke[*service.BookService](i)
	listService := do.MustInvoke[*service.ListService](i)
	socialService := do.MustInvoke[*service.SocialService](i)
	profileService := do.MustInvoke[*service.ProfileService](i)
	rankingService := do.MustInvoke[*service.RankingService](i)
	tokens := do.MustInvoke[*auth.TokenService](i)

	apiServer := api.NewServer(bookService, listService, socialService, profileService, rankingService, tokens, cfg.Auth.AdminToken, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: apiServer}, nil
}
