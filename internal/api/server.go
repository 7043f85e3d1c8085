// Package api provides the HTTP API server and handlers for the Journey application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/journeyreads/journey-server/internal/auth"
	"github.com/journeyreads/journey-server/internal/http/response"
	"github.com/journeyreads/journey-server/internal/ratelimit"
	"github.com/journeyreads/journey-server/internal/service"
	"github.com/journeyreads/journey-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	bookService    *service.BookService
	listService    *service.ListService
	socialService  *service.SocialService
	profileService *service.ProfileService
	rankingService *service.RankingService
	tokens         *auth.TokenService
	validator      *validation.Validator
	limiter        *ratelimit.KeyedRateLimiter
	adminToken     string
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(bookService *service.BookService, listService *service.ListService, socialService *service.SocialService, profileService *service.ProfileService, rankingService *service.RankingService, tokens *auth.TokenService, adminToken string, logger *slog.Logger) *Server {
	s := &Server{
		bookService:    bookService,
		listService:    listService,
		socialService:  socialService,
		profileService: profileService,
		rankingService: rankingService,
		tokens:         tokens,
		validator:      validation.New(),
		limiter:        ratelimit.New(20, 40),
		adminToken:     adminToken,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.attachUser)

		// Session exchange (public).
		r.Post("/auth/session", s.handleCreateSession)

		// Book metadata (public).
		r.Route("/books", func(r chi.Router) {
			r.Get("/search", s.handleSearchBooks)
			r.Get("/{id}", s.handleGetBook)
		})

		// Ranking walk (public, stateless).
		r.Route("/rank", func(r chi.Router) {
			r.Post("/begin", s.handleRankBegin)
			r.Post("/step", s.handleRankStep)
			r.Post("/insert", s.handleRankInsert)
			r.Post("/remove", s.handleRankRemove)
		})

		// Lists. Creation is open to anonymous visitors.
		r.Route("/lists", func(r chi.Router) {
			r.Post("/", s.handleCreateList)
			r.Get("/popular", s.handlePopularLists)
			r.Get("/{slug}", s.handleGetListBySlug)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Delete("/{id}", s.handleDeleteList)
				r.Post("/{id}/like", s.handleToggleLike)
			})
			r.Get("/{id}/like", s.handleGetLikeState)
		})

		// Public profiles.
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/{handle}", s.handleGetProfile)
			r.Get("/{handle}/lists/{slug}", s.handleGetProfileList)
		})

		// The signed-in user's own resources.
		r.Route("/me", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetCurrentUser)
			r.Patch("/profile", s.handleUpdateProfile)
			r.Get("/lists", s.handleMyLists)
			r.Get("/likes", s.handleMyLikes)
		})

		// Administrative endpoints.
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/slugs/release", s.handleReleaseSlugs)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
