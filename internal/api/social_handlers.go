package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/journeyreads/journey-server/internal/http/response"
)

// handleToggleLike flips the signed-in user's like on a list.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := chi.URLParam(r, "id")

	state, err := s.socialService.Toggle(ctx, getUserID(ctx), listID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, state, s.logger)
}

// handleGetLikeState returns the like count, and whether the current user
// likes the list when signed in.
func (s *Server) handleGetLikeState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := chi.URLParam(r, "id")

	state, err := s.socialService.State(ctx, getUserID(ctx), listID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, state, s.logger)
}

// handleMyLikes returns the lists the signed-in user has liked.
func (s *Server) handleMyLikes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lists, err := s.socialService.Liked(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, lists, s.logger)
}
