package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/journeyreads/journey-server/internal/http/response"
	"github.com/journeyreads/journey-server/internal/service"
)

// UpdateProfileRequest represents the request body for editing the
// signed-in user's profile. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Handle *string `json:"handle" validate:"omitempty,min=2,max=40,lowercase,alphanum"`
	Bio    *string `json:"bio" validate:"omitempty,max=500"`
}

// handleGetProfile returns a public profile by handle.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handle := chi.URLParam(r, "handle")

	profile, err := s.profileService.Get(ctx, handle)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleGetProfileList returns one of a profile's public lists by slug.
func (s *Server) handleGetProfileList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handle := chi.URLParam(r, "handle")
	slug := chi.URLParam(r, "slug")

	list, err := s.listService.GetByHandleAndSlug(ctx, handle, slug)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, list, s.logger)
}

// handleGetCurrentUser returns the signed-in user's own record.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.profileService.Me(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleUpdateProfile edits the signed-in user's handle or bio.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateProfileRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.profileService.Update(ctx, getUserID(ctx), service.UpdateProfileInput{
		Handle: req.Handle,
		Bio:    req.Bio,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}
