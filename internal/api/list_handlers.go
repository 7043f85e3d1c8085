package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/journeyreads/journey-server/internal/http/response"
	"github.com/journeyreads/journey-server/internal/service"
)

// CreateListItemRequest is one ranked entry of a new list.
type CreateListItemRequest struct {
	BookID string `json:"book_id" validate:"required"`
	Note   string `json:"note" validate:"max=300"`
}

// CreateListRequest represents the request body for creating a list.
type CreateListRequest struct {
	Title       string                  `json:"title" validate:"required,max=200"`
	Description string                  `json:"description" validate:"max=2000"`
	Slug        string                  `json:"slug" validate:"max=120"`
	Items       []CreateListItemRequest `json:"items" validate:"required,min=1,max=4,dive"`
}

// handleCreateList creates a list. Signed-in users claim ownership;
// anonymous visitors get an expiring list.
func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateListRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	input := service.CreateListInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     getUserID(ctx),
		Slug:        req.Slug,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.ListItemInput{
			BookID: item.BookID,
			Note:   item.Note,
		})
	}

	list, err := s.listService.Create(ctx, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, list, s.logger)
}

// handleGetListBySlug returns a shared list with resolved book metadata.
func (s *Server) handleGetListBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	list, err := s.listService.GetBySlug(ctx, slug)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, list, s.logger)
}

// handlePopularLists returns the most liked public lists.
func (s *Server) handlePopularLists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 || parsed > 100 {
			response.BadRequest(w, "Limit must be between 1 and 100", s.logger)
			return
		}
		limit = parsed
	}

	lists, err := s.listService.Popular(ctx, limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, lists, s.logger)
}

// handleDeleteList removes one of the user's own lists.
func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := chi.URLParam(r, "id")

	if err := s.listService.Delete(ctx, getUserID(ctx), listID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleMyLists returns the signed-in user's lists, newest first.
func (s *Server) handleMyLists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lists, err := s.listService.ListOwned(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, lists, s.logger)
}

// ReleaseSlugsRequest represents the request body for reclaiming slugs.
type ReleaseSlugsRequest struct {
	Slugs []string `json:"slugs" validate:"required,min=1"`
}

// ReleaseSlugsResponse reports how many lists were removed.
type ReleaseSlugsResponse struct {
	Released int64 `json:"released"`
}

// handleReleaseSlugs frees slugs held by unliked anonymous lists.
func (s *Server) handleReleaseSlugs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReleaseSlugsRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	released, err := s.listService.ReleaseSlugs(ctx, req.Slugs)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ReleaseSlugsResponse{Released: released}, s.logger)
}
