package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/journeyreads/journey-server/internal/http/response"
)

// RankBeginRequest starts placing a book into a draft list.
type RankBeginRequest struct {
	CandidateID string   `json:"candidate_id" validate:"required"`
	List        []string `json:"list" validate:"max=4"`
}

// RankStepRequest answers one comparison question.
type RankStepRequest struct {
	CandidateID        string   `json:"candidate_id" validate:"required"`
	List               []string `json:"list" validate:"required,max=4"`
	Pointer            int      `json:"pointer"`
	CandidatePreferred bool     `json:"candidate_preferred"`
}

// RankInsertRequest applies a finished placement.
type RankInsertRequest struct {
	CandidateID string   `json:"candidate_id" validate:"required"`
	List        []string `json:"list" validate:"max=3"`
	Index       int      `json:"index"`
}

// RankRemoveRequest drops an item from a draft list.
type RankRemoveRequest struct {
	List  []string `json:"list" validate:"required,max=4"`
	Index int      `json:"index"`
}

// ListResponse carries an updated draft list back to the client.
type ListResponse struct {
	List []string `json:"list"`
}

// handleRankBegin starts the comparison walk for a candidate book.
func (s *Server) handleRankBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RankBeginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	placement, err := s.rankingService.Begin(ctx, req.CandidateID, req.List)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, placement, s.logger)
}

// handleRankStep advances the walk after the author chose a side.
func (s *Server) handleRankStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RankStepRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	placement, err := s.rankingService.Step(ctx, req.CandidateID, req.List, req.Pointer, req.CandidatePreferred)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, placement, s.logger)
}

// handleRankInsert places the candidate at its settled position.
func (s *Server) handleRankInsert(w http.ResponseWriter, r *http.Request) {
	var req RankInsertRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	updated, err := s.rankingService.Insert(req.List, req.CandidateID, req.Index)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ListResponse{List: updated}, s.logger)
}

// handleRankRemove drops an item from the draft list.
func (s *Server) handleRankRemove(w http.ResponseWriter, r *http.Request) {
	var req RankRemoveRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	updated, err := s.rankingService.Remove(req.List, req.Index)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ListResponse{List: updated}, s.logger)
}
