package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/http/response"
	"github.com/journeyreads/journey-server/internal/service"
)

// CreateSessionRequest carries the identity asserted by the front-end
// after it completed its own sign-in flow. The server sits behind that
// proxy and trusts the subject it forwards.
type CreateSessionRequest struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	DisplayName string `json:"display_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

// SessionResponse returns the minted access token and the user record.
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *domain.User `json:"user"`
}

// handleCreateSession records the identity and mints an access token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateSessionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.profileService.EnsureUser(ctx, service.Identity{
		Subject:     req.Subject,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("Failed to mint access token", "error", err, "user_id", user.ID)
		response.InternalError(w, "Failed to create session", s.logger)
		return
	}

	response.Success(w, SessionResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.AccessTokenDuration().Seconds()),
		User:        user,
	}, s.logger)
}
