package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/errors"
	"github.com/journeyreads/journey-server/internal/store"
	"github.com/journeyreads/journey-server/internal/store/sqlite"
)

// SocialService handles likes on lists.
type SocialService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(st *sqlite.Store, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  st,
		logger: logger,
	}
}

// LikeState is the outcome of a like query or toggle.
type LikeState struct {
	Liked     bool
	LikeCount int64
}

// Toggle flips the user's like on a list and returns the new state.
func (s *SocialService) Toggle(ctx context.Context, userID, listID string) (*LikeState, error) {
	liked, count, err := s.store.ToggleLike(ctx, userID, listID, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("list not found")
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			// A concurrent toggle won the insert; safe to retry.
			return nil, errors.Consistency("like state changed concurrently")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "toggle like")
	}

	s.logger.Debug("like toggled", "user_id", userID, "list_id", listID, "liked", liked)
	return &LikeState{Liked: liked, LikeCount: count}, nil
}

// State returns whether the user likes the list and the current count.
func (s *SocialService) State(ctx context.Context, userID, listID string) (*LikeState, error) {
	count, err := s.store.GetLikeCount(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("list not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load like count")
	}

	liked := false
	if userID != "" {
		liked, err = s.store.IsLiked(ctx, userID, listID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "load like state")
		}
	}

	return &LikeState{Liked: liked, LikeCount: count}, nil
}

// Liked returns the lists the user has liked, most recent first.
func (s *SocialService) Liked(ctx context.Context, userID string) ([]*domain.List, error) {
	lists, err := s.store.ListLikedLists(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list liked lists")
	}
	return lists, nil
}
