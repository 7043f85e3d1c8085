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

// ProfileService manages user records and public profiles.
type ProfileService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(st *sqlite.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  st,
		logger: logger,
	}
}

// Identity is the externally verified identity of a signed-in user.
type Identity struct {
	Subject     string
	DisplayName string
	Email       string
	AvatarURL   string
}

// Profile pairs a user with their public lists.
type Profile struct {
	User  *domain.User
	Lists []*domain.List
}

// EnsureUser records the identity on first sight and refreshes the basic
// profile fields on every sign-in. Handle and bio are owned by the user
// and never overwritten here.
func (s *ProfileService) EnsureUser(ctx context.Context, ident Identity) (*domain.User, error) {
	if ident.Subject == "" {
		return nil, errors.Validation("identity subject is required")
	}

	existing, err := s.store.GetUser(ctx, ident.Subject)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, errors.CodeInternal, "load user")
	}

	user := &domain.User{
		ID:          ident.Subject,
		DisplayName: ident.DisplayName,
		Email:       ident.Email,
		AvatarURL:   ident.AvatarURL,
		CreatedAt:   time.Now(),
	}
	if existing != nil {
		user.Handle = existing.Handle
		user.Bio = existing.Bio
		user.CreatedAt = existing.CreatedAt
		if user.DisplayName == "" {
			user.DisplayName = existing.DisplayName
		}
		if user.AvatarURL == "" {
			user.AvatarURL = existing.AvatarURL
		}
	}

	if err := s.store.UpsertUser(ctx, user); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "save user")
	}
	return user, nil
}

// Me returns the user's own record.
func (s *ProfileService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("unknown user")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load user")
	}
	return user, nil
}

// UpdateProfileInput carries the user-editable profile fields.
type UpdateProfileInput struct {
	Handle *string
	Bio    *string
}

// Update changes the user's handle or bio.
func (s *ProfileService) Update(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("unknown user")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load user")
	}

	if input.Handle != nil {
		user.Handle = *input.Handle
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := s.store.UpsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.SlugConflict("handle is already taken")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "save user")
	}
	return user, nil
}

// Get returns the public profile for a handle: the user and their public
// lists, newest first.
func (s *ProfileService) Get(ctx context.Context, handle string) (*Profile, error) {
	if handle == "" {
		return nil, errors.Validation("handle is required")
	}

	user, err := s.store.GetUserByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("profile not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load profile")
	}

	lists, err := s.store.ListListsByOwner(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "load profile lists")
	}

	public := make([]*domain.List, 0, len(lists))
	for _, list := range lists {
		if list.IsPublic {
			public = append(public, list)
		}
	}

	return &Profile{User: user, Lists: public}, nil
}
