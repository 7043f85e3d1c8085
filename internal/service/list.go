package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/errors"
	"github.com/journeyreads/journey-server/internal/id"
	"github.com/journeyreads/journey-server/internal/slug"
	"github.com/journeyreads/journey-server/internal/store"
	"github.com/journeyreads/journey-server/internal/store/sqlite"
)

// slugAttempts bounds the create-retry loop. Each attempt carries a fresh
// random suffix, so hitting the limit means something other than chance.
const slugAttempts = 3

// ListService manages the lifecycle of reading lists.
type ListService struct {
	store  *sqlite.Store
	books  *BookService
	logger *slog.Logger

	anonymousRetention time.Duration
}

// NewListService creates a new list service.
func NewListService(st *sqlite.Store, books *BookService, anonymousRetention time.Duration, logger *slog.Logger) *ListService {
	return &ListService{
		store:              st,
		books:              books,
		logger:             logger,
		anonymousRetention: anonymousRetention,
	}
}

// ListItemInput is one entry of a list being created.
type ListItemInput struct {
	BookID string
	Note   string
}

// CreateListInput carries everything needed to persist a list.
type CreateListInput struct {
	Title       string
	Description string
	// OwnerID is empty for anonymous lists.
	OwnerID string
	// Slug, when set, is used verbatim instead of being derived from the
	// title. A conflict on a caller-chosen slug is not retried.
	Slug  string
	Items []ListItemInput
}

// ListWithBooks pairs a list with the resolved metadata of its books, in
// ranked order.
type ListWithBooks struct {
	List  *domain.List
	Books []domain.Book
	Owner *domain.User
}

// Create persists a new list. Anonymous lists get an expiry; owned lists
// require the owner to hold a public handle. Derived slugs are retried
// with fresh suffixes when they collide.
func (s *ListService) Create(ctx context.Context, input CreateListInput) (*domain.List, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	var owner *domain.User
	if input.OwnerID != "" {
		var err error
		owner, err = s.store.GetUser(ctx, input.OwnerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, errors.Unauthorized("unknown user")
			}
			return nil, errors.Wrap(err, errors.CodeInternal, "load owner")
		}
		if !owner.HasPublicHandle() {
			return nil, errors.Forbidden("a public handle is required to claim a list")
		}
	}

	// Resolving up front both hydrates the response and guarantees every
	// referenced book exists in the cache before the insert. Items whose
	// book cannot be resolved are dropped; only a fully unresolvable list
	// is rejected.
	bookIDs := make([]string, len(input.Items))
	for i, item := range input.Items {
		bookIDs[i] = item.BookID
	}
	resolved, err := s.books.ResolveMany(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, errors.NotFound("none of the books could be found")
	}
	if len(resolved) < len(input.Items) {
		known := make(map[string]bool, len(resolved))
		for _, book := range resolved {
			known[book.ID] = true
		}
		kept := input.Items[:0]
		for _, item := range input.Items {
			if known[item.BookID] {
				kept = append(kept, item)
			}
		}
		input.Items = kept
	}

	now := time.Now()
	list := &domain.List{
		ID:          id.MustGenerate("list"),
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		IsPublic:    true,
		IsAnonymous: input.OwnerID == "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if list.IsAnonymous {
		expires := now.Add(s.anonymousRetention)
		list.ExpiresAt = &expires
	}

	list.Items = make([]domain.ListItem, len(input.Items))
	for i, item := range input.Items {
		list.Items[i] = domain.ListItem{
			BookID:   item.BookID,
			Position: i,
			Note:     item.Note,
		}
	}

	if input.Slug != "" {
		if !slug.Valid(input.Slug) {
			return nil, errors.Validation("slug may only contain lowercase letters, digits, and hyphens")
		}
		list.Slug = input.Slug
		if err := s.store.CreateList(ctx, list); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, errors.SlugConflict("slug is already taken")
			}
			return nil, errors.Wrap(err, errors.CodeInternal, "create list")
		}
		list.ResolveSharePath(ownerHandle(owner))
		return list, nil
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		derived, err := slug.Derive(input.Title)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "derive slug")
		}
		list.Slug = derived

		err = s.store.CreateList(ctx, list)
		if err == nil {
			list.ResolveSharePath(ownerHandle(owner))
			return list, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Wrap(err, errors.CodeInternal, "create list")
		}
		s.logger.Debug("slug collision, retrying", "slug", derived, "attempt", attempt+1)
	}

	return nil, errors.SlugConflict("could not allocate a unique slug")
}

func ownerHandle(owner *domain.User) string {
	if owner == nil {
		return ""
	}
	return owner.Handle
}

func (s *ListService) validateInput(input *CreateListInput) error {
	if input.Title == "" {
		return errors.Validation("title is required")
	}
	if len(input.Items) == 0 {
		return errors.Validation("a list needs at least one book")
	}
	if len(input.Items) > domain.MaxListSize {
		return errors.ListFull("a list holds at most four books")
	}

	seen := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		if item.BookID == "" {
			return errors.Validation("every item needs a book ID")
		}
		if seen[item.BookID] {
			return errors.Validationf("book %s appears more than once", item.BookID)
		}
		seen[item.BookID] = true
		if len(item.Note) > domain.MaxNoteLength {
			return errors.Validationf("notes are limited to %d characters", domain.MaxNoteLength)
		}
	}
	return nil
}

// GetBySlug returns a public list by its share slug, with books resolved.
// Expired anonymous lists are treated as gone and removed opportunistically.
func (s *ListService) GetBySlug(ctx context.Context, slugVal string) (*ListWithBooks, error) {
	list, err := s.store.GetListBySlug(ctx, slugVal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("list not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load list")
	}

	if list.Expired(time.Now()) {
		// Read-time enforcement; the background purge will also catch it.
		if err := s.store.DeleteList(ctx, list.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to remove expired list", "list_id", list.ID, "error", err)
		}
		return nil, errors.NotFound("list not found")
	}

	if !list.IsPublic {
		return nil, errors.NotFound("list not found")
	}

	return s.hydrate(ctx, list)
}

// GetByHandleAndSlug returns a public list through its owner's profile.
func (s *ListService) GetByHandleAndSlug(ctx context.Context, handle, slugVal string) (*ListWithBooks, error) {
	list, err := s.store.GetListByHandleAndSlug(ctx, handle, slugVal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("list not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load list")
	}
	return s.hydrate(ctx, list)
}

// ListOwned returns all lists owned by the user, newest first, without
// book hydration.
func (s *ListService) ListOwned(ctx context.Context, userID string) ([]*domain.List, error) {
	lists, err := s.store.ListListsByOwner(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list owned lists")
	}
	return lists, nil
}

// Popular returns the most liked public lists.
func (s *ListService) Popular(ctx context.Context, limit int) ([]*domain.List, error) {
	lists, err := s.store.ListPopularLists(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list popular lists")
	}
	return lists, nil
}

// Delete removes a list owned by the user.
func (s *ListService) Delete(ctx context.Context, userID, listID string) error {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFound("list not found")
		}
		return errors.Wrap(err, errors.CodeInternal, "load list")
	}

	if list.OwnerID == "" || list.OwnerID != userID {
		return errors.Forbidden("only the owner can delete a list")
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFound("list not found")
		}
		return errors.Wrap(err, errors.CodeInternal, "delete list")
	}
	return nil
}

// PurgeExpired removes anonymous lists past their expiry.
func (s *ListService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.PurgeExpiredAnonymousLists(ctx, time.Now())
}

// ReleaseSlugs deletes unliked anonymous lists holding the given slugs,
// freeing the slugs for reuse. Owned or liked lists are left alone.
func (s *ListService) ReleaseSlugs(ctx context.Context, slugs []string) (int64, error) {
	if len(slugs) == 0 {
		return 0, errors.Validation("no slugs given")
	}
	return s.store.ReleaseSlugs(ctx, slugs)
}

// hydrate attaches resolved book metadata and the owner profile.
func (s *ListService) hydrate(ctx context.Context, list *domain.List) (*ListWithBooks, error) {
	resolved, err := s.books.ResolveMany(ctx, list.BookIDs())
	if err != nil {
		return nil, err
	}

	out := &ListWithBooks{List: list, Books: resolved}

	if list.OwnerID != "" {
		owner, err := s.store.GetUser(ctx, list.OwnerID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, errors.Wrap(err, errors.CodeInternal, "load owner")
			}
		} else {
			out.Owner = owner
		}
	}

	list.ResolveSharePath(ownerHandle(out.Owner))

	return out, nil
}
