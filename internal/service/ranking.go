package service

import (
	"context"
	"log/slog"

	"github.com/journeyreads/journey-server/internal/domain"
)

// RankingService drives the comparison-based insertion flow. The flow is
// stateless on the server: the client holds its draft list and sends it
// with every step, so nothing here touches the store beyond metadata
// resolution.
type RankingService struct {
	books  *BookService
	logger *slog.Logger
}

// NewRankingService creates a new ranking service.
func NewRankingService(books *BookService, logger *slog.Logger) *RankingService {
	return &RankingService{
		books:  books,
		logger: logger,
	}
}

// Begin starts inserting a candidate into a draft list. The candidate is
// resolved first so an unknown or mistyped book ID fails here rather than
// halfway through the comparison walk.
func (s *RankingService) Begin(ctx context.Context, candidateID string, list []string) (domain.Placement, error) {
	if _, err := s.books.Resolve(ctx, candidateID); err != nil {
		return domain.Placement{}, err
	}
	return domain.BeginInsertion(candidateID, list)
}

// Step advances the walk after the author picked a side.
func (s *RankingService) Step(ctx context.Context, candidateID string, list []string, pointer int, candidatePreferred bool) (domain.Placement, error) {
	return domain.ResolveComparison(candidateID, list, pointer, candidatePreferred)
}

// Insert applies a finished placement to the draft list.
func (s *RankingService) Insert(list []string, candidateID string, index int) ([]string, error) {
	return domain.InsertAt(list, candidateID, index)
}

// Remove drops the item at index from the draft list.
func (s *RankingService) Remove(list []string, index int) ([]string, error) {
	return domain.Remove(list, index)
}
