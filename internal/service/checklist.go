package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// ChecklistService implements checklist bootstrapping and full-replace saves.
type ChecklistService struct {
	trips     repo.TripRepo
	checklist repo.ChecklistRepo
}

// NewChecklistService constructs a ChecklistService backed by the provided repos.
func NewChecklistService(trips repo.TripRepo, checklist repo.ChecklistRepo) *ChecklistService {
	return &ChecklistService{trips: trips, checklist: checklist}
}

// GetOrBootstrap returns the trip's checklist, seeding the default item list
// when the trip has none yet. Defaults are persisted so later edits and the
// done flags survive.
func (s *ChecklistService) GetOrBootstrap(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ChecklistService.GetOrBootstrap: %w", err)
	}

	items, err := s.checklist.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ChecklistService.GetOrBootstrap: %w", err)
	}

	if len(items) == 0 {
		items, err = s.checklist.CreateMany(ctx, tripID, domain.DefaultChecklist)
		if err != nil {
			return nil, fmt.Errorf("service.ChecklistService.GetOrBootstrap: seed: %w", err)
		}
	}

	if items == nil {
		return []domain.ChecklistItem{}, nil
	}
	return items, nil
}

// Replace swaps the trip's checklist for the given items in one transaction.
// An empty payload clears the checklist.
func (s *ChecklistService) Replace(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ChecklistService.Replace: %w", err)
	}

	for _, item := range items {
		if strings.TrimSpace(item.Task) == "" {
			return nil, fmt.Errorf("%w: task is required", domain.ErrValidation)
		}
	}

	saved, err := s.checklist.ReplaceAll(ctx, tripID, items)
	if err != nil {
		return nil, fmt.Errorf("service.ChecklistService.Replace: %w", err)
	}
	if saved == nil {
		return []domain.ChecklistItem{}, nil
	}
	return saved, nil
}
