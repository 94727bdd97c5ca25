package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// ExpenseService implements the expense splitter and the owner-scoped
// full-replace save.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
}

// NewExpenseService constructs an ExpenseService backed by the provided repos.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses}
}

// ListByTripID returns all expenses for a trip ordered by date.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExpenseService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListByTripID: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// Replace swaps one owner's expense set for the incoming list in a single
// transaction and returns the created count.
//
// Validation happens before any write: every amount must be a non-negative
// finite number, and the count of distinct named payers across the whole
// trip's expenses (this save plus other owners' existing rows) must not
// exceed the trip's traveler count. Per-traveler shares are computed here
// from the trip's current traveler count.
func (s *ExpenseService) Replace(ctx context.Context, tripID uuid.UUID, ownerID string, incoming []domain.Expense) (int, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return 0, fmt.Errorf("service.ExpenseService.Replace: %w", err)
	}

	for i := range incoming {
		e := &incoming[i]
		if e.Amount < 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			return 0, fmt.Errorf("%w: amounts must be numeric and >= 0", domain.ErrValidation)
		}
		if strings.TrimSpace(e.Category) == "" {
			e.Category = "Others"
		}
		if strings.TrimSpace(e.PaidBy) == "" {
			e.PaidBy = domain.PaidBySplit
		}
		if e.Date.IsZero() {
			e.Date = time.Now().UTC()
		}
		e.AmountPerTraveler = domain.SplitAmount(e.Amount, e.DoNotSplit, trip.Travelers)
	}

	if err := s.checkPayers(ctx, trip, ownerID, incoming); err != nil {
		return 0, err
	}

	created, err := s.expenses.ReplaceForOwner(ctx, tripID, ownerID, incoming)
	if err != nil {
		return 0, fmt.Errorf("service.ExpenseService.Replace: %w", err)
	}
	return created, nil
}

// checkPayers enforces the payer guard: the set of distinct paid-by labels
// other than "Split", taken across the incoming rows and every other owner's
// existing rows, must fit within the trip's traveler count. A violation fails
// the whole save rather than partially persisting.
func (s *ExpenseService) checkPayers(ctx context.Context, trip domain.Trip, ownerID string, incoming []domain.Expense) error {
	payers := make(map[string]bool)
	for _, e := range incoming {
		if e.PaidBy != domain.PaidBySplit {
			payers[e.PaidBy] = true
		}
	}

	existing, err := s.expenses.ListByTripID(ctx, trip.ID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Replace: payers: %w", err)
	}
	for _, e := range existing {
		if e.OwnerID != ownerID && e.PaidBy != domain.PaidBySplit {
			payers[e.PaidBy] = true
		}
	}

	if len(payers) > trip.Travelers {
		return fmt.Errorf("%w: %d distinct payers exceed the trip's %d travelers",
			domain.ErrValidation, len(payers), trip.Travelers)
	}
	return nil
}
