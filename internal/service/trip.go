// Package service contains the business logic for the WanderWise backend.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the budget and expense repos as well because the trip summary is
// derived from them, and a traveler-count change cascades into a bulk
// recompute of expense shares.
type TripService struct {
	trips    repo.TripRepo
	budgets  repo.BudgetRepo
	expenses repo.ExpenseRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, budgets repo.BudgetRepo, expenses repo.ExpenseRepo) *TripService {
	return &TripService{trips: trips, budgets: budgets, expenses: expenses}
}

// Create validates and persists a new trip for the given owner.
// DurationDays is always derived from the dates; a client-supplied value is
// ignored. A traveler count below 1 is normalized to 1.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	trip.OwnerID = ownerID
	if trip.Travelers < 1 {
		trip.Travelers = 1
	}
	trip.DurationDays = domain.DurationDays(trip.StartDate, trip.EndDate)

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns one page of the owner's trips plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListByOwner: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip, recomputing the
// duration from the new dates. When the traveler count changes, every
// splittable expense of the trip gets its per-traveler share rewritten from
// the new count — a bulk recompute, not a lazy one.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	existing, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	trip.OwnerID = existing.OwnerID
	if trip.Travelers < 1 {
		trip.Travelers = 1
	}
	trip.DurationDays = domain.DurationDays(trip.StartDate, trip.EndDate)

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if existing.Travelers != result.Travelers {
		if err := s.expenses.RecomputeShares(ctx, result.ID, result.Travelers); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: reshare: %w", err)
		}
	}

	return result, nil
}

// Delete removes a trip by ID. Dependent rows cascade at the schema level.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Summary derives the trip-level reconciliation view from current rows:
// total planned budget, total spent (sum of per-traveler shares), remaining,
// and percent spent. Holds no cache — every call re-reads the store.
func (s *TripService) Summary(ctx context.Context, tripID uuid.UUID) (domain.TripSummary, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}

	budgets, err := s.budgets.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	var totalBudget float64
	for _, b := range budgets {
		totalBudget += b.Budget
	}

	spent, err := s.expenses.SumShares(ctx, tripID)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}

	summary := domain.TripSummary{
		Trip:        trip,
		TotalBudget: totalBudget,
		SpentSoFar:  spent,
		Remaining:   totalBudget - spent,
	}
	if totalBudget > 0 {
		summary.PercentSpent = spent / totalBudget * 100
	}
	return summary, nil
}

// validateTrip enforces business rules common to both Create and Update.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
