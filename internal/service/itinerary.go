package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// ItineraryService implements itinerary bootstrapping and full-replace saves.
type ItineraryService struct {
	trips     repo.TripRepo
	itinerary repo.ItineraryRepo
}

// NewItineraryService constructs an ItineraryService backed by the provided repos.
func NewItineraryService(trips repo.TripRepo, itinerary repo.ItineraryRepo) *ItineraryService {
	return &ItineraryService{trips: trips, itinerary: itinerary}
}

// GetOrBootstrap returns the trip's itinerary, seeding one empty row per trip
// day (dates walked from the start date) when the trip has none yet.
// Seeding never touches existing rows, so repeated calls are idempotent.
func (s *ItineraryService) GetOrBootstrap(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.GetOrBootstrap: %w", err)
	}

	days, err := s.itinerary.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.GetOrBootstrap: %w", err)
	}

	if len(days) == 0 && trip.DurationDays > 0 {
		seed := make([]domain.ItineraryDay, trip.DurationDays)
		for i := range seed {
			date := trip.StartDate.AddDate(0, 0, i)
			seed[i] = domain.ItineraryDay{Day: i + 1, Date: &date}
		}
		if err := s.itinerary.InsertMissing(ctx, tripID, seed); err != nil {
			return nil, fmt.Errorf("service.ItineraryService.GetOrBootstrap: seed: %w", err)
		}
		days, err = s.itinerary.ListByTripID(ctx, tripID)
		if err != nil {
			return nil, fmt.Errorf("service.ItineraryService.GetOrBootstrap: %w", err)
		}
	}

	if days == nil {
		return []domain.ItineraryDay{}, nil
	}
	return days, nil
}

// Replace upserts the incoming days by day number and deletes any day of the
// trip absent from the payload — the payload is the complete desired state,
// so an empty list clears the itinerary. Runs in one transaction.
func (s *ItineraryService) Replace(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) ([]domain.ItineraryDay, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Replace: %w", err)
	}

	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Day < 1 {
			return nil, fmt.Errorf("%w: day numbers start at 1", domain.ErrValidation)
		}
		if seen[d.Day] {
			return nil, fmt.Errorf("%w: duplicate day %d", domain.ErrValidation, d.Day)
		}
		seen[d.Day] = true
	}

	saved, err := s.itinerary.ReplaceAll(ctx, tripID, days)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Replace: %w", err)
	}
	if saved == nil {
		return []domain.ItineraryDay{}, nil
	}
	return saved, nil
}
