package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// ReservationService implements reservation bootstrapping, the upsert-plus-
// prune save, and the reservation→reminder state machine.
type ReservationService struct {
	trips        repo.TripRepo
	reservations repo.ReservationRepo
	reminders    repo.ReminderRepo

	// rearmSent controls whether moving a cancellation date after the
	// reminder already fired resets it to unsent. Off by default.
	rearmSent bool
}

// NewReservationService constructs a ReservationService backed by the provided repos.
func NewReservationService(trips repo.TripRepo, reservations repo.ReservationRepo, reminders repo.ReminderRepo, rearmSent bool) *ReservationService {
	return &ReservationService{
		trips:        trips,
		reservations: reservations,
		reminders:    reminders,
		rearmSent:    rearmSent,
	}
}

// GetOrBootstrap returns the trip's reservations, seeding the fixed
// placeholder slots when the trip has none yet.
func (s *ReservationService) GetOrBootstrap(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ReservationService.GetOrBootstrap: %w", err)
	}

	reservations, err := s.reservations.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.GetOrBootstrap: %w", err)
	}

	if len(reservations) == 0 {
		today := time.Now().UTC()
		seed := make([]domain.Reservation, len(domain.DefaultReservationTypes))
		for i, typ := range domain.DefaultReservationTypes {
			seed[i] = domain.Reservation{TripID: tripID, Type: typ, BookingDate: today}
		}
		reservations, err = s.reservations.CreateMany(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("service.ReservationService.GetOrBootstrap: seed: %w", err)
		}
	}

	if reservations == nil {
		return []domain.Reservation{}, nil
	}
	return reservations, nil
}

// Save reconciles the trip's reservation set with the payload (update rows
// carrying an ID, insert new ones, prune the rest) and then reconciles each
// saved reservation's reminder:
//
//   - confirmed + cancellation date set → a reminder exists scheduled at the
//     cancellation date, addressed to notifyEmail; an existing reminder is
//     re-scheduled, staying sent unless re-arming is enabled.
//   - otherwise → any reminder for the reservation is removed.
//
// With an empty notifyEmail no reminder is ever armed, only disarmed.
func (s *ReservationService) Save(ctx context.Context, tripID uuid.UUID, reservations []domain.Reservation, notifyEmail string) ([]domain.Reservation, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ReservationService.Save: %w", err)
	}

	today := time.Now().UTC()
	for i, r := range reservations {
		if r.Amount < 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
			return nil, fmt.Errorf("%w: amounts must be numeric and >= 0", domain.ErrValidation)
		}
		if r.BookingDate.IsZero() {
			reservations[i].BookingDate = today
		}
	}

	saved, err := s.reservations.UpsertPrune(ctx, tripID, reservations)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.Save: %w", err)
	}

	for _, r := range saved {
		if err := s.reconcileReminder(ctx, r, notifyEmail); err != nil {
			return nil, fmt.Errorf("service.ReservationService.Save: %w", err)
		}
	}

	return saved, nil
}

// reconcileReminder drives one reservation through the reminder state machine.
func (s *ReservationService) reconcileReminder(ctx context.Context, r domain.Reservation, notifyEmail string) error {
	armed := r.Confirmed && r.CancellationDate != nil && notifyEmail != ""

	existing, err := s.reminders.GetByReservationID(ctx, r.ID)
	switch {
	case err == nil && !armed:
		return s.reminders.DeleteByReservationID(ctx, r.ID)

	case err == nil && armed:
		if existing.SendAt.Equal(*r.CancellationDate) && existing.Email == notifyEmail {
			return nil
		}
		return s.reminders.UpdateSchedule(ctx, existing.ID, notifyEmail, *r.CancellationDate, s.rearmSent && existing.Sent)

	case errors.Is(err, domain.ErrNotFound) && armed:
		_, err := s.reminders.Create(ctx, domain.Reminder{
			ReservationID: r.ID,
			Email:         notifyEmail,
			SendAt:        *r.CancellationDate,
		})
		return err

	case errors.Is(err, domain.ErrNotFound):
		return nil

	default:
		return err
	}
}
