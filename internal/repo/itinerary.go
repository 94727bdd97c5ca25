package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// ItineraryRepo defines the persistence operations for itinerary days.
// Days are keyed by (trip_id, day); a replace save is the complete desired
// state and prunes days missing from the payload.
type ItineraryRepo interface {
	// ListByTripID returns all itinerary days for a trip ordered by day number.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error)

	// InsertMissing adds the given days where the trip has no row for that day
	// number yet. Existing days are untouched, so bootstrap is idempotent.
	InsertMissing(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) error

	// ReplaceAll upserts the given days by (trip_id, day) and deletes any day
	// of the trip absent from the payload, all in one transaction.
	// Returns the persisted days ordered by day number.
	ReplaceAll(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) ([]domain.ItineraryDay, error)
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, trip_id, day, date, city, activity, notes, created_at, updated_at`

func (r *pgItineraryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itinerary_days
		WHERE trip_id = @trip_id
		ORDER BY day`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var days []domain.ItineraryDay
	for rows.Next() {
		d, err := scanItineraryDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripID: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripID: rows: %w", err)
	}
	return days, nil
}

func (r *pgItineraryRepo) InsertMissing(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) error {
	const q = `
		INSERT INTO itinerary_days (trip_id, day, date, city, activity, notes)
		VALUES (@trip_id, @day, @date, @city, @activity, @notes)
		ON CONFLICT (trip_id, day) DO NOTHING`

	for _, d := range days {
		if _, err := r.db.Exec(ctx, q, itineraryArgs(tripID, d)); err != nil {
			return fmt.Errorf("repo.ItineraryRepo.InsertMissing: %w", err)
		}
	}
	return nil
}

func (r *pgItineraryRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) ([]domain.ItineraryDay, error) {
	keep := make([]int, 0, len(days))
	for _, d := range days {
		keep = append(keep, d.Day)
	}

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}

		// Prune days absent from the payload. An empty payload deletes all days.
		const del = `DELETE FROM itinerary_days WHERE trip_id = @trip_id AND NOT (day = ANY(@keep::int[]))`
		if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID, "keep": keep}); err != nil {
			return err
		}

		const up = `
			INSERT INTO itinerary_days (trip_id, day, date, city, activity, notes)
			VALUES (@trip_id, @day, @date, @city, @activity, @notes)
			ON CONFLICT (trip_id, day) DO UPDATE
			SET date       = EXCLUDED.date,
			    city       = EXCLUDED.city,
			    activity   = EXCLUDED.activity,
			    notes      = EXCLUDED.notes,
			    updated_at = now()`

		for _, d := range days {
			if _, err := tx.Exec(ctx, up, itineraryArgs(tripID, d)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ReplaceAll: %w", err)
	}

	return r.ListByTripID(ctx, tripID)
}

func itineraryArgs(tripID uuid.UUID, d domain.ItineraryDay) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":  tripID,
		"day":      d.Day,
		"date":     d.Date,
		"city":     d.City,
		"activity": d.Activity,
		"notes":    d.Notes,
	}
}

func scanItineraryDay(s scanner) (domain.ItineraryDay, error) {
	var (
		d        domain.ItineraryDay
		id, trip pgtype.UUID
		date     pgtype.Date
	)

	err := s.Scan(&id, &trip, &d.Day, &date, &d.City, &d.Activity, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryDay{}, domain.ErrNotFound
		}
		return domain.ItineraryDay{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(trip.Bytes)
	if date.Valid {
		t := date.Time
		d.Date = &t
	}
	return d, nil
}
