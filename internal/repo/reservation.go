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

// ReservationRepo defines the persistence operations for reservations.
type ReservationRepo interface {
	// ListByTripID returns all reservations for a trip in insertion order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error)

	// CreateMany inserts the given reservations and returns the persisted rows.
	CreateMany(ctx context.Context, reservations []domain.Reservation) ([]domain.Reservation, error)

	// UpsertPrune reconciles the trip's reservation set with the payload in
	// one transaction: rows carrying a known ID are updated in place (so
	// attached reminders keep their foreign key), rows without an ID are
	// inserted, and existing rows absent from the payload are deleted
	// (their reminders cascade). Returns the persisted rows.
	UpsertPrune(ctx context.Context, tripID uuid.UUID, reservations []domain.Reservation) ([]domain.Reservation, error)
}

// pgReservationRepo is the Postgres implementation of ReservationRepo.
type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db connection.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

const reservationColumns = `id, trip_id, type, provider, booking_date, date, cancellation_date, amount, confirmed, link, created_at, updated_at`

func (r *pgReservationRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReservationRepo.ListByTripID: scan: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByTripID: rows: %w", err)
	}
	return reservations, nil
}

func (r *pgReservationRepo) CreateMany(ctx context.Context, reservations []domain.Reservation) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(reservations))
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, res := range reservations {
			saved, err := insertReservation(ctx, tx, res)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.CreateMany: %w", err)
	}
	return out, nil
}

func (r *pgReservationRepo) UpsertPrune(ctx context.Context, tripID uuid.UUID, reservations []domain.Reservation) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(reservations))
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(reservations))
		for _, res := range reservations {
			if res.ID != uuid.Nil {
				keep = append(keep, res.ID)
			}
		}

		// Prune first so a freed unique slot cannot collide with an insert.
		const del = `DELETE FROM reservations WHERE trip_id = @trip_id AND NOT (id = ANY(@keep::uuid[]))`
		if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID, "keep": keep}); err != nil {
			return err
		}

		for _, res := range reservations {
			res.TripID = tripID

			if res.ID == uuid.Nil {
				saved, err := insertReservation(ctx, tx, res)
				if err != nil {
					return err
				}
				out = append(out, saved)
				continue
			}

			const up = `
				UPDATE reservations
				SET type              = @type,
				    provider          = @provider,
				    booking_date      = @booking_date,
				    date              = @date,
				    cancellation_date = @cancellation_date,
				    amount            = @amount,
				    confirmed         = @confirmed,
				    link              = @link,
				    updated_at        = now()
				WHERE id = @id AND trip_id = @trip_id
				RETURNING ` + reservationColumns

			args := reservationArgs(res)
			args["id"] = res.ID

			saved, err := scanReservation(tx.QueryRow(ctx, up, args))
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// ID belongs to another trip or was deleted concurrently;
					// treat the row as new rather than failing the whole save.
					res.ID = uuid.Nil
					saved, err = insertReservation(ctx, tx, res)
					if err != nil {
						return err
					}
					out = append(out, saved)
					continue
				}
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.UpsertPrune: %w", err)
	}
	return out, nil
}

func insertReservation(ctx context.Context, tx pgx.Tx, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		INSERT INTO reservations (trip_id, type, provider, booking_date, date, cancellation_date, amount, confirmed, link)
		VALUES (@trip_id, @type, @provider, @booking_date, @date, @cancellation_date, @amount, @confirmed, @link)
		RETURNING ` + reservationColumns

	return scanReservation(tx.QueryRow(ctx, q, reservationArgs(res)))
}

func reservationArgs(res domain.Reservation) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":           res.TripID,
		"type":              res.Type,
		"provider":          res.Provider,
		"booking_date":      res.BookingDate,
		"date":              res.Date,
		"cancellation_date": res.CancellationDate,
		"amount":            res.Amount,
		"confirmed":         res.Confirmed,
		"link":              res.Link,
	}
}

func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res          domain.Reservation
		id, trip     pgtype.UUID
		booking      pgtype.Date
		date, cancel pgtype.Date
	)

	err := s.Scan(&id, &trip, &res.Type, &res.Provider, &booking, &date, &cancel,
		&res.Amount, &res.Confirmed, &res.Link, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}

	res.ID = uuid.UUID(id.Bytes)
	res.TripID = uuid.UUID(trip.Bytes)
	res.BookingDate = booking.Time
	if date.Valid {
		t := date.Time
		res.Date = &t
	}
	if cancel.Valid {
		t := cancel.Time
		res.CancellationDate = &t
	}
	return res, nil
}
