package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// ReminderRepo defines the persistence operations for cancellation reminders.
type ReminderRepo interface {
	// GetByReservationID retrieves the reminder attached to a reservation.
	// Returns domain.ErrNotFound when the reservation has no reminder.
	GetByReservationID(ctx context.Context, reservationID uuid.UUID) (domain.Reminder, error)

	// Create inserts a new reminder and returns the persisted record.
	Create(ctx context.Context, reminder domain.Reminder) (domain.Reminder, error)

	// UpdateSchedule moves a reminder's send time and recipient. When rearm is
	// true a sent reminder is reset to unsent so it fires again at the new time.
	UpdateSchedule(ctx context.Context, id uuid.UUID, email string, sendAt time.Time, rearm bool) error

	// DeleteByReservationID removes all reminders attached to a reservation.
	// Deleting zero rows is not an error: clearing a cancellation date that
	// never had a reminder is a no-op.
	DeleteByReservationID(ctx context.Context, reservationID uuid.UUID) error

	// ClaimDue atomically marks up to limit due reminders (sent=false,
	// send_at<=now) as sent and returns them joined with their reservation
	// type. Rows locked by a concurrent sweep are skipped, so overlapping
	// sweeps never claim the same reminder.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]domain.DueReminder, error)

	// ResetSent flips a claimed reminder back to unsent after a failed
	// notification so a later sweep retries it.
	ResetSent(ctx context.Context, id uuid.UUID) error
}

// pgReminderRepo is the Postgres implementation of ReminderRepo.
type pgReminderRepo struct {
	db db
}

// NewReminderRepo constructs a ReminderRepo backed by the provided db connection.
func NewReminderRepo(db db) ReminderRepo {
	return &pgReminderRepo{db: db}
}

const reminderColumns = `id, reservation_id, email, send_at, sent, created_at`

func (r *pgReminderRepo) GetByReservationID(ctx context.Context, reservationID uuid.UUID) (domain.Reminder, error) {
	const q = `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE reservation_id = @reservation_id
		ORDER BY created_at
		LIMIT 1`

	result, err := scanReminder(r.db.QueryRow(ctx, q, pgx.NamedArgs{"reservation_id": reservationID}))
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("repo.ReminderRepo.GetByReservationID: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) Create(ctx context.Context, reminder domain.Reminder) (domain.Reminder, error) {
	const q = `
		INSERT INTO reminders (reservation_id, email, send_at)
		VALUES (@reservation_id, @email, @send_at)
		RETURNING ` + reminderColumns

	args := pgx.NamedArgs{
		"reservation_id": reminder.ReservationID,
		"email":          reminder.Email,
		"send_at":        reminder.SendAt,
	}

	result, err := scanReminder(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("repo.ReminderRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, email string, sendAt time.Time, rearm bool) error {
	const q = `
		UPDATE reminders
		SET email   = @email,
		    send_at = @send_at,
		    sent    = CASE WHEN @rearm THEN false ELSE sent END
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "email": email, "send_at": sendAt, "rearm": rearm})
	if err != nil {
		return fmt.Errorf("repo.ReminderRepo.UpdateSchedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReminderRepo.UpdateSchedule: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgReminderRepo) DeleteByReservationID(ctx context.Context, reservationID uuid.UUID) error {
	const q = `DELETE FROM reminders WHERE reservation_id = @reservation_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"reservation_id": reservationID}); err != nil {
		return fmt.Errorf("repo.ReminderRepo.DeleteByReservationID: %w", err)
	}
	return nil
}

func (r *pgReminderRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]domain.DueReminder, error) {
	// The subquery locks candidate rows (skipping ones a concurrent sweep
	// holds) and the UPDATE claims them in the same statement, so a reminder
	// is handed to exactly one sweep. A send failure is compensated by
	// ResetSent, restoring the row for the next sweep.
	const q = `
		UPDATE reminders rem
		SET sent = true
		FROM reservations res
		WHERE rem.reservation_id = res.id
		  AND rem.id IN (
			SELECT id FROM reminders
			WHERE sent = false AND send_at <= @now
			ORDER BY send_at
			LIMIT @limit
			FOR UPDATE SKIP LOCKED
		)
		RETURNING rem.id, rem.reservation_id, rem.email, rem.send_at, rem.sent, rem.created_at, res.type`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"now": now, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.ReminderRepo.ClaimDue: %w", err)
	}
	defer rows.Close()

	var claimed []domain.DueReminder
	for rows.Next() {
		var (
			due         domain.DueReminder
			id, reserve pgtype.UUID
		)
		err := rows.Scan(&id, &reserve, &due.Email, &due.SendAt, &due.Sent, &due.CreatedAt, &due.ReservationType)
		if err != nil {
			return nil, fmt.Errorf("repo.ReminderRepo.ClaimDue: scan: %w", err)
		}
		due.ID = uuid.UUID(id.Bytes)
		due.ReservationID = uuid.UUID(reserve.Bytes)
		claimed = append(claimed, due)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReminderRepo.ClaimDue: rows: %w", err)
	}
	return claimed, nil
}

func (r *pgReminderRepo) ResetSent(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE reminders SET sent = false WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.ReminderRepo.ResetSent: %w", err)
	}
	return nil
}

func scanReminder(s scanner) (domain.Reminder, error) {
	var (
		rem         domain.Reminder
		id, reserve pgtype.UUID
	)

	err := s.Scan(&id, &reserve, &rem.Email, &rem.SendAt, &rem.Sent, &rem.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reminder{}, domain.ErrNotFound
		}
		return domain.Reminder{}, err
	}

	rem.ID = uuid.UUID(id.Bytes)
	rem.ReservationID = uuid.UUID(reserve.Bytes)
	return rem, nil
}
