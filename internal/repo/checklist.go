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

// ChecklistRepo defines the persistence operations for checklist items.
type ChecklistRepo interface {
	// ListByTripID returns all checklist items for a trip in insertion order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)

	// CreateMany inserts the given items and returns the persisted rows.
	CreateMany(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error)

	// ReplaceAll swaps the trip's checklist for the given items in a single
	// transaction. An empty payload clears the checklist.
	ReplaceAll(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error)
}

// pgChecklistRepo is the Postgres implementation of ChecklistRepo.
type pgChecklistRepo struct {
	db db
}

// NewChecklistRepo constructs a ChecklistRepo backed by the provided db connection.
func NewChecklistRepo(db db) ChecklistRepo {
	return &pgChecklistRepo{db: db}
}

const checklistColumns = `id, trip_id, category, task, notes, done, created_at, updated_at`

func (r *pgChecklistRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	const q = `
		SELECT ` + checklistColumns + `
		FROM checklist_items
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var items []domain.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ChecklistRepo.ListByTripID: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByTripID: rows: %w", err)
	}
	return items, nil
}

func (r *pgChecklistRepo) CreateMany(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
	out := make([]domain.ChecklistItem, 0, len(items))
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, item := range items {
			saved, err := insertChecklistItem(ctx, tx, tripID, item)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.CreateMany: %w", err)
	}
	return out, nil
}

func (r *pgChecklistRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
	out := make([]domain.ChecklistItem, 0, len(items))
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM checklist_items WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID}); err != nil {
			return err
		}
		for _, item := range items {
			saved, err := insertChecklistItem(ctx, tx, tripID, item)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ReplaceAll: %w", err)
	}
	return out, nil
}

func insertChecklistItem(ctx context.Context, tx pgx.Tx, tripID uuid.UUID, item domain.ChecklistItem) (domain.ChecklistItem, error) {
	const q = `
		INSERT INTO checklist_items (trip_id, category, task, notes, done)
		VALUES (@trip_id, @category, @task, @notes, @done)
		RETURNING ` + checklistColumns

	args := pgx.NamedArgs{
		"trip_id":  tripID,
		"category": item.Category,
		"task":     item.Task,
		"notes":    item.Notes,
		"done":     item.Done,
	}
	return scanChecklistItem(tx.QueryRow(ctx, q, args))
}

func scanChecklistItem(s scanner) (domain.ChecklistItem, error) {
	var (
		item     domain.ChecklistItem
		id, trip pgtype.UUID
	)

	err := s.Scan(&id, &trip, &item.Category, &item.Task, &item.Notes, &item.Done, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChecklistItem{}, domain.ErrNotFound
		}
		return domain.ChecklistItem{}, err
	}

	item.ID = uuid.UUID(id.Bytes)
	item.TripID = uuid.UUID(trip.Bytes)
	return item, nil
}
