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

// BudgetRepo defines the persistence operations for budget categories.
// Derived figures (spent, overbudget, percentage) are never stored; the
// service computes them from expense sums on every read.
type BudgetRepo interface {
	// ListByTripID returns all budget rows for a trip in insertion order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.BudgetCategory, error)

	// InsertMissing adds a zero-budget row for each named category the trip
	// does not yet have. Existing rows are left untouched, so the call is
	// idempotent and safe under concurrent bootstraps.
	InsertMissing(ctx context.Context, tripID uuid.UUID, categories []string) error

	// ReplaceAll swaps the trip's budget rows for the given list in a single
	// transaction, so a concurrent reader never observes zero categories.
	ReplaceAll(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error

	// DeleteByCategory removes one category row.
	// Returns domain.ErrNotFound if the trip has no such category.
	DeleteByCategory(ctx context.Context, tripID uuid.UUID, category string) error
}

// pgBudgetRepo is the Postgres implementation of BudgetRepo.
type pgBudgetRepo struct {
	db db
}

// NewBudgetRepo constructs a BudgetRepo backed by the provided db connection.
func NewBudgetRepo(db db) BudgetRepo {
	return &pgBudgetRepo{db: db}
}

const budgetColumns = `id, trip_id, category, budget, created_at, updated_at`

func (r *pgBudgetRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.BudgetCategory, error) {
	const q = `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE trip_id = @trip_id
		ORDER BY created_at, category`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BudgetRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var cats []domain.BudgetCategory
	for rows.Next() {
		c, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BudgetRepo.ListByTripID: scan: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BudgetRepo.ListByTripID: rows: %w", err)
	}
	return cats, nil
}

func (r *pgBudgetRepo) InsertMissing(ctx context.Context, tripID uuid.UUID, categories []string) error {
	const q = `
		INSERT INTO budgets (trip_id, category, budget)
		SELECT @trip_id, unnest(@categories::text[]), 0
		ON CONFLICT (trip_id, category) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "categories": categories})
	if err != nil {
		return fmt.Errorf("repo.BudgetRepo.InsertMissing: %w", err)
	}
	return nil
}

func (r *pgBudgetRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM budgets WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID}); err != nil {
			return err
		}

		const q = `INSERT INTO budgets (trip_id, category, budget) VALUES (@trip_id, @category, @budget)`
		for _, c := range categories {
			args := pgx.NamedArgs{"trip_id": tripID, "category": c.Category, "budget": c.Budget}
			if _, err := tx.Exec(ctx, q, args); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.BudgetRepo.ReplaceAll: %w", err)
	}
	return nil
}

func (r *pgBudgetRepo) DeleteByCategory(ctx context.Context, tripID uuid.UUID, category string) error {
	const q = `DELETE FROM budgets WHERE trip_id = @trip_id AND category = @category`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "category": category})
	if err != nil {
		return fmt.Errorf("repo.BudgetRepo.DeleteByCategory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BudgetRepo.DeleteByCategory: %w", domain.ErrNotFound)
	}
	return nil
}

func scanBudget(s scanner) (domain.BudgetCategory, error) {
	var (
		c        domain.BudgetCategory
		id, trip pgtype.UUID
	)

	err := s.Scan(&id, &trip, &c.Category, &c.Budget, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BudgetCategory{}, domain.ErrNotFound
		}
		return domain.BudgetCategory{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.TripID = uuid.UUID(trip.Bytes)
	return c, nil
}
