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

// ExpenseRepo defines the persistence operations for expenses.
type ExpenseRepo interface {
	// ListByTripID returns all expenses for a trip ordered by date ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)

	// ReplaceForOwner swaps one owner's expense set for the given list in a
	// single transaction and returns the created count. Other owners' rows
	// are untouched.
	ReplaceForOwner(ctx context.Context, tripID uuid.UUID, ownerID string, expenses []domain.Expense) (int, error)

	// SumSharesByCategory returns SUM(amount_per_traveler) per category for a trip.
	SumSharesByCategory(ctx context.Context, tripID uuid.UUID) (map[string]float64, error)

	// SumShares returns SUM(amount_per_traveler) across all of a trip's expenses.
	SumShares(ctx context.Context, tripID uuid.UUID) (float64, error)

	// RecomputeShares rewrites amount_per_traveler for every splittable
	// expense of a trip from the given traveler count. Called after the
	// trip's traveler count changes.
	RecomputeShares(ctx context.Context, tripID uuid.UUID, travelers int) error
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, owner_id, date, place, category, description, amount, paid_by, do_not_split, amount_per_traveler, created_at`

func (r *pgExpenseRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY date, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: rows: %w", err)
	}
	return expenses, nil
}

func (r *pgExpenseRepo) ReplaceForOwner(ctx context.Context, tripID uuid.UUID, ownerID string, expenses []domain.Expense) (int, error) {
	created := 0
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}

		const del = `DELETE FROM expenses WHERE trip_id = @trip_id AND owner_id = @owner_id`
		if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID, "owner_id": ownerID}); err != nil {
			return err
		}

		const ins = `
			INSERT INTO expenses (trip_id, owner_id, date, place, category, description, amount, paid_by, do_not_split, amount_per_traveler)
			VALUES (@trip_id, @owner_id, @date, @place, @category, @description, @amount, @paid_by, @do_not_split, @amount_per_traveler)`

		for _, e := range expenses {
			args := pgx.NamedArgs{
				"trip_id":             tripID,
				"owner_id":            ownerID,
				"date":                e.Date,
				"place":               e.Place,
				"category":            e.Category,
				"description":         e.Description,
				"amount":              e.Amount,
				"paid_by":             e.PaidBy,
				"do_not_split":        e.DoNotSplit,
				"amount_per_traveler": e.AmountPerTraveler,
			}
			if _, err := tx.Exec(ctx, ins, args); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("repo.ExpenseRepo.ReplaceForOwner: %w", err)
	}
	return created, nil
}

func (r *pgExpenseRepo) SumSharesByCategory(ctx context.Context, tripID uuid.UUID) (map[string]float64, error) {
	const q = `
		SELECT category, COALESCE(SUM(amount_per_traveler), 0)
		FROM expenses
		WHERE trip_id = @trip_id
		GROUP BY category`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.SumSharesByCategory: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var (
			category string
			sum      float64
		)
		if err := rows.Scan(&category, &sum); err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.SumSharesByCategory: scan: %w", err)
		}
		sums[category] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.SumSharesByCategory: rows: %w", err)
	}
	return sums, nil
}

func (r *pgExpenseRepo) SumShares(ctx context.Context, tripID uuid.UUID) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(amount_per_traveler), 0)
		FROM expenses
		WHERE trip_id = @trip_id`

	var sum float64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(&sum); err != nil {
		return 0, fmt.Errorf("repo.ExpenseRepo.SumShares: %w", err)
	}
	return sum, nil
}

func (r *pgExpenseRepo) RecomputeShares(ctx context.Context, tripID uuid.UUID, travelers int) error {
	if travelers < 1 {
		travelers = 1
	}

	const q = `
		UPDATE expenses
		SET amount_per_traveler = amount / @travelers
		WHERE trip_id = @trip_id AND do_not_split = false`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "travelers": travelers})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.RecomputeShares: %w", err)
	}
	return nil
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e        domain.Expense
		id, trip pgtype.UUID
		date     pgtype.Date
	)

	err := s.Scan(&id, &trip, &e.OwnerID, &date, &e.Place, &e.Category, &e.Description,
		&e.Amount, &e.PaidBy, &e.DoNotSplit, &e.AmountPerTraveler, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(trip.Bytes)
	e.Date = date.Time
	return e, nil
}
