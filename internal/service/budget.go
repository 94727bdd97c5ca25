package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// BudgetService implements the category bootstrapper and budget aggregator.
// Spent, overbudget, and percentage figures are derived from expense rows on
// every read, so they are always consistent with the latest write.
type BudgetService struct {
	trips    repo.TripRepo
	budgets  repo.BudgetRepo
	expenses repo.ExpenseRepo
	log      *slog.Logger
}

// NewBudgetService constructs a BudgetService backed by the provided repos.
func NewBudgetService(trips repo.TripRepo, budgets repo.BudgetRepo, expenses repo.ExpenseRepo, log *slog.Logger) *BudgetService {
	return &BudgetService{trips: trips, budgets: budgets, expenses: expenses, log: log}
}

// EnsureCategories bootstraps and aggregates a trip's budget categories.
//
// The category set returned is the union of the fixed default list, rows
// already in the budget table, and every category name observed in the trip's
// expenses; any name missing from the budget table is inserted as a
// zero-budget row. The call is idempotent: it never deletes or mutates an
// existing category's planned amount, only adds missing rows.
//
// Returns domain.ErrNotFound when the trip does not exist.
func (s *BudgetService) EnsureCategories(ctx context.Context, tripID uuid.UUID) (domain.BudgetReport, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.BudgetReport{}, fmt.Errorf("service.BudgetService.EnsureCategories: %w", err)
	}

	spent, err := s.expenses.SumSharesByCategory(ctx, tripID)
	if err != nil {
		return domain.BudgetReport{}, fmt.Errorf("service.BudgetService.EnsureCategories: %w", err)
	}

	// Seed defaults plus any category the expense table knows about. The
	// insert is conflict-free per name, so concurrent bootstraps converge on
	// the same set without duplicates.
	union := make([]string, 0, len(domain.DefaultBudgetCategories)+len(spent))
	union = append(union, domain.DefaultBudgetCategories...)
	for category := range spent {
		union = append(union, category)
	}
	if err := s.budgets.InsertMissing(ctx, tripID, union); err != nil {
		return domain.BudgetReport{}, fmt.Errorf("service.BudgetService.EnsureCategories: %w", err)
	}

	categories, err := s.budgets.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.BudgetReport{}, fmt.Errorf("service.BudgetService.EnsureCategories: %w", err)
	}

	return s.reconcile(tripID, categories, spent), nil
}

// Replace swaps the trip's full category list in one transaction.
// Planned amounts must be non-negative and category names unique; validation
// failures reject the whole save before any write.
func (s *BudgetService) Replace(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return fmt.Errorf("service.BudgetService.Replace: %w", err)
	}

	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Category)
		if name == "" {
			return fmt.Errorf("%w: category name is required", domain.ErrValidation)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate category %q", domain.ErrValidation, name)
		}
		seen[name] = true
		if c.Budget < 0 || math.IsNaN(c.Budget) || math.IsInf(c.Budget, 0) {
			return fmt.Errorf("%w: budget for %q must be a non-negative number", domain.ErrValidation, name)
		}
	}

	if err := s.budgets.ReplaceAll(ctx, tripID, categories); err != nil {
		return fmt.Errorf("service.BudgetService.Replace: %w", err)
	}
	return nil
}

// DeleteCategory removes one category row. A category with nonzero spend is
// protected server-side: the deletion is rejected with a validation error
// instead of leaving expense rows pointing at a vanished bucket.
func (s *BudgetService) DeleteCategory(ctx context.Context, tripID uuid.UUID, category string) error {
	spent, err := s.expenses.SumSharesByCategory(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.BudgetService.DeleteCategory: %w", err)
	}
	if spent[category] > 0 {
		return fmt.Errorf("%w: category %q has recorded expenses and cannot be deleted", domain.ErrValidation, category)
	}

	if err := s.budgets.DeleteByCategory(ctx, tripID, category); err != nil {
		return fmt.Errorf("service.BudgetService.DeleteCategory: %w", err)
	}
	return nil
}

// reconcile fills derived figures for each category and sums the totals.
// A malformed spent figure (NaN/Inf from corrupt rows) is skipped and logged
// rather than failing the whole report; this read path favors availability.
func (s *BudgetService) reconcile(tripID uuid.UUID, categories []domain.BudgetCategory, spent map[string]float64) domain.BudgetReport {
	report := domain.BudgetReport{Categories: make([]domain.BudgetCategory, 0, len(categories))}

	for _, c := range categories {
		sum := spent[c.Category]
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			s.log.Warn("skipping malformed expense sum", "trip_id", tripID, "category", c.Category)
			sum = 0
		}
		c.Reconcile(sum)

		report.Categories = append(report.Categories, c)
		report.Totals.Budget += c.Budget
		report.Totals.Spent += c.Spent
		report.Totals.Overbudget += c.Overbudget
	}

	return report
}
