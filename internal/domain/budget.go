package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBudgetCategories is the fixed category list seeded for a trip the
// first time its budgets are read. Order matters: rows are created and listed
// in this order so a fresh trip always renders the same way.
var DefaultBudgetCategories = []string{
	"Flights",
	"Accommodation",
	"Internal Transport",
	"Insurance",
	"Visa",
	"Activities",
	"Meals",
	"SIM",
	"Others",
}

// BudgetCategory is a named budget bucket for one trip. Only Budget is
// stored; Spent, Overbudget, and Percentage are derived from expense rows on
// every read so they can never drift from the expense table.
type BudgetCategory struct {
	ID       uuid.UUID `json:"id"`
	TripID   uuid.UUID `json:"trip_id"`
	Category string    `json:"category"`
	Budget   float64   `json:"budget"`

	// Derived on read, zero-valued when the category comes straight from the store.
	Spent      float64 `json:"spent"`
	Overbudget float64 `json:"overbudget"`
	Percentage float64 `json:"percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetTotals aggregates the derived category figures across a whole trip.
type BudgetTotals struct {
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Overbudget float64 `json:"overbudget"`
}

// BudgetReport is the aggregator's output: the trip's complete category list
// with derived figures, plus totals across categories.
type BudgetReport struct {
	Categories []BudgetCategory `json:"categories"`
	Totals     BudgetTotals     `json:"totals"`
}

// Reconcile fills the derived fields from the given spent figure:
// overbudget = max(0, spent-budget), percentage = spent/budget*100 for a
// nonzero budget and 0 otherwise.
func (b *BudgetCategory) Reconcile(spent float64) {
	b.Spent = spent
	b.Overbudget = spent - b.Budget
	if b.Overbudget < 0 {
		b.Overbudget = 0
	}
	if b.Budget > 0 {
		b.Percentage = spent / b.Budget * 100
	} else {
		b.Percentage = 0
	}
}
