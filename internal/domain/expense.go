package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaidBySplit is the paid-by label meaning "shared by everyone". Any other
// label names the single traveller who fronted the money.
const PaidBySplit = "Split"

// Expense is a single recorded cost, owned by the principal who entered it.
// AmountPerTraveler is the splitter's output and is persisted so category
// aggregation is a plain SUM; it is recomputed whenever the expense is saved
// or the trip's traveler count changes.
type Expense struct {
	ID                uuid.UUID `json:"id"`
	TripID            uuid.UUID `json:"trip_id"`
	OwnerID           string    `json:"owner_id"` // principal email from the session
	Date              time.Time `json:"date"`
	Place             string    `json:"place"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	Amount            float64   `json:"amount"`
	PaidBy            string    `json:"paid_by"`
	DoNotSplit        bool      `json:"do_not_split"`
	AmountPerTraveler float64   `json:"amount_per_traveler"`
	CreatedAt         time.Time `json:"created_at"`
}

// SplitAmount computes the per-traveler share of an expense.
// A do-not-split expense is carried whole by each view of it; otherwise the
// raw amount is divided evenly. A traveler count below 1 is treated as 1 so
// a half-configured trip can never divide by zero.
func SplitAmount(amount float64, doNotSplit bool, travelers int) float64 {
	if doNotSplit {
		return amount
	}
	if travelers < 1 {
		travelers = 1
	}
	return amount / float64(travelers)
}
