package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryDay is one planned day of a trip, keyed by (trip, day number).
// Day numbers are 1-based and contiguous by convention only; a replace save
// is the complete desired state and prunes days missing from it.
type ItineraryDay struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"trip_id"`
	Day       int        `json:"day"`
	Date      *time.Time `json:"date,omitempty"`
	City      string     `json:"city"`
	Activity  string     `json:"activity"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
