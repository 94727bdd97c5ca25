package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is a packing/preparation task for a trip.
type ChecklistItem struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Category  string    `json:"category"`
	Task      string    `json:"task"`
	Notes     string    `json:"notes"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultChecklist is seeded for a trip the first time its checklist is read
// and the trip has no items yet.
var DefaultChecklist = []ChecklistItem{
	{Category: "Documents", Task: "ID and Passport"},
	{Category: "Documents", Task: "Visa"},
	{Category: "Documents", Task: "Fotocopy of Passport and Visa"},
	{Category: "Documents", Task: "International Driver's Licence"},
	{Category: "Documents", Task: "Hotel and Transport Reservations"},
	{Category: "Money", Task: "International Credit/Debit Card"},
	{Category: "Health", Task: "Basic First Aid Kit"},
	{Category: "Health", Task: "Vaccinations"},
	{Category: "Health", Task: "Health Insurance"},
	{Category: "Technology", Task: "Charger and Plug Adapters"},
	{Category: "Technology", Task: "Power Bank"},
	{Category: "Technology", Task: "International SIM Card/eSIM"},
}
