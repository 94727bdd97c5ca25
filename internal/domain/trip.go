// Package domain contains the core data types for the WanderWise backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Trip is the aggregate root grouping all planning data for one journey.
// Budgets, expenses, itinerary days, reservations, and checklist items all
// hang off a trip and are deleted with it.
type Trip struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	DurationDays int        `json:"duration_days"` // derived from the dates, never client-supplied
	Travelers    int        `json:"travelers"`
	Lat          *float64   `json:"lat,omitempty"`
	Lon          *float64   `json:"lon,omitempty"`
	Description  string     `json:"description,omitempty"`
	Cities       []TripCity `json:"cities,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TripCity is a city the trip visits. Lat/Lon are nil when the city was
// entered by hand rather than picked from a geocoder result.
type TripCity struct {
	ID      uuid.UUID `json:"id"`
	TripID  uuid.UUID `json:"trip_id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	Lat     *float64  `json:"lat,omitempty"`
	Lon     *float64  `json:"lon,omitempty"`
}

// TripSummary is the trip-level budget reconciliation view: total planned
// budget across categories, total spent (sum of per-traveler expense shares),
// and the derived remaining/percent figures.
type TripSummary struct {
	Trip         Trip    `json:"trip"`
	TotalBudget  float64 `json:"total_budget"`
	SpentSoFar   float64 `json:"spent_so_far"`
	Remaining    float64 `json:"remaining"`
	PercentSpent float64 `json:"percent_spent"`
}

// DurationDays computes the inclusive day count between start and end:
// ceil((end-start)/24h) + 1, clamped to zero when end precedes start.
// A one-day trip (start == end) has a duration of 1.
func DurationDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours()/24)) + 1
	if days < 0 {
		return 0
	}
	return days
}
