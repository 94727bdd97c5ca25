package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultReservationTypes is the placeholder list seeded for a trip the first
// time its reservations are read, so the reservation table renders with the
// usual booking slots instead of an empty page.
var DefaultReservationTypes = []string{
	"Flight 1",
	"Hotel 1",
	"Internal Transport 1",
	"Activity 1",
	"Insurance",
	"Visa",
}

// Reservation is a booking row for a trip. A confirmed reservation with a
// cancellation deadline drives the reminder state machine: setting the
// deadline arms a reminder, moving it re-schedules, clearing it disarms.
type Reservation struct {
	ID               uuid.UUID  `json:"id"`
	TripID           uuid.UUID  `json:"trip_id"`
	Type             string     `json:"type"`
	Provider         string     `json:"provider"`
	BookingDate      time.Time  `json:"booking_date"`
	Date             *time.Time `json:"date,omitempty"` // travel date
	CancellationDate *time.Time `json:"cancellation_date,omitempty"`
	Amount           float64    `json:"amount"`
	Confirmed        bool       `json:"confirmed"`
	Link             string     `json:"link"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Reminder is a pending cancellation-deadline notification for a reservation.
// Sent is monotonic false→true under the sweep; only an explicit re-arm on a
// deadline change may reset it.
type Reminder struct {
	ID            uuid.UUID `json:"id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	Email         string    `json:"email"`
	SendAt        time.Time `json:"send_at"`
	Sent          bool      `json:"sent"`
	CreatedAt     time.Time `json:"created_at"`
}

// DueReminder is a claimed reminder joined with its reservation's type,
// which the notification body names.
type DueReminder struct {
	Reminder
	ReservationType string `json:"reservation_type"`
}
