package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
)

type reservationRow struct {
	ID               *uuid.UUID `json:"id"`
	Type             string     `json:"type"`
	Provider         string     `json:"provider"`
	BookingDate      *isoDate   `json:"booking_date"`
	Date             *isoDate   `json:"date"`
	CancellationDate *isoDate   `json:"cancellation_date"`
	Amount           float64    `json:"amount"`
	Confirmed        bool       `json:"confirmed"`
	Link             string     `json:"link"`
}

type putReservationsRequest struct {
	Reservations []reservationRow `json:"reservations"`
}

// GetReservations handles GET /api/trips/{id}/reservations. The first read
// seeds the default placeholder rows.
func (s *Server) GetReservations(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	reservations, err := s.reservations.GetOrBootstrap(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// PutReservations handles PUT /api/trips/{id}/reservations. The body is the
// complete desired state; rows missing from it are deleted. Saving also
// reconciles each reservation's cancellation-deadline reminder against the
// caller's email.
func (s *Server) PutReservations(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, r, domain.ErrInvalidCredentials)
		return
	}

	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	var req putReservationsRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	reservations := make([]domain.Reservation, len(req.Reservations))
	for i, row := range req.Reservations {
		res := domain.Reservation{
			TripID:    id,
			Type:      row.Type,
			Provider:  row.Provider,
			Amount:    row.Amount,
			Confirmed: row.Confirmed,
			Link:      row.Link,
		}
		if row.ID != nil {
			res.ID = *row.ID
		}
		if row.BookingDate != nil {
			res.BookingDate = row.BookingDate.Time
		}
		if row.Date != nil {
			t := row.Date.Time
			res.Date = &t
		}
		if row.CancellationDate != nil {
			t := row.CancellationDate.Time
			res.CancellationDate = &t
		}
		reservations[i] = res
	}

	saved, err := s.reservations.Save(r.Context(), id, reservations, principal.Email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if saved == nil {
		saved = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, saved)
}
