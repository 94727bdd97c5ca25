package handler

import (
	"net/http"

	"github.com/xgraupera/WanderWise/internal/domain"
)

type itineraryRow struct {
	Day      int      `json:"day"`
	Date     *isoDate `json:"date"`
	City     string   `json:"city"`
	Activity string   `json:"activity"`
	Notes    string   `json:"notes"`
}

type putItineraryRequest struct {
	Days []itineraryRow `json:"days"`
}

// GetItinerary handles GET /api/trips/{id}/itinerary. The first read seeds
// one empty row per trip day.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	days, err := s.itinerary.GetOrBootstrap(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if days == nil {
		days = []domain.ItineraryDay{}
	}
	writeJSON(w, http.StatusOK, days)
}

// PutItinerary handles PUT /api/trips/{id}/itinerary. The body is the
// complete desired state; day numbers missing from it are deleted, and an
// empty list clears the itinerary.
func (s *Server) PutItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	var req putItineraryRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	days := make([]domain.ItineraryDay, len(req.Days))
	for i, row := range req.Days {
		d := domain.ItineraryDay{
			TripID:   id,
			Day:      row.Day,
			City:     row.City,
			Activity: row.Activity,
			Notes:    row.Notes,
		}
		if row.Date != nil {
			t := row.Date.Time
			d.Date = &t
		}
		days[i] = d
	}

	saved, err := s.itinerary.Replace(r.Context(), id, days)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if saved == nil {
		saved = []domain.ItineraryDay{}
	}
	writeJSON(w, http.StatusOK, saved)
}
