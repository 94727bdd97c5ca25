package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// isoDate accepts either a bare "2006-01-02" date or a full RFC 3339
// timestamp, since browser date inputs send the former and API clients tend
// to send the latter.
type isoDate struct {
	time.Time
}

func (d *isoDate) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

type cityRequest struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type tripRequest struct {
	Name        string        `json:"name"`
	StartDate   isoDate       `json:"start_date"`
	EndDate     isoDate       `json:"end_date"`
	Travelers   int           `json:"travelers"`
	Lat         *float64      `json:"lat"`
	Lon         *float64      `json:"lon"`
	Description string        `json:"description"`
	Cities      []cityRequest `json:"cities"`
}

func (req tripRequest) toDomain() domain.Trip {
	trip := domain.Trip{
		Name:        req.Name,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		Travelers:   req.Travelers,
		Lat:         req.Lat,
		Lon:         req.Lon,
		Description: req.Description,
	}
	for _, c := range req.Cities {
		trip.Cities = append(trip.Cities, domain.TripCity{
			Name:    c.Name,
			Country: c.Country,
			Lat:     c.Lat,
			Lon:     c.Lon,
		})
	}
	return trip
}

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type tripListResponse struct {
	Data       []domain.Trip      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, r, domain.ErrInvalidCredentials)
		return
	}

	var req tripRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.trips.Create(r.Context(), principal.UserID, req.toDomain())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /api/trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, r, domain.ErrInvalidCredentials)
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListByOwner(r.Context(), principal.UserID, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if trips == nil {
		trips = []domain.Trip{}
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data: trips,
		Pagination: paginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	trip, err := s.authorizeTrip(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	var req tripRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	trip := req.toDomain()
	trip.ID = id
	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTripSummary handles GET /api/trips/{id}/summary.
func (s *Server) GetTripSummary(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	summary, err := s.trips.Summary(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// queryInt parses an optional integer query parameter, returning nil when the
// parameter is absent or not a number.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
