package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
)

type checklistRow struct {
	ID       *uuid.UUID `json:"id"`
	Category string     `json:"category"`
	Task     string     `json:"task"`
	Notes    string     `json:"notes"`
	Done     bool       `json:"done"`
}

type putChecklistRequest struct {
	Items []checklistRow `json:"items"`
}

// GetChecklist handles GET /api/trips/{id}/checklist. The first read seeds
// the standard packing/preparation items.
func (s *Server) GetChecklist(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.checklist.GetOrBootstrap(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if items == nil {
		items = []domain.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// PutChecklist handles PUT /api/trips/{id}/checklist. The body is the
// complete desired state; items missing from it are deleted.
func (s *Server) PutChecklist(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	var req putChecklistRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	items := make([]domain.ChecklistItem, len(req.Items))
	for i, row := range req.Items {
		item := domain.ChecklistItem{
			TripID:   id,
			Category: row.Category,
			Task:     row.Task,
			Notes:    row.Notes,
			Done:     row.Done,
		}
		if row.ID != nil {
			item.ID = *row.ID
		}
		items[i] = item
	}

	saved, err := s.checklist.Replace(r.Context(), id, items)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if saved == nil {
		saved = []domain.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, saved)
}
