package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
)

type expenseRow struct {
	ID          *uuid.UUID `json:"id"`
	Date        *isoDate   `json:"date"`
	Place       string     `json:"place"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	PaidBy      string     `json:"paid_by"`
	DoNotSplit  bool       `json:"do_not_split"`
}

type putExpensesRequest struct {
	Expenses []expenseRow `json:"expenses"`
}

type putExpensesResponse struct {
	Saved    int              `json:"saved"`
	Expenses []domain.Expense `json:"expenses"`
}

// GetExpenses handles GET /api/trips/{id}/expenses. The list covers every
// traveller's expenses, not just the caller's.
func (s *Server) GetExpenses(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	expenses, err := s.expenses.ListByTripID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if expenses == nil {
		expenses = []domain.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// PutExpenses handles PUT /api/trips/{id}/expenses. The body is the complete
// desired state of the CALLER's expenses; rows owned by other travellers are
// untouched. The response is the full post-save list for the trip.
func (s *Server) PutExpenses(w http.ResponseWriter, r *http.Request) {
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

	var req putExpensesRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	incoming := make([]domain.Expense, len(req.Expenses))
	for i, row := range req.Expenses {
		e := domain.Expense{
			TripID:      id,
			Place:       row.Place,
			Category:    row.Category,
			Description: row.Description,
			Amount:      row.Amount,
			PaidBy:      row.PaidBy,
			DoNotSplit:  row.DoNotSplit,
		}
		if row.ID != nil {
			e.ID = *row.ID
		}
		if row.Date != nil {
			e.Date = row.Date.Time
		}
		incoming[i] = e
	}

	saved, err := s.expenses.Replace(r.Context(), id, principal.Email, incoming)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	expenses, err := s.expenses.ListByTripID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}

	writeJSON(w, http.StatusOK, putExpensesResponse{Saved: saved, Expenses: expenses})
}
