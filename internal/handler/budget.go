package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/xgraupera/WanderWise/internal/domain"
)

type budgetRow struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
}

type putBudgetsRequest struct {
	Categories []budgetRow `json:"categories"`
}

// GetBudgets handles GET /api/trips/{id}/budgets. Reading the budgets also
// bootstraps the default categories and backfills any category that exists
// only as an expense label, so the report is always complete.
func (s *Server) GetBudgets(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.budgets.EnsureCategories(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// PutBudgets handles PUT /api/trips/{id}/budgets. The body is the complete
// desired category list; missing categories are deleted. The response is the
// freshly reconciled report.
func (s *Server) PutBudgets(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	var req putBudgetsRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	categories := make([]domain.BudgetCategory, len(req.Categories))
	for i, row := range req.Categories {
		categories[i] = domain.BudgetCategory{TripID: id, Category: row.Category, Budget: row.Budget}
	}

	if err := s.budgets.Replace(r.Context(), id, categories); err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.budgets.EnsureCategories(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// DeleteBudgetCategory handles DELETE /api/trips/{id}/budgets/{category}.
// Categories with recorded spending cannot be deleted.
func (s *Server) DeleteBudgetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.authorizeTrip(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	// Category names may carry spaces ("Internal Transport"); chi leaves the
	// path segment percent-encoded.
	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		s.respondError(w, r, domain.ErrValidation)
		return
	}

	if err := s.budgets.DeleteCategory(r.Context(), id, category); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
