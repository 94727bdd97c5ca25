package handler

import (
	"net/http"
	"time"
)

type sweepResponse struct {
	Notified int `json:"notified"`
}

// SweepReminders handles POST /api/reminders/sweep. It runs one due-reminder
// sweep immediately, independent of the background ticker, and reports how
// many notifications went out. Useful for external schedulers (cron hitting
// the API) and for smoke-testing the mail path.
func (s *Server) SweepReminders(w http.ResponseWriter, r *http.Request) {
	notified, err := s.reminders.SweepDue(r.Context(), time.Now())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{Notified: notified})
}
