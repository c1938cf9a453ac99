package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Dashboard(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboard(stats))
}

func (s *Server) handleAging(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Aging(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgingReport(report))
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	ownerID := userID(r)

	pending, err := s.reminders.Pending(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	history, err := s.reminders.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, remindersResponse{
		Pending: toPendingReminders(pending),
		History: toReminders(history),
	})
}
