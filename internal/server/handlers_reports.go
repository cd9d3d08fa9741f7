// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/db"
)

// ReportStore persists and retrieves completed interview reports.
// Implemented by *db.DB.
type ReportStore interface {
	SaveReport(ctx context.Context, input *db.ReportInput) (uuid.UUID, error)
	GetReport(ctx context.Context, id uuid.UUID) (*db.InterviewReport, error)
	ListReportsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]db.ReportSummary, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*db.UserStats, error)
}

// handleListUserReports returns report summaries for a user, newest first.
func (s *Server) handleListUserReports(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
	}

	reports, err := s.reports.ListReportsByUser(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	if reports == nil {
		reports = []db.ReportSummary{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// handleGetReport returns one persisted report, including its full body.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	rep, err := s.reports.GetReport(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	if rep == nil {
		s.errorResponse(w, http.StatusNotFound, "Report not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, rep)
}

// handleUserStats returns aggregate interview statistics for a user.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	stats, err := s.reports.GetUserStats(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get user stats")
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
