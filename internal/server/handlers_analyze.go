// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-coach/internal/types"
)

// ResumeAnalyzer produces ATS-style resume assessments.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string, roles []string, jobDescription string) (*types.ResumeAnalysis, error)
}

// handleAnalyzeResume runs a standalone resume analysis against target
// roles and an optional job description, supplied inline or by URL.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.JobDescription != "" && req.JobDescriptionURL != "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description and job_description_url are mutually exclusive")
		return
	}

	jobDescription := req.JobDescription
	if req.JobDescriptionURL != "" {
		text, err := s.fetchJobDescription(r.Context(), req.JobDescriptionURL)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch job description: %v", err))
			return
		}
		jobDescription = text
	}

	result, err := s.analyzer.Analyze(r.Context(), req.ResumeText, req.Roles, jobDescription)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("Resume analysis failed: %v", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
