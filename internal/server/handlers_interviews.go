// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

// handleStartInterview opens a new interview session: validates inputs,
// extracts the resume digest, and returns the session ID with the opening
// question. Authentication is optional; anonymous sessions run normally
// but their reports are not persisted.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req types.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	sess, err := interview.NewSession(interview.Params{
		UserID:          s.optionalUserID(r),
		ResumeText:      req.ResumeText,
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		JobDescription:  req.JobDescription,
		DurationMinutes: req.DurationMinutes,
	}, interview.Config{
		Client:     s.llmClient,
		Summarizer: s.summarizer,
		OnComplete: s.persistReport,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := sess.Start(r.Context()); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start interview session")
		return
	}

	s.sessions.Add(sess)

	digest := sess.Digest()
	s.jsonResponse(w, http.StatusCreated, types.StartInterviewResponse{
		SessionID:        sess.ID,
		Question:         sess.PendingQuestion(),
		RemainingMinutes: sess.Status().RemainingMinutes,
		DigestEmpty:      digest == nil || digest.IsEmpty(),
	})
}

// handleSubmitAnswer accepts the candidate's answer to the pending
// question and returns the next question plus any live evaluation.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	var req types.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp, err := sess.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		s.errorResponse(w, sessionErrorStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleEndInterview terminates a session and returns its final report.
// Ending is idempotent: repeat calls return the same report.
func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	rep, err := sess.End(r.Context())
	if err != nil {
		s.errorResponse(w, sessionErrorStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, rep)
}

// handleInterviewStatus returns the live view of a session.
func (s *Server) handleInterviewStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Status())
}

// sessionFromPath resolves the {id} path segment to a registered session,
// writing the error response itself when resolution fails.
func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) (*interview.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// sessionErrorStatus maps session operation errors to HTTP status codes.
func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, interview.ErrEmptyAnswer):
		return http.StatusBadRequest
	case errors.Is(err, interview.ErrAnswerInFlight),
		errors.Is(err, interview.ErrSessionNotActive),
		errors.Is(err, interview.ErrSessionEnded),
		errors.Is(err, interview.ErrAlreadyStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// optionalUserID resolves the bearer token to a user ID when one is
// presented. A missing or invalid token yields uuid.Nil rather than an
// error; interview routes do not require authentication.
func (s *Server) optionalUserID(r *http.Request) uuid.UUID {
	if s.jwtService == nil {
		return uuid.Nil
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil
	}
	claims, err := s.jwtService.ValidateToken(parts[1])
	if err != nil {
		return uuid.Nil
	}
	return claims.UserID
}

// persistReport stores the generated report for authenticated sessions.
// Called from the session's completion path, which may be the countdown
// goroutine rather than a request handler.
func (s *Server) persistReport(sess *interview.Session, rep *types.FinalReport) {
	if s.reports == nil || sess.UserID == uuid.Nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.reports.SaveReport(ctx, &db.ReportInput{
		UserID:          sess.UserID,
		SessionID:       sess.ID,
		Role:            rep.Metadata.Role,
		ExperienceLevel: rep.Metadata.ExperienceLevel,
		OverallScore:    rep.OverallEvaluation.Score,
		TotalQuestions:  rep.Metadata.TotalQuestions,
		Report:          rep,
	})
	if err != nil {
		log.Printf("Failed to persist report for session %s: %v", sess.ID, err)
	}
}
