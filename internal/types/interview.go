// Package types provides type definitions for structured data used throughout the interview-coach system.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResumeDigest is the condensed, structured summary of a resume used to
// source interview questions. Every field is a non-nil slice; extraction
// that yields nothing produces empty slices, never nulls.
type ResumeDigest struct {
	Skills               []string `json:"skills"`
	Projects             []string `json:"projects"`
	ExperienceHighlights []string `json:"experience_highlights"`
	Certifications       []string `json:"certifications"`
}

// NewResumeDigest returns a digest with all categories initialized empty.
func NewResumeDigest() *ResumeDigest {
	return &ResumeDigest{
		Skills:               []string{},
		Projects:             []string{},
		ExperienceHighlights: []string{},
		Certifications:       []string{},
	}
}

// Normalize replaces nil slices with empty ones so the digest always
// serializes with all four categories present.
func (d *ResumeDigest) Normalize() {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Projects == nil {
		d.Projects = []string{}
	}
	if d.ExperienceHighlights == nil {
		d.ExperienceHighlights = []string{}
	}
	if d.Certifications == nil {
		d.Certifications = []string{}
	}
}

// IsEmpty reports whether every category is empty.
func (d *ResumeDigest) IsEmpty() bool {
	return len(d.Skills) == 0 &&
		len(d.Projects) == 0 &&
		len(d.ExperienceHighlights) == 0 &&
		len(d.Certifications) == 0
}

// Categories returns the digest as named category slices, in a fixed order.
// Empty categories are included; callers filter as needed.
func (d *ResumeDigest) Categories() []DigestCategory {
	return []DigestCategory{
		{Name: "skills", Items: d.Skills},
		{Name: "projects", Items: d.Projects},
		{Name: "experience", Items: d.ExperienceHighlights},
		{Name: "certifications", Items: d.Certifications},
	}
}

// DigestCategory is one named group of digest items.
type DigestCategory struct {
	Name  string
	Items []string
}

// QuestionSource distinguishes resume-mined questions from conversational follow-ups.
type QuestionSource string

// Question source tags.
const (
	SourceResume       QuestionSource = "resume"
	SourceConversation QuestionSource = "conversation"
)

// ConversationTurn is one question/answer exchange within an interview
// session. Score and Feedback are set only for turns that were evaluated
// live (conversational follow-ups); turns are never mutated after being
// appended to the session history.
type ConversationTurn struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Source   QuestionSource `json:"source"`
	Score    *int           `json:"score,omitempty"`
	Feedback string         `json:"feedback,omitempty"`
}

// Stage is the top-level session state.
type Stage string

// Session stages.
const (
	StageSetup     Stage = "setup"
	StageActive    Stage = "active"
	StageCompleted Stage = "completed"
)

// StartInterviewRequest is the payload to open a new interview session.
type StartInterviewRequest struct {
	ResumeText      string `json:"resume_text" validate:"required"`
	Role            string `json:"role" validate:"required"`
	ExperienceLevel string `json:"experience_level" validate:"required"`
	JobDescription  string `json:"job_description,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=15"`
}

// TrimmedFields returns the request with surrounding whitespace removed
// from the free-text inputs.
func (r *StartInterviewRequest) TrimmedFields() (resume, role, level string) {
	return strings.TrimSpace(r.ResumeText), strings.TrimSpace(r.Role), strings.TrimSpace(r.ExperienceLevel)
}

// StartInterviewResponse carries the new session ID and the opening question.
type StartInterviewResponse struct {
	SessionID        uuid.UUID `json:"session_id"`
	Question         string    `json:"question"`
	RemainingMinutes int       `json:"remaining_minutes"`
	DigestEmpty      bool      `json:"digest_empty"`
}

// SubmitAnswerRequest is the payload for answering the pending question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// SubmitAnswerResponse carries the next question plus any live evaluation
// of the answer just submitted.
type SubmitAnswerResponse struct {
	Question         string         `json:"question"`
	Source           QuestionSource `json:"source"`
	Score            *int           `json:"score,omitempty"`
	Feedback         string         `json:"feedback,omitempty"`
	RemainingMinutes int            `json:"remaining_minutes"`
	AnsweredCount    int            `json:"answered_count"`
}

// SessionStatus is the live view of an in-progress session.
type SessionStatus struct {
	SessionID        uuid.UUID `json:"session_id"`
	Stage            Stage     `json:"stage"`
	Role             string    `json:"role"`
	ExperienceLevel  string    `json:"experience_level"`
	AnsweredCount    int       `json:"answered_count"`
	AverageScore     float64   `json:"average_score"`
	RemainingMinutes int       `json:"remaining_minutes"`
	StartedAt        time.Time `json:"started_at"`
}
