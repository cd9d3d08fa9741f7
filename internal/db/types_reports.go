package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// InterviewReport is a persisted final report. The full report body is
// stored as JSONB; the scalar columns are denormalized for listing and
// stats queries.
type InterviewReport struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	SessionID       uuid.UUID       `json:"session_id"`
	Role            string          `json:"role"`
	ExperienceLevel string          `json:"experience_level"`
	OverallScore    int             `json:"overall_score"`
	TotalQuestions  int             `json:"total_questions"`
	Report          json.RawMessage `json:"report"` // raw FinalReport JSON
	CreatedAt       time.Time       `json:"created_at"`
}

// ReportSummary is the listing view of a report, without the body.
type ReportSummary struct {
	ID              uuid.UUID `json:"id"`
	SessionID       uuid.UUID `json:"session_id"`
	Role            string    `json:"role"`
	ExperienceLevel string    `json:"experience_level"`
	OverallScore    int       `json:"overall_score"`
	TotalQuestions  int       `json:"total_questions"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserStats aggregates a user's interview history.
type UserStats struct {
	TotalInterviews int     `json:"total_interviews"`
	TotalQuestions  int     `json:"total_questions"`
	AverageScore    float64 `json:"average_score"`
	BestScore       int     `json:"best_score"`
	RecentRole      string  `json:"recent_role,omitempty"`
}
