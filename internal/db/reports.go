package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportInput carries everything needed to persist one final report.
type ReportInput struct {
	UserID          uuid.UUID
	SessionID       uuid.UUID
	Role            string
	ExperienceLevel string
	OverallScore    int
	TotalQuestions  int
	Report          any
}

// SaveReport stores a final report and returns the record ID. The report
// body is marshaled to JSONB; saving the same session twice replaces the
// earlier record.
func (db *DB) SaveReport(ctx context.Context, input *ReportInput) (uuid.UUID, error) {
	body, err := json.Marshal(input.Report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO interview_reports (user_id, session_id, role, experience_level, overall_score, total_questions, report)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (session_id) DO UPDATE
		   SET overall_score = $5, total_questions = $6, report = $7, created_at = NOW()
		 RETURNING id`,
		input.UserID, input.SessionID, input.Role, input.ExperienceLevel,
		input.OverallScore, input.TotalQuestions, body,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves a full report by record ID. Returns nil when not found.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*InterviewReport, error) {
	var r InterviewReport
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, session_id, role, experience_level, overall_score, total_questions, report, created_at
		 FROM interview_reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.SessionID, &r.Role, &r.ExperienceLevel,
		&r.OverallScore, &r.TotalQuestions, &r.Report, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &r, nil
}

// GetReportBySession retrieves a full report by session ID. Returns nil
// when not found.
func (db *DB) GetReportBySession(ctx context.Context, sessionID uuid.UUID) (*InterviewReport, error) {
	var r InterviewReport
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, session_id, role, experience_level, overall_score, total_questions, report, created_at
		 FROM interview_reports WHERE session_id = $1`,
		sessionID,
	).Scan(&r.ID, &r.UserID, &r.SessionID, &r.Role, &r.ExperienceLevel,
		&r.OverallScore, &r.TotalQuestions, &r.Report, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report by session: %w", err)
	}
	return &r, nil
}

// ListReportsByUser retrieves report summaries for a user, newest first.
func (db *DB) ListReportsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, role, experience_level, overall_score, total_questions, created_at
		 FROM interview_reports WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Role, &r.ExperienceLevel,
			&r.OverallScore, &r.TotalQuestions, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// GetUserStats aggregates a user's interview history. A user with no
// reports gets zero-valued stats, not an error.
func (db *DB) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var stats UserStats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_questions), 0),
		        COALESCE(AVG(overall_score), 0),
		        COALESCE(MAX(overall_score), 0)
		 FROM interview_reports WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalInterviews, &stats.TotalQuestions, &stats.AverageScore, &stats.BestScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	if stats.TotalInterviews > 0 {
		err = db.pool.QueryRow(ctx,
			`SELECT role FROM interview_reports WHERE user_id = $1
			 ORDER BY created_at DESC LIMIT 1`,
			userID,
		).Scan(&stats.RecentRole)
		if err != nil && err != pgx.ErrNoRows {
			return nil, fmt.Errorf("failed to get recent role: %w", err)
		}
	}

	return &stats, nil
}
