package types

import "time"

// FinalReport is the end-of-session evaluation: one holistic verdict plus
// one analysis per conversation turn. The two halves come from independent
// model calls and are surfaced unreconciled. Created once at session
// completion and immutable afterwards.
type FinalReport struct {
	OverallEvaluation OverallEvaluation  `json:"overall_evaluation"`
	QuestionAnalyses  []QuestionAnalysis `json:"question_analyses"`
	Metadata          ReportMetadata     `json:"metadata"`
}

// OverallEvaluation is the holistic summary of the candidate's performance.
type OverallEvaluation struct {
	Score               int                `json:"score"`
	Summary             string             `json:"summary"`
	TechnicalCompetency CompetencyBreakout `json:"technical_competency"`
	SoftSkills          CompetencyBreakout `json:"soft_skills"`
	CulturalFit         string             `json:"cultural_fit"`
	Recommendation      Recommendation     `json:"recommendation"`
}

// CompetencyBreakout lists strengths and weaknesses for one competency area.
type CompetencyBreakout struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Recommendation is the hiring verdict with its justification.
type Recommendation struct {
	Verdict   string `json:"verdict"`
	Rationale string `json:"rationale"`
}

// QuestionAnalysis is the deep per-question evaluation from the batch call.
type QuestionAnalysis struct {
	Question              string        `json:"question"`
	Answer                string        `json:"answer"`
	TechnicalScore        int           `json:"technical_score"`
	CommunicationScore    int           `json:"communication_score"`
	ProblemSolvingScore   int           `json:"problem_solving_score"`
	OverallScore          int           `json:"overall_score"`
	KeyStrengths          []string      `json:"key_strengths"`
	ImprovementPriorities []string      `json:"improvement_priorities"`
	ConfidenceScore       int           `json:"confidence_score"`
	Position              int           `json:"position"`
	OfTotal               int           `json:"of_total"`
	IdealResponse         IdealResponse `json:"ideal_response,omitempty"`
}

// IdealResponse sketches what a strong answer would have contained.
type IdealResponse struct {
	RequiredElements   []string `json:"required_elements,omitempty"`
	AdvancedComponents []string `json:"advanced_components,omitempty"`
}

// ReportMetadata is stamped locally at report generation time, never
// sourced from the model.
type ReportMetadata struct {
	Role            string    `json:"role"`
	ExperienceLevel string    `json:"experience_level"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
	TotalQuestions  int       `json:"total_questions"`
}
