// Package analysis implements standalone ATS-style resume analysis:
// one extraction call scoring a resume against target roles and an
// optional job description.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
)

// Analyzer runs resume analyses over a shared LLM client.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze assesses resumeText against the target roles and job
// description. Unlike the interview-side extraction, failures surface to
// the caller: this is an interactive endpoint with nothing sensible to
// degrade to.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string, roles []string, jobDescription string) (*types.ResumeAnalysis, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is required")
	}

	prompt := llm.BuildExtractionPrompt(llm.ResumeAnalysisSchema(), buildInput(resumeText, roles, jobDescription))

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard, llm.TempExtraction)
	if err != nil {
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}

	var result types.ResumeAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	normalize(&result)
	return &result, nil
}

// buildInput assembles the extraction input: roles and job description
// first so the resume body cannot push them out of a truncated context.
func buildInput(resumeText string, roles []string, jobDescription string) string {
	var sb strings.Builder

	if len(roles) > 0 {
		sb.WriteString("Target roles: ")
		sb.WriteString(strings.Join(roles, ", "))
		sb.WriteString("\n\n")
	}

	if strings.TrimSpace(jobDescription) != "" {
		sb.WriteString("Job description:\n")
		sb.WriteString(jobDescription)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Resume:\n")
	sb.WriteString(resumeText)
	return sb.String()
}

func normalize(r *types.ResumeAnalysis) {
	r.ATSScore = clampPercent(r.ATSScore)
	r.SkillsMatchPercentage = clampPercent(r.SkillsMatchPercentage)

	if r.SkillsFound == nil {
		r.SkillsFound = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []types.AnalysisWeak{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	normalizeFoundMissed(&r.SoftSkills)
	normalizeFoundMissed(&r.Certifications)
}

func normalizeFoundMissed(s *types.SkillsFoundMissed) {
	if s.Found == nil {
		s.Found = []string{}
	}
	if s.Missing == nil {
		s.Missing = []string{}
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
