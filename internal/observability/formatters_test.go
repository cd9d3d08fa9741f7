package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintResumeAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResumeAnalysis(&types.ResumeAnalysis{
		ATSScore:              78,
		SkillsMatchPercentage: 64,
		SkillsFound:           []string{"Go", "PostgreSQL"},
		MissingSkills:         []string{"Terraform"},
		Strengths:             []string{"Production experience"},
		Weaknesses: []types.AnalysisWeak{
			{Text: "No metrics", Reason: "impact is hard to judge"},
		},
		Suggestions: []string{"Quantify results"},
	})

	out := buf.String()
	assert.Contains(t, out, "RESUME ANALYSIS")
	assert.Contains(t, out, "ATS Score:     78/100")
	assert.Contains(t, out, "Skills Match:  64%")
	assert.Contains(t, out, "• Go")
	assert.Contains(t, out, "• Terraform")
	assert.Contains(t, out, "No metrics (impact is hard to judge)")
	assert.Contains(t, out, "• Quantify results")
}

func TestPrintResumeAnalysis_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResumeAnalysis(&types.ResumeAnalysis{
		SkillsFound: []string{"a", "b", "c", "d", "e", "f", "g"},
	})

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintResumeAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResumeAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintDigest(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDigest(&types.ResumeDigest{
		Skills:   []string{"Go", "Kubernetes"},
		Projects: []string{"Payment gateway"},
	})

	out := buf.String()
	assert.Contains(t, out, "RESUME DIGEST")
	assert.Contains(t, out, "Skills:")
	assert.Contains(t, out, "• Kubernetes")
	assert.Contains(t, out, "Projects:")
	assert.NotContains(t, out, "Certifications:")
}

func TestPrintDigest_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDigest(types.NewResumeDigest())

	out := buf.String()
	assert.Contains(t, out, "No digest items extracted.")
	assert.Contains(t, out, "conversational only")
}

func TestPrintFinalReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFinalReport(&types.FinalReport{
		OverallEvaluation: types.OverallEvaluation{
			Score:   8,
			Summary: "Confident, well-structured answers.",
			TechnicalCompetency: types.CompetencyBreakout{
				Strengths:  []string{"Deep Go knowledge"},
				Weaknesses: []string{"Limited infra exposure"},
			},
			Recommendation: types.Recommendation{Verdict: "Hire"},
		},
		QuestionAnalyses: []types.QuestionAnalysis{
			{Question: "Describe a hard bug.", OverallScore: 7, Position: 1, OfTotal: 2},
			{Question: "How do you test?", OverallScore: 9, Position: 2, OfTotal: 2},
		},
		Metadata: types.ReportMetadata{
			Role:            "Backend Engineer",
			ExperienceLevel: "Senior",
			AnalyzedAt:      time.Now(),
			TotalQuestions:  2,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "INTERVIEW REPORT")
	assert.Contains(t, out, "Backend Engineer (Senior)")
	assert.Contains(t, out, "Score:      8/10")
	assert.Contains(t, out, "Verdict:    Hire")
	assert.Contains(t, out, "Q1/2 [7/10]")
	assert.Contains(t, out, "Q2/2 [9/10]")
}

func TestPrintFinalReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFinalReport(nil)

	assert.Empty(t, buf.String())
}
