// Package report implements the end-of-session evaluation pipeline: one
// batch call analyzing every turn, one holistic call producing the
// overall verdict, merged into a single immutable report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// placeholderSummary fills the holistic block when the model call fails.
// The session-completion view must always have a renderable report.
const placeholderSummary = "Summary unavailable: the evaluation service could not produce an overall assessment for this session."

// Aggregator generates final reports. The two model calls have no
// ordering dependency and run concurrently; each half fails independently
// into a defined default, so Summarize never returns an error.
type Aggregator struct {
	client llm.Client
	now    func() time.Time
}

// NewAggregator creates an aggregator over the shared LLM client.
func NewAggregator(client llm.Client) *Aggregator {
	return &Aggregator{client: client, now: time.Now}
}

// Summarize runs the per-question batch analysis and the holistic summary
// and merges both halves without cross-validation. Metadata is stamped
// locally, never sourced from the model.
func (a *Aggregator) Summarize(ctx context.Context, role, level, resumeText, jobDescription string, history []types.ConversationTurn) *types.FinalReport {
	transcript := FormatTranscript(history)

	var analyses []types.QuestionAnalysis
	var overall *types.OverallEvaluation

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		analyses = a.batchAnalyses(gCtx, role, level, transcript, len(history))
		return nil
	})

	g.Go(func() error {
		overall = a.holisticSummary(gCtx, role, level, resumeText, jobDescription, transcript)
		return nil
	})

	// Both goroutines resolve to defaults on failure, never errors.
	_ = g.Wait()

	if overall == nil {
		overall = placeholderEvaluation()
	}
	if analyses == nil {
		analyses = []types.QuestionAnalysis{}
	}

	return &types.FinalReport{
		OverallEvaluation: *overall,
		QuestionAnalyses:  analyses,
		Metadata: types.ReportMetadata{
			Role:            role,
			ExperienceLevel: level,
			AnalyzedAt:      a.now(),
			TotalQuestions:  len(history),
		},
	}
}

// batchAnalyses is one call for all turns, not one call per turn, to
// bound latency and cost. Any failure yields an empty sequence.
func (a *Aggregator) batchAnalyses(ctx context.Context, role, level, transcript string, turns int) []types.QuestionAnalysis {
	if turns == 0 {
		return []types.QuestionAnalysis{}
	}

	prompt := prompts.Format(prompts.MustGet("interview.json", "batch_analysis"), map[string]string{
		"Role":       role,
		"Level":      level,
		"Transcript": transcript,
	})

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierAdvanced, llm.TempExtraction)
	if err != nil {
		return nil
	}

	if err := schemas.Validate(schemas.BatchAnalyses, []byte(raw)); err != nil {
		return nil
	}

	var reply struct {
		Analyses []types.QuestionAnalysis `json:"analyses"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil
	}

	// A reply that does not cover every turn is as unusable as a parse
	// failure: the report invariant ties analyses 1:1 to history.
	if len(reply.Analyses) != turns {
		return nil
	}

	for i := range reply.Analyses {
		reply.Analyses[i].OverallScore = clampScore(reply.Analyses[i].OverallScore)
		reply.Analyses[i].Position = i + 1
		reply.Analyses[i].OfTotal = turns
		if reply.Analyses[i].KeyStrengths == nil {
			reply.Analyses[i].KeyStrengths = []string{}
		}
		if reply.Analyses[i].ImprovementPriorities == nil {
			reply.Analyses[i].ImprovementPriorities = []string{}
		}
	}
	return reply.Analyses
}

// holisticSummary is one call over resume, role, level, optional job
// description, and the full transcript. Any failure yields nil and the
// caller substitutes the placeholder block.
func (a *Aggregator) holisticSummary(ctx context.Context, role, level, resumeText, jobDescription, transcript string) *types.OverallEvaluation {
	jobBlock := ""
	if strings.TrimSpace(jobDescription) != "" {
		jobBlock = fmt.Sprintf("**Job Requirements:**\n%s\n\n", jobDescription)
	}

	prompt := prompts.Format(prompts.MustGet("interview.json", "final_summary"), map[string]string{
		"Role":                role,
		"Level":               level,
		"ResumeText":          resumeText,
		"JobDescriptionBlock": jobBlock,
		"Transcript":          transcript,
	})

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierAdvanced, llm.TempScoring)
	if err != nil {
		return nil
	}

	if err := schemas.Validate(schemas.OverallEvaluation, []byte(raw)); err != nil {
		return nil
	}

	var eval types.OverallEvaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil
	}

	eval.Score = clampScore(eval.Score)
	normalizeBreakout(&eval.TechnicalCompetency)
	normalizeBreakout(&eval.SoftSkills)
	return &eval
}

// FormatTranscript renders the history the way the evaluation prompts
// expect it: numbered question/answer pairs.
func FormatTranscript(history []types.ConversationTurn) string {
	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("QUESTION %d: %s\nANSWER %d: %s", i+1, turn.Question, i+1, turn.Answer))
	}
	return sb.String()
}

func placeholderEvaluation() *types.OverallEvaluation {
	return &types.OverallEvaluation{
		Score:   0,
		Summary: placeholderSummary,
		TechnicalCompetency: types.CompetencyBreakout{
			Strengths:  []string{},
			Weaknesses: []string{},
		},
		SoftSkills: types.CompetencyBreakout{
			Strengths:  []string{},
			Weaknesses: []string{},
		},
		Recommendation: types.Recommendation{
			Verdict:   "Unavailable",
			Rationale: "The holistic evaluation call failed; per-question analyses, if present, are unaffected.",
		},
	}
}

func normalizeBreakout(b *types.CompetencyBreakout) {
	if b.Strengths == nil {
		b.Strengths = []string{}
	}
	if b.Weaknesses == nil {
		b.Weaknesses = []string{}
	}
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
