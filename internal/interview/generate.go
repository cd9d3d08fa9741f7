package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
)

// OpeningQuestion is the fixed first question of every session,
// regardless of digest content.
const OpeningQuestion = "Tell me about yourself and why you're interested in this role?"

// fallbackQuestion keeps the session moving when question generation
// fails; the pending question must stay non-empty while active.
const fallbackQuestion = "Can you walk me through that in more detail, focusing on the decisions you made and why?"

// questionReply is the model's structured reply for both generation paths.
type questionReply struct {
	Question string `json:"question"`
	Source   string `json:"source"`
}

// generateResumeQuestion synthesizes a targeted technical question about
// one digest item.
func generateResumeQuestion(ctx context.Context, client llm.Client, category, item, role, level string) (string, error) {
	prompt := prompts.Format(prompts.MustGet("interview.json", "resume_question"), map[string]string{
		"Category": category,
		"Item":     item,
		"Role":     role,
		"Level":    level,
	})
	return generateQuestion(ctx, client, prompt)
}

// generateFollowUp synthesizes a follow-up conditioned on the previous
// question and the candidate's last answer. Whether it probes deeper,
// challenges, or asks for elaboration is the model's choice.
func generateFollowUp(ctx context.Context, client llm.Client, previousQuestion, answer, role, level string) (string, error) {
	if previousQuestion == "" {
		previousQuestion = "Not asked yet"
	}
	if answer == "" {
		answer = "No response yet"
	}
	prompt := prompts.Format(prompts.MustGet("interview.json", "followup_question"), map[string]string{
		"PreviousQuestion": previousQuestion,
		"Answer":           answer,
		"Role":             role,
		"Level":            level,
	})
	return generateQuestion(ctx, client, prompt)
}

func generateQuestion(ctx context.Context, client llm.Client, prompt string) (string, error) {
	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard, llm.TempQuestion)
	if err != nil {
		return "", fmt.Errorf("question generation failed: %w", err)
	}

	var reply questionReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return "", fmt.Errorf("unparseable question reply: %w", err)
	}

	question := strings.TrimSpace(reply.Question)
	if question == "" {
		return "", fmt.Errorf("empty question in reply")
	}
	return question, nil
}

// Evaluation is the live score and feedback for one conversational turn.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// evaluateAnswer scores a single answer 1-10 with brief feedback. One LLM
// call per conversational turn; callers treat failure as "unscored" and
// keep going.
func evaluateAnswer(ctx context.Context, client llm.Client, question, answer, role, level string) (*Evaluation, error) {
	prompt := prompts.Format(prompts.MustGet("interview.json", "evaluate_answer"), map[string]string{
		"Question": question,
		"Answer":   answer,
		"Role":     role,
		"Level":    level,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite, llm.TempScoring)
	if err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, fmt.Errorf("unparseable evaluation reply: %w", err)
	}

	eval.Score = clampScore(eval.Score)
	return &eval, nil
}

// clampScore forces a score into the 1-10 range.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
