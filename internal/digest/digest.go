// Package digest reduces free-text resume content into a small structured
// set of talking points used to source interview questions.
package digest

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// Extract asks the model for the four digest categories and parses the
// reply defensively. Extraction is best-effort: any transport or parse
// failure yields an all-empty digest rather than an error, so question
// generation can always proceed on the conversational path.
func Extract(ctx context.Context, client llm.Client, resumeText, role, level string) *types.ResumeDigest {
	prompt := prompts.Format(prompts.MustGet("interview.json", "digest_extraction"), map[string]string{
		"ResumeText": resumeText,
		"Role":       role,
		"Level":      level,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite, llm.TempExtraction)
	if err != nil {
		return types.NewResumeDigest()
	}

	return Parse(raw)
}

// Parse decodes a digest reply. Missing or malformed fields default to
// empty slices; a reply that is not JSON at all yields an empty digest.
func Parse(raw string) *types.ResumeDigest {
	var d types.ResumeDigest
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &d); err != nil {
		return types.NewResumeDigest()
	}

	d.Skills = cleanItems(d.Skills)
	d.Projects = cleanItems(d.Projects)
	d.ExperienceHighlights = cleanItems(d.ExperienceHighlights)
	d.Certifications = cleanItems(d.Certifications)
	return &d
}

// cleanItems trims whitespace and drops empty entries, preserving order.
func cleanItems(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
