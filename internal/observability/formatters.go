// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + "\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintResumeAnalysis outputs a human-readable summary of a resume analysis.
func (p *Printer) PrintResumeAnalysis(analysis *types.ResumeAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ATS Score:     %d/100\n", analysis.ATSScore))
	sb.WriteString(fmt.Sprintf("Skills Match:  %d%%\n", analysis.SkillsMatchPercentage))
	sb.WriteString("\n")

	writeList(&sb, "Skills Found:", analysis.SkillsFound)
	writeList(&sb, "Missing Skills:", analysis.MissingSkills)
	writeList(&sb, "Strengths:", analysis.Strengths)

	if len(analysis.Weaknesses) > 0 {
		sb.WriteString("Weaknesses:\n")
		count := min(len(analysis.Weaknesses), maxItemsToShow)
		for i := 0; i < count; i++ {
			w := analysis.Weaknesses[i]
			sb.WriteString(fmt.Sprintf("  • %s", w.Text))
			if w.Reason != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", w.Reason))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	writeList(&sb, "Suggestions:", analysis.Suggestions)

	p.printBox("RESUME ANALYSIS", strings.TrimRight(sb.String(), "\n"))
}

// PrintDigest outputs the extracted resume digest by category.
func (p *Printer) PrintDigest(digest *types.ResumeDigest) {
	if digest == nil {
		return
	}

	var sb strings.Builder
	if digest.IsEmpty() {
		sb.WriteString("No digest items extracted.\n")
		sb.WriteString("Questions will be conversational only.")
	} else {
		for _, cat := range digest.Categories() {
			writeList(&sb, titleCase(cat.Name)+":", cat.Items)
		}
	}

	p.printBox("RESUME DIGEST", strings.TrimRight(sb.String(), "\n"))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PrintFinalReport outputs the end-of-interview evaluation summary.
func (p *Printer) PrintFinalReport(report *types.FinalReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	overall := report.OverallEvaluation

	sb.WriteString(fmt.Sprintf("Role:       %s (%s)\n", report.Metadata.Role, report.Metadata.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("Questions:  %d\n", report.Metadata.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Score:      %d/10\n", overall.Score))
	sb.WriteString(fmt.Sprintf("Verdict:    %s\n", overall.Recommendation.Verdict))
	sb.WriteString("\n")

	if overall.Summary != "" {
		sb.WriteString(overall.Summary + "\n\n")
	}

	writeList(&sb, "Technical Strengths:", overall.TechnicalCompetency.Strengths)
	writeList(&sb, "Technical Weaknesses:", overall.TechnicalCompetency.Weaknesses)
	writeList(&sb, "Soft Skill Strengths:", overall.SoftSkills.Strengths)

	for _, qa := range report.QuestionAnalyses {
		sb.WriteString(fmt.Sprintf("Q%d/%d [%d/10] %s\n", qa.Position, qa.OfTotal, qa.OverallScore, qa.Question))
	}

	p.printBox("INTERVIEW REPORT", strings.TrimRight(sb.String(), "\n"))
}
