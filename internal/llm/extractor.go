// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeAnalysis")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base every assessment on the text provided, do not invent facts.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ResumeAnalysisSchema returns the extraction schema for standalone
// ATS-style resume analysis.
func ResumeAnalysisSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeAnalysis",
		Description: `You are an expert in applicant tracking systems, resume analysis, and career coaching.
Your task is to assess the resume below against the target roles (and job description, when given).
Be specific and evidence-based: cite skills and phrasing that actually appear in the resume.`,
		Fields: []SchemaField{
			{
				Name:        "ats_score",
				Type:        "number",
				Description: "0-100, overall compatibility with ATS systems",
				Required:    true,
			},
			{
				Name:        "skills_match_percentage",
				Type:        "number",
				Description: "0-100, based on role and job description",
				Required:    true,
			},
			{
				Name:        "skills_found",
				Type:        "[\"string\"]",
				Description: "Technical and role-specific skills identified in the resume",
				Required:    true,
			},
			{
				Name:        "missing_skills",
				Type:        "[\"string\"]",
				Description: "Skills relevant to the role(s) not found in the resume",
				Required:    true,
			},
			{
				Name:        "strengths",
				Type:        "[\"string\"]",
				Description: "Key resume strengths",
				Required:    true,
			},
			{
				Name:        "weaknesses",
				Type:        "[{\"text\": \"string\", \"reason\": \"string\"}]",
				Description: "Specific issues with reasoning",
				Required:    true,
			},
			{
				Name:        "suggestions",
				Type:        "[\"string\"]",
				Description: "Actionable improvement suggestions",
				Required:    true,
			},
			{
				Name:        "soft_skills",
				Type:        "{\"found\": [\"string\"], \"missing\": [\"string\"]}",
				Description: "Soft skills analysis",
				Required:    false,
			},
			{
				Name:        "certifications",
				Type:        "{\"found\": [\"string\"], \"missing\": [\"string\"]}",
				Description: "Relevant certifications present and absent",
				Required:    false,
			},
		},
	}
}
