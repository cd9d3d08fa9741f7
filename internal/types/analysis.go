package types

// AnalyzeResumeRequest is the payload for standalone resume analysis.
// The job description may be pasted inline or fetched from a URL; the two
// are mutually exclusive.
type AnalyzeResumeRequest struct {
	ResumeText        string   `json:"resume_text" validate:"required"`
	Roles             []string `json:"roles,omitempty"`
	JobDescription    string   `json:"job_description,omitempty"`
	JobDescriptionURL string   `json:"job_description_url,omitempty" validate:"omitempty,url"`
}

// ResumeAnalysis is the ATS-style assessment of a resume against target roles.
type ResumeAnalysis struct {
	ATSScore              int               `json:"ats_score"`
	SkillsMatchPercentage int               `json:"skills_match_percentage"`
	SkillsFound           []string          `json:"skills_found"`
	MissingSkills         []string          `json:"missing_skills"`
	Strengths             []string          `json:"strengths"`
	Weaknesses            []AnalysisWeak    `json:"weaknesses"`
	Suggestions           []string          `json:"suggestions"`
	SoftSkills            SkillsFoundMissed `json:"soft_skills"`
	Certifications        SkillsFoundMissed `json:"certifications"`
}

// AnalysisWeak pairs a weakness with the reason it matters.
type AnalysisWeak struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// SkillsFoundMissed splits a skill category into found and missing items.
type SkillsFoundMissed struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}
