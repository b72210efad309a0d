package models

// Missing keyword categories produced by the analysis prompt.
const (
	CategoryTechnicalSkills = "Technical Skills"
	CategorySoftSkills      = "Soft Skills"
	CategoryExperience      = "Experience"
	CategoryEducation       = "Education/Certifications"
)

// KeywordCategories is the display order of missing keyword categories.
var KeywordCategories = []string{
	CategoryTechnicalSkills,
	CategorySoftSkills,
	CategoryExperience,
	CategoryEducation,
}

// EvaluationResult is the parsed outcome of one resume analysis. It is
// built once per request and never mutated afterwards. MatchScore is nil
// when the model reply carried no recognizable score; RawModelText always
// holds the full reply so nothing is lost on a parse failure.
type EvaluationResult struct {
	MatchScore          *int                `json:"match_score"`
	MissingKeywords     map[string][]string `json:"missing_keywords,omitempty"`
	MissingSkills       []string            `json:"missing_skills"`
	Suggestions         []string            `json:"suggestions"`
	Strengths           []string            `json:"strengths,omitempty"`
	ProfileSummary      string              `json:"profile_summary,omitempty"`
	KeyRoleRequirements string              `json:"key_role_requirements,omitempty"`
	RawModelText        string              `json:"raw_model_text"`
}
