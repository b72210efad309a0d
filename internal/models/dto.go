package models

type AnalyzeResponse struct {
	ID      string            `json:"id,omitempty"`
	Result  *EvaluationResult `json:"result"`
	Warning string            `json:"warning,omitempty"`
}

type AnalysisResponse struct {
	ID             string            `json:"id"`
	ResumeSource   string            `json:"resume_source"`
	ResumeFilename string            `json:"resume_filename,omitempty"`
	JobDescription string            `json:"job_description"`
	CreatedAt      string            `json:"created_at"`
	Result         *EvaluationResult `json:"result,omitempty"`
}

type AnalysisSummary struct {
	ID         string `json:"id"`
	MatchScore *int   `json:"match_score,omitempty"`
	JobSnippet string `json:"job_snippet"`
	CreatedAt  string `json:"created_at"`
}

type SimilarAnalysis struct {
	AnalysisSummary
	Similarity float32 `json:"similarity"`
}
