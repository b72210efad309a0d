package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the ATS analysis prompt. The instruction block
// is fixed; only the resume and job description vary, so the same pair of
// inputs always produces the same prompt.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an elite Applicant Tracking System (ATS) expert with deep specialization in technical recruitment for fields including software engineering, data science, machine learning, data analysis, big data engineering, cloud computing, and IT roles. You have 15+ years of experience in technical recruiting for top tech companies.

Analyze the provided resume against the job description with extreme precision and provide:

1. A percentage match score between the resume and job description. Be realistic but fair - most candidates don't exceed 85%% match.
2. A detailed, categorized list of important keywords/skills from the job description missing in the resume. Categorize them as: Technical Skills, Soft Skills, Experience, Education/Certifications.
3. A compelling professional summary of the candidate's profile.
4. 3-5 specific, actionable recommendations to improve the resume for this particular job.
5. 2-3 strengths of the resume relative to the job description.
6. A brief explanation of why certain skills/experiences are particularly valuable for this role.

Resume:
%s

Job Description:
%s

Return your analysis in the following JSON format only:
{
    "JD Match": "XX%%",
    "MissingKeywords": {
        "Technical Skills": ["skill1", "skill2"],
        "Soft Skills": ["skill1", "skill2"],
        "Experience": ["exp1", "exp2"],
        "Education/Certifications": ["cert1", "cert2"]
    },
    "Profile Summary": "Compelling summary of the candidate's profile",
    "Improvement Suggestions": ["suggestion1", "suggestion2", "suggestion3"],
    "Resume Strengths": ["strength1", "strength2"],
    "Key Role Requirements": "Brief explanation of the most critical skills for this role"
}

Be thorough but ensure you maintain valid JSON format. Focus on practical, actionable insights that would genuinely help the candidate.`,
		resumeText, jobDescription)
}
