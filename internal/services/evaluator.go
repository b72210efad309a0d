package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/animesh-mishra100/resume-ai/internal/models"
)

// EvaluatorService runs one resume analysis: validate inputs, build the
// prompt, call the model, parse the reply.
type EvaluatorService interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*models.EvaluationResult, error)
}

type evaluatorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	parser        ResponseParser
	maxInputChars int
	maxRetries    int
}

func NewEvaluatorService(
	geminiService GeminiService,
	maxInputChars int,
	maxRetries int,
) EvaluatorService {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &evaluatorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		parser:        NewResponseParser(),
		maxInputChars: maxInputChars,
		maxRetries:    maxRetries,
	}
}

// Analyze implements EvaluatorService. Validation failures and oversized
// inputs are rejected before any network call. When the reply carries no
// recognizable score, the degraded result is returned together with
// models.ErrParseAmbiguous so the caller can still render the raw reply.
func (e *evaluatorService) Analyze(ctx context.Context, resumeText, jobDescription string) (*models.EvaluationResult, error) {
	resumeText = strings.TrimSpace(resumeText)
	jobDescription = strings.TrimSpace(jobDescription)

	if resumeText == "" {
		return nil, models.ErrEmptyResume
	}
	if jobDescription == "" {
		return nil, models.ErrEmptyJobDescription
	}

	combined := utf8.RuneCountInString(resumeText) + utf8.RuneCountInString(jobDescription)
	if combined > e.maxInputChars {
		return nil, fmt.Errorf("%w: %d characters (limit %d)", models.ErrInputTooLarge, combined, e.maxInputChars)
	}

	prompt := e.promptBuilder.BuildAnalysisPrompt(resumeText, jobDescription)
	log.Printf("📝 Analysis prompt length: %d characters", len(prompt))

	response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	log.Printf("✅ Analysis response received: %d characters", len(response))

	result := e.parser.Parse(response)
	if result.MatchScore == nil {
		return result, models.ErrParseAmbiguous
	}

	return result, nil
}
