package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/animesh-mishra100/resume-ai/internal/models"
)

// ResponseParser turns the model's free-text reply into an EvaluationResult.
// It never fails outright: whatever cannot be recognized is left empty and
// the raw reply is always preserved on the result. The parser sits behind
// this interface so the reply contract can be swapped for a provider with
// structured output without touching prompt construction.
type ResponseParser interface {
	Parse(raw string) *models.EvaluationResult
}

type atsResponseParser struct{}

func NewResponseParser() ResponseParser {
	return &atsResponseParser{}
}

var (
	// "Score: 82/100", "score - 82 / 100"
	scoreOutOfPattern = regexp.MustCompile(`(?i)score\s*[:\-]?\s*(\d{1,3})\s*/\s*100`)
	// "82%", "JD Match: 82 %"
	percentPattern = regexp.MustCompile(`(\d{1,3})\s*%`)
)

// Parse implements ResponseParser.
func (p *atsResponseParser) Parse(raw string) *models.EvaluationResult {
	result := &models.EvaluationResult{
		RawModelText:  raw,
		MissingSkills: []string{},
		Suggestions:   []string{},
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err == nil {
		p.fillFromJSON(result, data)
	}

	// Score may live inside the JSON payload or anywhere in the raw reply.
	if result.MatchScore == nil {
		result.MatchScore = parseScore(raw)
	}

	return result
}

func (p *atsResponseParser) fillFromJSON(result *models.EvaluationResult, data map[string]any) {
	if match, ok := data["JD Match"]; ok {
		result.MatchScore = parseScore(coerceString(match))
	}

	result.ProfileSummary = coerceString(data["Profile Summary"])
	result.KeyRoleRequirements = coerceString(data["Key Role Requirements"])
	result.Suggestions = coerceStringList(data["Improvement Suggestions"])
	result.Strengths = coerceStringList(data["Resume Strengths"])

	switch keywords := data["MissingKeywords"].(type) {
	case map[string]any:
		result.MissingKeywords = make(map[string][]string)
		for _, category := range models.KeywordCategories {
			skills := coerceStringList(keywords[category])
			if len(skills) == 0 {
				continue
			}
			result.MissingKeywords[category] = skills
			result.MissingSkills = append(result.MissingSkills, skills...)
		}
	case []any:
		// Older replies return a flat keyword list.
		result.MissingSkills = coerceStringList(keywords)
	}
}

// parseScore extracts a 0-100 match score from text, trying the explicit
// "NN/100" form before a bare percentage. Returns nil when no candidate
// value is in range.
func parseScore(text string) *int {
	for _, pattern := range []*regexp.Regexp{scoreOutOfPattern, percentPattern} {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		score, err := strconv.Atoi(match[1])
		if err != nil || score < 0 || score > 100 {
			continue
		}

		return &score
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object boundaries
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func coerceStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var result []string
	for _, item := range items {
		if s := coerceString(item); s != "" {
			result = append(result, s)
		}
	}

	return result
}
