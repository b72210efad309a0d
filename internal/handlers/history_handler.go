package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/animesh-mishra100/resume-ai/internal/models"
	"github.com/animesh-mishra100/resume-ai/internal/repositories"
	"github.com/animesh-mishra100/resume-ai/internal/services"
)

const jobSnippetLength = 140

type HistoryHandler struct {
	analysisRepo repositories.AnalysisRepository
	similarity   services.SimilarityService
}

func NewHistoryHandler(
	analysisRepo repositories.AnalysisRepository,
	similarity services.SimilarityService,
) *HistoryHandler {
	return &HistoryHandler{
		analysisRepo: analysisRepo,
		similarity:   similarity,
	}
}

// HandleGetAnalysis handles GET /api/v1/analyses/:id
func (h *HistoryHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	response := models.AnalysisResponse{
		ID:             analysis.ID.String(),
		ResumeSource:   string(analysis.ResumeSource),
		ResumeFilename: analysis.ResumeFilename,
		JobDescription: analysis.JobDescription,
		CreatedAt:      analysis.CreatedAt.Format(time.RFC3339),
	}

	var result models.EvaluationResult
	if err := json.Unmarshal([]byte(analysis.Report), &result); err != nil {
		log.Printf("⚠️  Failed to decode stored report %s: %v\n", analysis.ID, err)
	} else {
		response.Result = &result
	}

	return c.JSON(response)
}

// HandleListAnalyses handles GET /api/v1/analyses
func (h *HistoryHandler) HandleListAnalyses(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	analyses, err := h.analysisRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analyses",
		})
	}

	summaries := make([]models.AnalysisSummary, 0, len(analyses))
	for _, analysis := range analyses {
		summaries = append(summaries, summarize(&analysis))
	}

	return c.JSON(fiber.Map{
		"analyses": summaries,
	})
}

// HandleGetSimilar handles GET /api/v1/analyses/:id/similar
func (h *HistoryHandler) HandleGetSimilar(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	if !h.similarity.Enabled() {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "Similarity search is not configured",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 20 {
		limit = 5
	}

	matches, err := h.similarity.FindSimilar(c.UserContext(), analysis.ID, analysis.JobDescription, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Similarity search failed",
		})
	}

	if len(matches) == 0 {
		return c.JSON(fiber.Map{
			"similar": []models.SimilarAnalysis{},
		})
	}

	ids := make([]uuid.UUID, 0, len(matches))
	scores := make(map[uuid.UUID]float32, len(matches))
	for _, match := range matches {
		ids = append(ids, match.AnalysisID)
		scores[match.AnalysisID] = match.Score
	}

	found, err := h.analysisRepo.FindByIDs(ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load similar analyses",
		})
	}

	byID := make(map[uuid.UUID]*models.Analysis, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	// Preserve similarity order; skip ids deleted from the database since
	// they were indexed.
	similar := make([]models.SimilarAnalysis, 0, len(matches))
	for _, match := range matches {
		analysis, ok := byID[match.AnalysisID]
		if !ok {
			continue
		}
		similar = append(similar, models.SimilarAnalysis{
			AnalysisSummary: summarize(analysis),
			Similarity:      scores[match.AnalysisID],
		})
	}

	return c.JSON(fiber.Map{
		"similar": similar,
	})
}

func summarize(analysis *models.Analysis) models.AnalysisSummary {
	snippet := analysis.JobDescription
	if runes := []rune(snippet); len(runes) > jobSnippetLength {
		snippet = string(runes[:jobSnippetLength]) + "..."
	}

	return models.AnalysisSummary{
		ID:         analysis.ID.String(),
		MatchScore: analysis.MatchScore,
		JobSnippet: snippet,
		CreatedAt:  analysis.CreatedAt.Format(time.RFC3339),
	}
}
