package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/animesh-mishra100/resume-ai/internal/models"
	"github.com/animesh-mishra100/resume-ai/internal/repositories"
	"github.com/animesh-mishra100/resume-ai/internal/services"
)

type AnalyzeHandler struct {
	analysisRepo repositories.AnalysisRepository
	evaluator    services.EvaluatorService
	storage      services.StorageService
	pdfParser    services.PDFParserService
	similarity   services.SimilarityService
	maxFileSize  int64
	timeout      time.Duration
}

func NewAnalyzeHandler(
	analysisRepo repositories.AnalysisRepository,
	evaluator services.EvaluatorService,
	storage services.StorageService,
	pdfParser services.PDFParserService,
	similarity services.SimilarityService,
	maxFileSize int64,
	timeout time.Duration,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisRepo: analysisRepo,
		evaluator:    evaluator,
		storage:      storage,
		pdfParser:    pdfParser,
		similarity:   similarity,
		maxFileSize:  maxFileSize,
		timeout:      timeout,
	}
}

// HandleAnalyze handles POST /api/v1/analyze. The request is served
// synchronously: the response carries the full report once the model call
// returns. The resume arrives either as a PDF upload ("resume") or as
// plain text ("resume_text"), alongside a "job_description" field.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	jobDescription := c.FormValue("job_description")

	resumeText := c.FormValue("resume_text")
	resumeSource := models.SourcePaste
	resumeFilename := ""

	if resumeText == "" {
		file, err := c.FormFile("resume")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "provide a 'resume' PDF file or a 'resume_text' field",
			})
		}

		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		filename, filePath, err := h.storage.SaveFile(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save resume file: %v", err),
			})
		}

		// The spooled file is only needed for text extraction.
		defer func() {
			if err := h.storage.DeleteFile(filename); err != nil {
				log.Printf("⚠️  Failed to clean up uploaded file %s: %v\n", filename, err)
			}
		}()

		extracted, err := h.pdfParser.ExtractText(filePath)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": fmt.Sprintf("could not extract text from the PDF: %v", err),
			})
		}

		resumeText = services.CleanText(extracted)
		resumeSource = models.SourceUpload
		resumeFilename = file.Filename
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.evaluator.Analyze(ctx, resumeText, jobDescription)

	warning := ""
	switch {
	case err == nil:
	case errors.Is(err, models.ErrParseAmbiguous):
		// Degraded but usable: the raw reply is still in the result.
		warning = "the model reply carried no recognizable match score"
	case errors.Is(err, models.ErrEmptyResume), errors.Is(err, models.ErrEmptyJobDescription):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrInputTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	analysisID := h.persist(c.UserContext(), result, resumeSource, resumeFilename, jobDescription)

	return c.JSON(models.AnalyzeResponse{
		ID:      analysisID,
		Result:  result,
		Warning: warning,
	})
}

// persist stores the analysis and indexes its job description for the
// similarity endpoint. Both steps are best-effort: the report has already
// been produced and a storage failure must not turn it into an error.
func (h *AnalyzeHandler) persist(ctx context.Context, result *models.EvaluationResult, source models.ResumeSource, filename, jobDescription string) string {
	report, err := json.Marshal(result)
	if err != nil {
		log.Printf("⚠️  Failed to serialize report: %v\n", err)
		return ""
	}

	analysis := &models.Analysis{
		ID:             uuid.New(),
		ResumeSource:   source,
		ResumeFilename: filename,
		JobDescription: jobDescription,
		MatchScore:     result.MatchScore,
		Report:         string(report),
		RawModelText:   result.RawModelText,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.analysisRepo.Create(analysis); err != nil {
		log.Printf("⚠️  Failed to persist analysis: %v\n", err)
		return ""
	}

	if h.similarity.Enabled() {
		if err := h.similarity.IndexAnalysis(ctx, analysis.ID, jobDescription); err != nil {
			log.Printf("⚠️  Failed to index analysis %s: %v\n", analysis.ID, err)
		}
	}

	return analysis.ID.String()
}
