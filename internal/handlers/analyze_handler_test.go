package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/animesh-mishra100/resume-ai/internal/models"
	"github.com/animesh-mishra100/resume-ai/internal/services"
)

type stubEvaluator struct {
	result     *models.EvaluationResult
	err        error
	lastResume string
	lastJob    string
}

func (s *stubEvaluator) Analyze(_ context.Context, resumeText, jobDescription string) (*models.EvaluationResult, error) {
	s.lastResume = resumeText
	s.lastJob = jobDescription
	return s.result, s.err
}

type stubRepo struct {
	created   []*models.Analysis
	createErr error
}

func (s *stubRepo) Create(analysis *models.Analysis) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, analysis)
	return nil
}

func (s *stubRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	for _, analysis := range s.created {
		if analysis.ID == id {
			return analysis, nil
		}
	}
	return nil, fmt.Errorf("analysis not found")
}

func (s *stubRepo) FindByIDs(ids []uuid.UUID) ([]models.Analysis, error) {
	var found []models.Analysis
	for _, id := range ids {
		if analysis, err := s.FindByID(id); err == nil {
			found = append(found, *analysis)
		}
	}
	return found, nil
}

func (s *stubRepo) FindRecent(limit int) ([]models.Analysis, error) {
	var recent []models.Analysis
	for i := len(s.created) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, *s.created[i])
	}
	return recent, nil
}

type stubStorage struct{}

func (stubStorage) SaveFile(_ *multipart.FileHeader) (string, string, error) {
	return "", "", errors.New("storage not available in this test")
}
func (stubStorage) GetFilePath(filename string) string { return filename }

func (stubStorage) DeleteFile(_ string) error { return nil }

func (stubStorage) EnsureUploadDir() error { return nil }

type stubPDF struct{}

func (stubPDF) ExtractText(_ string) (string, error) {
	return "", errors.New("pdf parsing not available in this test")
}

func newTestApp(evaluator services.EvaluatorService, repo *stubRepo) *fiber.App {
	handler := NewAnalyzeHandler(
		repo,
		evaluator,
		stubStorage{},
		stubPDF{},
		services.NewNopSimilarityService(),
		1024*1024,
		5*time.Second,
	)

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.HandleAnalyze)
	return app
}

func analyzeRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, resp *http.Response) models.AnalyzeResponse {
	t.Helper()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var decoded models.AnalyzeResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response %q: %v", payload, err)
	}
	return decoded
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	score := 80
	evaluator := &stubEvaluator{result: &models.EvaluationResult{
		MatchScore:   &score,
		RawModelText: "raw",
	}}
	repo := &stubRepo{}
	app := newTestApp(evaluator, repo)

	resp, err := app.Test(analyzeRequest(t, map[string]string{
		"resume_text":     "a resume",
		"job_description": "a job",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	decoded := decodeResponse(t, resp)
	if decoded.Result == nil || decoded.Result.MatchScore == nil || *decoded.Result.MatchScore != 80 {
		t.Fatalf("unexpected result: %+v", decoded.Result)
	}
	if decoded.ID == "" {
		t.Fatalf("expected persisted analysis id")
	}
	if decoded.Warning != "" {
		t.Fatalf("unexpected warning: %q", decoded.Warning)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted analysis, got %d", len(repo.created))
	}
	if repo.created[0].ResumeSource != models.SourcePaste {
		t.Fatalf("expected paste source, got %s", repo.created[0].ResumeSource)
	}

	if evaluator.lastResume != "a resume" || evaluator.lastJob != "a job" {
		t.Fatalf("evaluator got wrong inputs: %q / %q", evaluator.lastResume, evaluator.lastJob)
	}
}

func TestHandleAnalyzeMissingResume(t *testing.T) {
	evaluator := &stubEvaluator{err: errors.New("should not be called")}
	app := newTestApp(evaluator, &stubRepo{})

	resp, err := app.Test(analyzeRequest(t, map[string]string{
		"job_description": "a job",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleAnalyzeValidationErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty job description", models.ErrEmptyJobDescription, http.StatusBadRequest},
		{"input too large", models.ErrInputTooLarge, http.StatusRequestEntityTooLarge},
		{"upstream unavailable", models.ErrUpstreamUnavailable, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{}
			app := newTestApp(&stubEvaluator{err: tc.err}, repo)

			resp, err := app.Test(analyzeRequest(t, map[string]string{
				"resume_text":     "a resume",
				"job_description": "a job",
			}))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}

			if len(repo.created) != 0 {
				t.Fatalf("failed analysis must not be persisted")
			}
		})
	}
}

func TestHandleAnalyzeAmbiguousReply(t *testing.T) {
	evaluator := &stubEvaluator{
		result: &models.EvaluationResult{RawModelText: "no score in here"},
		err:    models.ErrParseAmbiguous,
	}
	repo := &stubRepo{}
	app := newTestApp(evaluator, repo)

	resp, err := app.Test(analyzeRequest(t, map[string]string{
		"resume_text":     "a resume",
		"job_description": "a job",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("degraded result should still be served, got %d", resp.StatusCode)
	}

	decoded := decodeResponse(t, resp)
	if decoded.Warning == "" {
		t.Fatalf("expected a warning for an ambiguous reply")
	}
	if decoded.Result == nil || decoded.Result.RawModelText != "no score in here" {
		t.Fatalf("raw reply must survive to the response: %+v", decoded.Result)
	}
	if decoded.Result.MatchScore != nil {
		t.Fatalf("expected nil match score")
	}

	if len(repo.created) != 1 {
		t.Fatalf("degraded result should still be persisted")
	}
}

func TestHandleAnalyzePersistenceFailureIsNonFatal(t *testing.T) {
	score := 55
	evaluator := &stubEvaluator{result: &models.EvaluationResult{MatchScore: &score, RawModelText: "raw"}}
	repo := &stubRepo{createErr: errors.New("db down")}
	app := newTestApp(evaluator, repo)

	resp, err := app.Test(analyzeRequest(t, map[string]string{
		"resume_text":     "a resume",
		"job_description": "a job",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("persistence failure must not fail the analysis, got %d", resp.StatusCode)
	}

	decoded := decodeResponse(t, resp)
	if decoded.ID != "" {
		t.Fatalf("expected empty id when persistence failed, got %q", decoded.ID)
	}
	if decoded.Result == nil || decoded.Result.MatchScore == nil {
		t.Fatalf("result must still be returned")
	}
}
