package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/animesh-mishra100/resume-ai/internal/models"
	"github.com/animesh-mishra100/resume-ai/internal/services"
)

type stubSimilarity struct {
	matches []services.SimilarMatch
}

func (s *stubSimilarity) Enabled() bool { return true }

func (s *stubSimilarity) IndexAnalysis(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (s *stubSimilarity) FindSimilar(_ context.Context, _ uuid.UUID, _ string, _ int) ([]services.SimilarMatch, error) {
	return s.matches, nil
}

func newHistoryApp(repo *stubRepo, similarity services.SimilarityService) *fiber.App {
	handler := NewHistoryHandler(repo, similarity)

	app := fiber.New()
	app.Get("/api/v1/analyses", handler.HandleListAnalyses)
	app.Get("/api/v1/analyses/:id", handler.HandleGetAnalysis)
	app.Get("/api/v1/analyses/:id/similar", handler.HandleGetSimilar)
	return app
}

func storedAnalysis(t *testing.T, score int, jobDescription string) *models.Analysis {
	t.Helper()

	report, err := json.Marshal(&models.EvaluationResult{
		MatchScore:   &score,
		RawModelText: "raw",
	})
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}

	return &models.Analysis{
		ID:             uuid.New(),
		ResumeSource:   models.SourcePaste,
		JobDescription: jobDescription,
		MatchScore:     &score,
		Report:         string(report),
		CreatedAt:      time.Now(),
	}
}

func TestHandleGetAnalysis(t *testing.T) {
	repo := &stubRepo{}
	analysis := storedAnalysis(t, 70, "a go job")
	repo.created = append(repo.created, analysis)

	app := newHistoryApp(repo, services.NewNopSimilarityService())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID.String(), nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	var decoded models.AnalysisResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if decoded.ID != analysis.ID.String() {
		t.Fatalf("unexpected id: %s", decoded.ID)
	}
	if decoded.Result == nil || decoded.Result.MatchScore == nil || *decoded.Result.MatchScore != 70 {
		t.Fatalf("stored report not returned: %+v", decoded.Result)
	}
}

func TestHandleGetAnalysisNotFound(t *testing.T) {
	app := newHistoryApp(&stubRepo{}, services.NewNopSimilarityService())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.New().String(), nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleGetAnalysisBadID(t *testing.T) {
	app := newHistoryApp(&stubRepo{}, services.NewNopSimilarityService())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleListAnalysesSnippets(t *testing.T) {
	repo := &stubRepo{}
	repo.created = append(repo.created, storedAnalysis(t, 70, strings.Repeat("x", 300)))

	app := newHistoryApp(repo, services.NewNopSimilarityService())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	var decoded struct {
		Analyses []models.AnalysisSummary `json:"analyses"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(decoded.Analyses) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(decoded.Analyses))
	}
	if len(decoded.Analyses[0].JobSnippet) > jobSnippetLength+len("...") {
		t.Fatalf("snippet not truncated: %d chars", len(decoded.Analyses[0].JobSnippet))
	}
}

func TestHandleGetSimilar(t *testing.T) {
	repo := &stubRepo{}
	analysis := storedAnalysis(t, 70, "a go job")
	neighbor := storedAnalysis(t, 50, "another go job")
	repo.created = append(repo.created, analysis, neighbor)

	similarity := &stubSimilarity{matches: []services.SimilarMatch{
		{AnalysisID: neighbor.ID, Score: 0.88},
		// Indexed but later deleted from the database.
		{AnalysisID: uuid.New(), Score: 0.5},
	}}

	app := newHistoryApp(repo, similarity)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID.String()+"/similar", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	var decoded struct {
		Similar []models.SimilarAnalysis `json:"similar"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(decoded.Similar) != 1 {
		t.Fatalf("expected 1 similar analysis, got %d", len(decoded.Similar))
	}
	if decoded.Similar[0].ID != neighbor.ID.String() {
		t.Fatalf("unexpected neighbor: %s", decoded.Similar[0].ID)
	}
	if decoded.Similar[0].Similarity != 0.88 {
		t.Fatalf("unexpected similarity: %f", decoded.Similar[0].Similarity)
	}
}

func TestHandleGetSimilarDisabled(t *testing.T) {
	repo := &stubRepo{}
	analysis := storedAnalysis(t, 70, "a go job")
	repo.created = append(repo.created, analysis)

	app := newHistoryApp(repo, services.NewNopSimilarityService())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID.String()+"/similar", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", resp.StatusCode)
	}
}
