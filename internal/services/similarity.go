package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	embedChunkSize    = 1000
	embedChunkOverlap = 100
	maxIndexedChunks  = 5
)

// SimilarityService indexes job descriptions of completed analyses and
// finds past analyses with similar ones. The whole feature is best-effort:
// callers log failures and move on.
type SimilarityService interface {
	Enabled() bool
	IndexAnalysis(ctx context.Context, analysisID uuid.UUID, jobDescription string) error
	FindSimilar(ctx context.Context, analysisID uuid.UUID, jobDescription string, limit int) ([]SimilarMatch, error)
}

type SimilarMatch struct {
	AnalysisID uuid.UUID
	Score      float32
}

type similarityService struct {
	geminiService GeminiService
	qdrantService QdrantService
	chunker       TextChunker
}

func NewSimilarityService(geminiService GeminiService, qdrantService QdrantService) SimilarityService {
	return &similarityService{
		geminiService: geminiService,
		qdrantService: qdrantService,
		chunker:       NewTextChunker(),
	}
}

// Enabled implements SimilarityService.
func (s *similarityService) Enabled() bool {
	return true
}

// IndexAnalysis implements SimilarityService. Long job descriptions are
// chunked and each chunk indexed as its own point under the analysis id.
func (s *similarityService) IndexAnalysis(ctx context.Context, analysisID uuid.UUID, jobDescription string) error {
	chunks := s.chunker.ChunkText(jobDescription, embedChunkSize, embedChunkOverlap)
	if len(chunks) == 0 {
		return fmt.Errorf("nothing to index for analysis %s", analysisID)
	}
	if len(chunks) > maxIndexedChunks {
		chunks = chunks[:maxIndexedChunks]
	}

	for i, chunk := range chunks {
		embedding, err := s.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		if err := s.qdrantService.UpsertChunk(ctx, analysisID.String(), i, chunk, embedding); err != nil {
			return fmt.Errorf("failed to index chunk %d: %w", i, err)
		}
	}

	return nil
}

// FindSimilar implements SimilarityService. Chunk hits are deduplicated to
// the best score per analysis.
func (s *similarityService) FindSimilar(ctx context.Context, analysisID uuid.UUID, jobDescription string, limit int) ([]SimilarMatch, error) {
	chunks := s.chunker.ChunkText(jobDescription, embedChunkSize, embedChunkOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("empty job description for analysis %s", analysisID)
	}

	embedding, err := s.geminiService.GenerateEmbedding(ctx, chunks[0])
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Over-fetch so per-analysis dedup still fills the limit.
	hits, err := s.qdrantService.SearchSimilar(ctx, embedding, analysisID.String(), limit*maxIndexedChunks)
	if err != nil {
		return nil, err
	}

	best := make(map[uuid.UUID]float32)
	for _, hit := range hits {
		id, err := uuid.Parse(hit.AnalysisID)
		if err != nil {
			continue
		}
		if score, ok := best[id]; !ok || hit.Score > score {
			best[id] = hit.Score
		}
	}

	matches := make([]SimilarMatch, 0, len(best))
	for id, score := range best {
		matches = append(matches, SimilarMatch{AnalysisID: id, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// nopSimilarityService is used when Qdrant is not configured.
type nopSimilarityService struct{}

func NewNopSimilarityService() SimilarityService {
	return &nopSimilarityService{}
}

func (n *nopSimilarityService) Enabled() bool {
	return false
}

func (n *nopSimilarityService) IndexAnalysis(ctx context.Context, analysisID uuid.UUID, jobDescription string) error {
	return nil
}

func (n *nopSimilarityService) FindSimilar(ctx context.Context, analysisID uuid.UUID, jobDescription string, limit int) ([]SimilarMatch, error) {
	return nil, nil
}
