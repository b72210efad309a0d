package main

import (
	"context"
	"log"

	"github.com/animesh-mishra100/resume-ai/internal/config"
	"github.com/animesh-mishra100/resume-ai/internal/repositories"
	"github.com/animesh-mishra100/resume-ai/internal/services"
)

// Re-indexes stored analyses into Qdrant. Useful after enabling similarity
// search on a database that already has history.
func main() {
	log.Println("🚀 Starting similarity backfill...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if !cfg.Qdrant.Enabled() {
		log.Fatal("❌ QDRANT_URL is not set, nothing to backfill")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	analysisRepo := repositories.NewAnalysisRepository(db)

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	similarityService := services.NewSimilarityService(geminiService, qdrantService)

	analyses, err := analysisRepo.FindRecent(1000)
	if err != nil {
		log.Fatalf("❌ Failed to load analyses: %v", err)
	}

	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, analysis := range analyses {
		log.Printf("📄 Indexing analysis %s", analysis.ID)

		if err := similarityService.IndexAnalysis(ctx, analysis.ID, analysis.JobDescription); err != nil {
			log.Printf("⚠️  Failed to index %s: %v", analysis.ID, err)
			failCount++
			continue
		}

		successCount++
	}

	log.Printf("✅ Backfill finished: %d indexed, %d failed", successCount, failCount)
}
