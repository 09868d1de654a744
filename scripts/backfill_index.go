package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/application-processor/internal/config"
	"alfredoptarigan/application-processor/internal/logger"
	"alfredoptarigan/application-processor/internal/repositories"
	"alfredoptarigan/application-processor/internal/services"
)

// Rebuilds the similarity index from the applications table. Safe to run
// repeatedly: the application ID is the point ID, so re-runs overwrite.
func main() {
	log.Println("🚀 Starting similarity index backfill...")

	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	appRepo := repositories.NewApplicationRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.GenerationModel,
		cfg.Gemini.EmbeddingModel,
		cfg.Gemini.RequestTimeout,
		zapLogger,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	similarityIndex, err := services.NewQdrantIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := similarityIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	chunker := services.NewTextChunker()
	scorer := services.NewScorer(geminiService, chunker)

	ctx := context.Background()

	apps, err := appRepo.FindAll()
	if err != nil {
		log.Fatalf("❌ Failed to load applications: %v", err)
	}
	log.Printf("📄 Found %d applications to index", len(apps))

	successCount := 0
	failCount := 0

	for i, app := range apps {
		embedding, err := scorer.Embed(ctx, app.ResumeContent)
		if err != nil {
			log.Printf("   ❌ Failed to embed application %s: %v", app.ID, err)
			failCount++
			continue
		}

		if err := similarityIndex.UpsertApplication(ctx, app.ID.String(), app.Email, embedding); err != nil {
			log.Printf("   ❌ Failed to index application %s: %v", app.ID, err)
			failCount++
			continue
		}

		successCount++
		if (i+1)%10 == 0 || i == len(apps)-1 {
			log.Printf("   📊 Progress: %d/%d applications indexed", i+1, len(apps))
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Backfill Summary:")
	log.Printf("   ✅ Successful: %d applications", successCount)
	log.Printf("   ❌ Failed: %d applications", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some applications failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Similarity index backfill complete!")
}
