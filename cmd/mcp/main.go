// Command mcp runs the tool server over stdio, exposing each pipeline stage
// as an individually callable tool.
package main

import (
	"log"

	"alfredoptarigan/application-processor/internal/config"
	"alfredoptarigan/application-processor/internal/logger"
	"alfredoptarigan/application-processor/internal/mcpserver"
	"alfredoptarigan/application-processor/internal/repositories"
	"alfredoptarigan/application-processor/internal/services"
)

func main() {
	cfg := config.Load()

	// Stdout carries the protocol; all logging goes to stderr.
	zapLogger, err := logger.NewStderr(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	appRepo := repositories.NewApplicationRepository(db)

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.GenerationModel,
		cfg.Gemini.EmbeddingModel,
		cfg.Gemini.RequestTimeout,
		zapLogger,
	)
	if err != nil {
		log.Fatalf("failed to initialize Gemini AI: %v", err)
	}

	similarityIndex, err := services.NewQdrantIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("failed to initialize Qdrant: %v", err)
	}

	extractor := services.NewDocumentExtractor()
	chunker := services.NewTextChunker()
	validator := services.NewResumeValidator(geminiService, cfg.Pipeline.RetryMaxAttempts, zapLogger)
	summarizer := services.NewSummarizer(geminiService, cfg.Pipeline.SummaryMaxChars, cfg.Pipeline.RetryMaxAttempts, zapLogger)
	scorer := services.NewScorer(geminiService, chunker)
	notifier := services.NewResendNotifier(
		cfg.Resend.APIKey,
		cfg.Resend.BaseURL,
		cfg.Resend.FromAddress,
		cfg.Resend.BookingURL,
		cfg.Resend.RequestTimeout,
		zapLogger,
	)

	toolServer := mcpserver.NewToolServer(
		appRepo,
		extractor,
		validator,
		summarizer,
		scorer,
		notifier,
		similarityIndex,
	)

	if err := toolServer.Serve(); err != nil {
		log.Fatalf("tool server exited: %v", err)
	}
}
