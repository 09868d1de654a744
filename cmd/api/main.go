package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/application-processor/internal/config"
	"alfredoptarigan/application-processor/internal/handlers"
	"alfredoptarigan/application-processor/internal/logger"
	"alfredoptarigan/application-processor/internal/repositories"
	"alfredoptarigan/application-processor/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	zapLogger, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	appRepo := repositories.NewApplicationRepository(db)
	errRepo := repositories.NewErrorLogRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewDocumentExtractor()
	chunker := services.NewTextChunker()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.GenerationModel,
		cfg.Gemini.EmbeddingModel,
		cfg.Gemini.RequestTimeout,
		zapLogger,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	similarityIndex, err := services.NewQdrantIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := similarityIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize pipeline stages
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
	log.Println("✅ Pipeline stages initialized")

	// Initialize background indexer
	indexer := services.NewIndexer(similarityIndex, cfg.Pipeline.IndexerConcurrency, zapLogger)
	indexer.Start(context.Background())
	log.Println("✅ Indexer started successfully")

	// Initialize processor
	processor := services.NewApplicationProcessor(
		appRepo,
		errRepo,
		extractor,
		validator,
		summarizer,
		scorer,
		notifier,
		indexer,
		cfg.Pipeline.ScoreThreshold,
		zapLogger,
	)
	log.Println("✅ Application processor initialized")

	// Initialize Handlers
	applicationHandler := handlers.NewApplicationHandler(
		processor,
		appRepo,
		storageService,
		scorer,
		similarityIndex,
		cfg.Storage.MaxFileSize,
		zapLogger,
	)
	errorLogHandler := handlers.NewErrorLogHandler(errRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Application Processor API",
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/applications", applicationHandler.HandleSubmit)
	api.Get("/applications/:id", applicationHandler.HandleGetApplication)
	api.Get("/applications/:id/similar", applicationHandler.HandleFindSimilar)
	api.Get("/error-logs", errorLogHandler.HandleList)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Application Processor API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/applications",
				"GET /api/v1/applications/:id",
				"GET /api/v1/applications/:id/similar",
				"GET /api/v1/error-logs",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		indexer.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
