package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/analyzer"
	"github.com/BerylCAtieno/label-ocr-api/internal/config"
	"github.com/BerylCAtieno/label-ocr-api/internal/db"
	"github.com/BerylCAtieno/label-ocr-api/internal/labels"
	"github.com/BerylCAtieno/label-ocr-api/internal/reporting"
	"github.com/BerylCAtieno/label-ocr-api/internal/repository"
	"github.com/BerylCAtieno/label-ocr-api/internal/router"
	"github.com/BerylCAtieno/label-ocr-api/internal/services"
	"github.com/BerylCAtieno/label-ocr-api/internal/storage"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	deps := services.Dependencies{
		Repo:   repository.NewRepository(database),
		Logger: logger,
	}

	// Inference service; absent key means placeholder records
	llm := analyzer.NewAnalyzer(analyzer.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		Timeout:     cfg.OpenAITimeout,
	}, logger)
	deps.Extractor = analyzer.NewRecordExtractor(llm, cfg.ExtractPacing, cfg.MinChunkChars, logger)

	// Label rendering through headless Chrome
	engine := labels.NewRodEngine(labels.EngineConfig{
		RemoteURL:    cfg.ChromeURL,
		Bin:          cfg.ChromeBin,
		PhaseTimeout: cfg.RenderPhaseTimeout,
		Logger:       logger,
	})
	deps.Renderer = labels.NewRenderer(labels.FileTemplateStore{Path: cfg.LabelTemplatePath}, engine, logger)

	// Optional archive
	if cfg.ArchiveEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		archive, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			UseSSL:          cfg.S3UseSSL,
		})
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", "error", err)
		}
		deps.Archive = archive
		logger.Info("Label archive enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketName)
	}

	// Optional reporting sink
	if cfg.ReportSinkURL != "" {
		deps.Sink = reporting.NewWebhookSink(cfg.ReportSinkURL)
		logger.Info("Report sink enabled")
	}

	labelService := services.NewLabelService(services.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		RequestTimeout: cfg.RequestTimeout,
		TempDir:        cfg.TempDir,
		MaxChunks:      cfg.MaxChunks,
		SinkTimeout:    cfg.ReportSinkTimeout,
	}, deps)

	// Setup HTTP router
	handler := router.NewRouter(labelService, cfg.MaxRequestBytes, logger)

	// Create HTTP server; WriteTimeout stays above the pipeline deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 66 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:       65 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
