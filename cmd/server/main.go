package main

import (
	"fmt"
	"log"
	"net/http"

	"cigfip/internal/config"
	"cigfip/internal/extractor"
	"cigfip/internal/extractor/httpocr"
	"cigfip/internal/handler"
	"cigfip/internal/port"
	"cigfip/internal/registry/brasilapi"
	"cigfip/internal/repository/postgres"
	"cigfip/internal/router"
	"cigfip/internal/service"
	s3storage "cigfip/internal/storage/s3"
)

// @title CI GFIP API
// @version 1.0
// @description Parses CI GFIP contribution statements and reconciles them against previously stored submissions.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	submissionRepo := postgres.NewSubmissionRepo(db)

	// Initialize storage (optional)
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Println("S3 bucket not configured, source archiving disabled")
	}

	// Initialize text extractor (optional)
	httpocr.Register()
	var textExtractor port.TextExtractor
	if cfg.Extractor.Primary.Provider != "" {
		textExtractor, err = extractor.NewFromConfig(&cfg.Extractor)
		if err != nil {
			return fmt.Errorf("failed to initialize text extractor: %w", err)
		}
	} else {
		log.Println("no extractor provider configured, only text uploads are accepted")
	}

	// Initialize company registry (optional)
	var registry port.CompanyRegistry
	if cfg.Registry.Enabled {
		registry = brasilapi.New(&cfg.Registry)
	}

	// Initialize services
	filingSvc := service.NewFilingService(submissionRepo, textExtractor, registry, storage, cfg)

	// Initialize handlers
	filingH := handler.NewFilingHandler(filingSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(&cfg.CORS, filingH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s (%s)", cfg.Server.Port, cfg.Server.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
