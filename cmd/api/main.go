package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/inferentia-labs/meeting-knowledge/pkg/validator"

	"github.com/inferentia-labs/meeting-knowledge/internal/adapter/handler"
	"github.com/inferentia-labs/meeting-knowledge/internal/adapter/repository"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/repositories"
	"github.com/inferentia-labs/meeting-knowledge/internal/infrastructure/cache"
	"github.com/inferentia-labs/meeting-knowledge/internal/infrastructure/database"
	"github.com/inferentia-labs/meeting-knowledge/internal/infrastructure/storage"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/knowledge"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/pipeline"
	pkgai "github.com/inferentia-labs/meeting-knowledge/pkg/ai"
	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize knowledge base backend
	var kbRepo repositories.KnowledgeRepository
	switch cfg.Store.Backend {
	case "postgres":
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
			}
			log.Println("🔄 Running migrations (development only) ...")
			if err := database.Migrate(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		} else {
			log.Println("🔄 Skipping migrations; use sql-migrate in CI/CD/production")
		}

		kbRepo = repository.NewKnowledgeRepository(db)
	case "file":
		log.Printf("📦 Using file knowledge store at %s", cfg.Store.DataDir)
		kbRepo = repository.NewFileKnowledgeRepository(cfg.Store.DataDir)
	default:
		log.Fatalf("Unknown STORE_BACKEND %q (want postgres or file)", cfg.Store.Backend)
	}

	// Initialize cache
	log.Println("📦 Connecting to Redis...")
	var kbCache knowledge.Cache
	redisStore, err := cache.NewRedisStore(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, using in-memory cache: %v", err)
		kbCache = cache.NewMemoryStore(cfg.Redis.CacheTTL)
	} else {
		defer redisStore.Close()
		kbCache = redisStore
	}

	// Initialize transcript/export storage
	var transcripts repositories.TranscriptStore
	var exports handler.ExportStore
	switch cfg.Storage.Type {
	case "minio":
		log.Println("🪣 Connecting to MinIO...")
		minioStore, err := storage.NewMinIOStore(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		transcripts = minioStore
		exports = minioStore
	case "local":
		log.Printf("🪣 Using local storage at %s", cfg.Storage.LocalDir)
		localStore := storage.NewLocalStore(cfg.Storage.LocalDir)
		transcripts = localStore
		exports = localStore
	default:
		log.Fatalf("Unknown STORAGE_TYPE %q (want minio or local)", cfg.Storage.Type)
	}

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	if err := cfg.Models.ValidateTranscriber(); err != nil {
		log.Fatalf("Invalid transcriber configuration: %v", err)
	}
	hfClient := pkgai.NewHFClient(&cfg.Models)
	models := pipeline.NewModelSet(hfClient, &cfg.Models)

	var transcriber pkgai.Transcriber
	switch cfg.Models.Transcriber {
	case "assemblyai":
		transcriber = pkgai.NewAssemblyAITranscriber(&cfg.Models)
	case "whisper":
		transcriber = pkgai.NewWhisperTranscriber(hfClient, cfg.Models.WhisperModel)
	default:
		log.Fatalf("Unknown TRANSCRIBER %q (want assemblyai or whisper)", cfg.Models.Transcriber)
	}

	// Initialize knowledge store and pipeline service
	log.Println("🧠 Initializing knowledge store...")
	store := knowledge.NewStore(kbRepo, kbCache, logger)

	log.Println("⚙️  Initializing pipeline service...")
	svc := pipeline.NewService(transcriber, models.Extractors(), store, transcripts, cfg.Models.EnrichWorkers, logger)

	// Initialize meeting handler
	log.Println("🚀 Initializing meeting handler...")
	meetingHandler := handler.NewMeetingHandler(svc, cfg, exports, logger)
	log.Println("✅ Meeting handler initialized successfully")

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("👋 Server exited")
}
