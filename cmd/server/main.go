package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"coursecraft/internal/config"
	"coursecraft/internal/domain/services"
	domainllm "coursecraft/internal/domain/services/llm"
	"coursecraft/internal/handler"
	"coursecraft/internal/httputil"
	"coursecraft/internal/middleware"
	"coursecraft/internal/repository/postgres"
	courseservice "coursecraft/internal/service/course"
	"coursecraft/internal/service/llm/providers/anthropic"
	"coursecraft/internal/service/llm/providers/static"
	"coursecraft/internal/service/validate"
	"coursecraft/internal/service/validate/deep"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, config.LogFileRetention)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	courseRepo := postgres.NewCourseRepository(repoConfig)
	reportRepo := postgres.NewReportRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Deep validators need a structured-output provider. Without an API key
	// the static provider keeps deep mode callable in local development.
	var generator domainllm.StructuredGenerator
	if cfg.AnthropicAPIKey != "" {
		provider, err := anthropic.NewProvider(cfg.AnthropicAPIKey, cfg.DefaultModel)
		if err != nil {
			log.Fatalf("Failed to setup anthropic provider: %v", err)
		}
		generator = provider
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, deep validation uses the static provider")
		generator = static.NewProvider()
	}

	// Fast validators
	prereqValidator, err := validate.NewPrerequisiteValidator()
	if err != nil {
		log.Fatalf("Failed to load prerequisite keywords: %v", err)
	}
	fast := []services.Validator{
		validate.NewStructureValidator(),
		validate.NewOutlineValidator(),
		validate.NewLengthValidator(),
		validate.NewLinkValidator(nil, logger),
		prereqValidator,
	}

	// Deep validators
	runner := deep.NewRunner(generator, logger)
	var deepSet []services.Validator
	for _, v := range deep.All(runner) {
		deepSet = append(deepSet, v)
	}

	orchestrator := validate.NewOrchestrator(fast, deepSet, logger)

	courseService := courseservice.NewCourseService(courseRepo, reportRepo, txManager, orchestrator, logger)
	courseHandler := handler.NewCourseHandler(courseService, reportRepo, logger)

	logger.Info("services initialized", "provider", generator.Name())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	courseHandler.Register(mux)

	// Build middleware chain
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // Deep validation runs can be slow
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
