package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/core/services"
	"github.com/SscSPs/darkstore_ledger/internal/handlers"
	"github.com/SscSPs/darkstore_ledger/internal/messaging"
	"github.com/SscSPs/darkstore_ledger/internal/messaging/kafka"
	"github.com/SscSPs/darkstore_ledger/internal/metrics"
	"github.com/SscSPs/darkstore_ledger/internal/middleware"
	"github.com/SscSPs/darkstore_ledger/internal/platform/logging"
	"github.com/SscSPs/darkstore_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/darkstore_ledger/internal/repositories/memory"
	"github.com/SscSPs/darkstore_ledger/internal/utils"
	"github.com/SscSPs/darkstore_ledger/pkg/config"
	"github.com/SscSPs/darkstore_ledger/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// @title Darkstore Ledger API
// @version 1.0
// @description Double-entry journal posting and ledger reporting for darkstore operations.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.NewLogger("darkstore-ledger", cfg.LogLevel, cfg.IsProduction)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	recorder := metrics.NewRecorder()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	var kafkaPublisher portssvc.JournalEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("Publishing journal events to Kafka", slog.String("topic", cfg.KafkaTopic))
	}
	var posthogSink portssvc.JournalEventPublisher
	if posthogClient.IsInitialized() {
		posthogSink = posthogClient
	}
	publisher := messaging.NewFanoutPublisher(logger, kafkaPublisher, posthogSink)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publishers", slog.String("error", err.Error()))
		}
	}()

	deps := services.ContainerDeps{Metrics: recorder}
	if publisher.Len() > 0 {
		deps.Publisher = publisher
	} else {
		logger.Info("No event sinks configured, journal events will not be published")
	}

	serviceContainer, err := services.NewServiceContainer(cfg, repos, deps)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.SeedChartOfAccounts {
		if err := serviceContainer.Account.Seed(ctx, services.DefaultChartOfAccounts()); err != nil {
			logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.IdempotencyKeyHeader, "X-Request-ID")
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-Idempotent-Replayed"}
	r.Use(cors.New(corsConfig))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		MetricsHandler: recorder.Handler(),
		RateLimiter:    rateLimiter,
		Posthog:        posthogClient,
	}); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// openStorage builds the repositories for the configured driver and returns a close func.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; the ledger will not survive a restart")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	// --- Run Database Migrations ---
	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
	if err != nil {
		return repositories.RepositoryProvider{}, nil, err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return repositories.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
