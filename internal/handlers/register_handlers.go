package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/darkstore_ledger/cmd/docs"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/middleware"
	"github.com/SscSPs/darkstore_ledger/internal/utils"
	"github.com/SscSPs/darkstore_ledger/pkg/config"
)

// RouteDeps carries the optional infrastructure the routes are wired with.
// Nil fields are skipped.
type RouteDeps struct {
	MetricsHandler http.Handler
	RateLimiter    *limiter.Limiter
	Posthog        *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) error {
	if err := registerValidators(cfg.LedgerCurrency()); err != nil {
		return fmt.Errorf("failed to register request validators: %w", err)
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	v1 := r.Group("/api/v1")
	if cfg.AuthEnabled {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	if deps.Posthog != nil {
		v1.Use(middleware.PosthogMiddleware(deps.Posthog))
	}

	// Writes are rate limited per actor; reads are not
	var writeGuards []gin.HandlerFunc
	if deps.RateLimiter != nil {
		writeGuards = append(writeGuards, middleware.RateLimit(deps.RateLimiter))
	}

	currency := cfg.LedgerCurrency()

	// Delegate route registration to specific handlers, passing required services
	registerAccountRoutes(v1, newAccountHandler(service.Account, service.Reporting, currency), writeGuards...)
	registerJournalRoutes(v1, newJournalHandler(service.Journal, currency), writeGuards...)
	registerReportingRoutes(v1, newReportingHandler(service.Reporting, currency))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
