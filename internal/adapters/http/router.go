package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/stoic-quote/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds /api/v1 requests when no timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds what SetupRouter mounts.
type RouterConfig struct {
	// ServiceName labels server spans and metrics.
	ServiceName string

	// HealthHandler serves /-/. Nil skips the operational routes.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves /api/v1/quote. Nil skips the API routes.
	QuoteHandler *handlers.QuoteHandler

	// Timeout is the deadline put on /api/v1 request contexts. Zero disables it.
	Timeout time.Duration
}

// NewDefaultRouterConfig returns a RouterConfig using DefaultRequestTimeout.
func NewDefaultRouterConfig(serviceName string, health *handlers.HealthHandler, quote *handlers.QuoteHandler) RouterConfig {
	return RouterConfig{
		ServiceName:   serviceName,
		HealthHandler: health,
		QuoteHandler:  quote,
		Timeout:       DefaultRequestTimeout,
	}
}

// SetupRouter installs middleware and routes on engine.
//
// Middleware order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and metrics
//  5. Logging (skips /-/)
//
// Routes:
//   - /-/live, /-/ready, /-/build, /-/metrics
//   - /api/v1/quote, /api/v1/quote/refresh, /api/v1/quote/copy
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	registerFallbacks(engine)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Deadline(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}
}
