package api_gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/personal-finance-ledger/internal/api_gateway/handler"
	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
)

const readinessTimeout = 2 * time.Second

// HealthChecker is a backing dependency probed by the readiness endpoint
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}

// handlers groups the HTTP handlers mounted by setupRouter
type handlers struct {
	ledger   *handler.LedgerHandler
	reports  *handler.ReportHandler
	external *handler.ExternalHandler
}

// setupRouter configures API routes and middleware for the application.
// The rate limiter is optional.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	h handlers,
	verifier *middleware.TokenVerifier,
	limiter *middleware.RateLimiter,
	checkers []HealthChecker,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity(verifier, logger))
	if limiter != nil {
		v1.Use(middleware.RateLimit(limiter))
	}
	{
		// Ledger writes and queries
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", h.ledger.AddTransactions)
			transactions.POST("/income", h.ledger.AddIncome)
			transactions.POST("/expense", h.ledger.AddExpense)
			transactions.POST("/async", h.ledger.SubmitBatch)
			transactions.GET("", h.ledger.ListTransactions)
		}

		v1.GET("/batches/:id", h.ledger.GetBatch)

		summary := v1.Group("/summary")
		{
			summary.GET("/income", h.ledger.SumIncome)
			summary.GET("/expense", h.ledger.SumExpense)
			summary.GET("/balance", h.ledger.Balance)
		}

		v1.GET("/analysis", h.ledger.Analysis)

		reports := v1.Group("/reports")
		{
			reports.GET("", h.reports.All)
			reports.GET("/month/:month", h.reports.ByMonth)
			reports.GET("/income", h.reports.Income)
			reports.GET("/expense", h.reports.Expense)
		}

		// Outbound collaborators
		v1.GET("/exchange-rate", h.external.ExchangeRate)
		v1.POST("/advice", h.external.Advice)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for _, checker := range checkers {
			if err := checker.Ping(ctx); err != nil {
				logger.Warn("Readiness check failed", "dependency", checker.Name(), "error", err)
				results[checker.Name()] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[checker.Name()] = "ok"
		}
		c.JSON(status, gin.H{"dependencies": results, "timestamp": time.Now().UTC()})
	})
}
