package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/personal-finance-ledger/internal/api_gateway"
	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/data"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/logger"
	"github.com/personal-finance-ledger/internal/platform/advice"
	"github.com/personal-finance-ledger/internal/platform/exchange"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

const limiterSweepInterval = time.Minute

// redisChecker adapts the redis client to the readiness probe
type redisChecker struct {
	client *redis.Client
}

func (r redisChecker) Name() string { return "redis" }

func (r redisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize storage backends with app context
	stores, err := data.Open(appCtx, logger.WithComponent(log, logger.ComponentStorage), cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var checkers []api_gateway.HealthChecker
	for _, dep := range stores.Dependencies() {
		checkers = append(checkers, dep)
	}

	// Batch producer is optional; without it asynchronous submission answers 503
	var batchPublisher producers.BatchPublisher
	if cfg.Kafka.Enabled {
		kafkaProducer, err := producers.NewBatchRequestProducer(appCtx, logger.WithComponent(log, logger.ComponentKafka), &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize Kafka batch producer", "error", err)
			os.Exit(1)
		}
		batchPublisher = kafkaProducer
	}

	// Exchange rates are cached in Redis when enabled
	var rateCache exchange.RateCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rateCache = exchange.NewRedisRateCache(redisClient)
		checkers = append(checkers, redisChecker{client: redisClient})
	}

	// Initialize services
	store := ledger.NewStore(stores.Ledgers, logger.WithComponent(log, logger.ComponentLedger), cfg.Storage.MaxWriteRetries)
	ledgerService := service.NewLedgerService(log, store, stores.Journal, batchPublisher)
	externalService := service.NewExternalService(
		log,
		exchange.NewClient(cfg.ExchangeRate, rateCache, logger.WithComponent(log, logger.ComponentExchangeRate)),
		advice.NewClient(cfg.Advice, logger.WithComponent(log, logger.ComponentAdvice)),
		store,
	)

	verifier := middleware.NewTokenVerifier(cfg.Auth.JWTSecret)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go func() {
			ticker := time.NewTicker(limiterSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-appCtx.Done():
					return
				case <-ticker.C:
					if n := limiter.Sweep(); n > 0 {
						log.Debug("Evicted idle rate limiter entries", "count", n)
					}
				}
			}
		}()
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, ledgerService, externalService, verifier, limiter, checkers...)
	log.Info("REST server initialized",
		"storage_driver", cfg.Storage.Driver,
		"async_enabled", batchPublisher != nil,
		"rate_limit_enabled", limiter != nil,
	)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before releasing what they depend on
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	if batchPublisher != nil {
		if err := batchPublisher.Close(); err != nil {
			log.Error("Error closing Kafka producer", "error", err)
			shutdownErr = err
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
			shutdownErr = err
		}
	}

	if err := stores.Close(shutdownCtx); err != nil {
		log.Error("Error closing storage", "error", err)
		shutdownErr = err
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
