package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/personal-finance-ledger/internal/batch_processor/components"
	"github.com/personal-finance-ledger/internal/batch_processor/consumer"
	"github.com/personal-finance-ledger/internal/batch_processor/service"
	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/data"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/logger"
	"github.com/personal-finance-ledger/internal/platform/messaging/consumers"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("batch_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	if !cfg.Kafka.Enabled {
		log.Error("Batch processor requires KAFKA_ENABLED=true")
		os.Exit(1)
	}

	log.Info("Starting Batch Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize storage backends with app context
	stores, err := data.Open(appCtx, logger.WithComponent(log, logger.ComponentStorage), cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	store := ledger.NewStore(stores.Ledgers, logger.WithComponent(log, logger.ComponentLedger), cfg.Storage.MaxWriteRetries)

	// Initialize Kafka consumer
	kafkaLog := logger.WithComponent(log, logger.ComponentKafka)
	kafkaConsumer := consumers.NewKafkaConsumer(kafkaLog, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, kafkaLog, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize processing service with separated concerns
	processingService := components.CreateProcessingService(store, stores.Journal, log, cfg)

	batchEventHandler := consumer.NewBatchEventHandler(log, processingService, dlqProducer)

	// Create error channel for service errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.BatchTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, batchEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
			return
		}
		<-kafkaConsumer.Done()
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for the consumer loop to finish its current message
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Shutdown the worker pool if it's a WorkerPoolProcessingService
	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		wpService.Shutdown()
	}

	var shutdownErr error
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
		shutdownErr = err
	}

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}

	if err := stores.Close(shutdownCtx); err != nil {
		log.Error("Error closing storage", "error", err)
		shutdownErr = err
	}

	// Final status
	if serviceErr != nil {
		log.Error("Batch Processor shutdown with errors", "error", serviceErr)
	}
	if shutdownErr != nil {
		log.Error("Batch Processor shutdown completed with errors")
	} else {
		log.Info("Batch Processor shutdown completed successfully")
	}
}
