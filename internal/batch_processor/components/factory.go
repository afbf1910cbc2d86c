package components

import (
	"log/slog"

	"github.com/personal-finance-ledger/internal/batch_processor/service"
	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/logger"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
// When the worker pool cannot be created the base service is returned.
func CreateProcessingService(
	store BatchStore,
	journal batch.Repository,
	log *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewBatchValidator(journal, log)
	ledgerManager := NewLedgerManager(store, journal, log)
	failureRecorder := NewFailureRecorder(journal, log)

	baseService := service.NewProcessingService(
		validator,
		ledgerManager,
		failureRecorder,
		log,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.WithComponent(log, logger.ComponentWorkerPool),
	)
	if err != nil {
		log.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	log.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
