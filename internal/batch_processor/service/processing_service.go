package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

type ProcessingServiceImpl struct {
	validator       BatchValidator
	ledgerManager   LedgerManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	validator BatchValidator,
	ledgerManager LedgerManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		validator:       validator,
		ledgerManager:   ledgerManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessBatch handles the core logic for applying an asynchronously submitted batch.
// Rejections are recorded and acknowledged; storage errors are returned so the batch is redelivered.
func (s *ProcessingServiceImpl) ProcessBatch(ctx context.Context, request *shared.BatchRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	batchID := request.BatchID.String()
	logger.Info("Processing batch", "batch_id", batchID, "identity", request.Identity.String())

	// 1. Validate the batch
	entries, err := s.validator.Validate(ctx, request)
	if err != nil {
		if !isRejection(err) {
			return err
		}

		logger.Warn("Batch rejected", "batch_id", batchID, "reason", err.Error())
		if recordErr := s.failureRecorder.RecordFailure(ctx, request, err.Error()); recordErr != nil {
			logger.Error("Failed to record batch rejection", "batch_id", batchID, "error", recordErr)
			return fmt.Errorf("failed to record rejection of batch %s: %w", batchID, recordErr)
		}
		return nil
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	// 3. Apply through the same store path as synchronous writes
	if err := s.ledgerManager.ApplyBatch(ctx, request, entries); err != nil {
		logger.Error("Failed to apply batch", "batch_id", batchID, "error", err)
		return fmt.Errorf("failed to apply batch %s: %w", batchID, err)
	}

	logger.Info("Batch applied", "batch_id", batchID, "count", len(entries))
	return nil
}

// isRejection reports whether err is final for the batch rather than transient
func isRejection(err error) bool {
	return errors.Is(err, shared.ErrUnauthenticated) || ledger.IsValidationError(err)
}
