package components

import (
	"context"
	"log/slog"

	"github.com/personal-finance-ledger/internal/batch_processor/service"
	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

type FailureRecorderImpl struct {
	journal batch.Repository
	logger  *slog.Logger
}

func NewFailureRecorder(journal batch.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		journal: journal,
		logger:  logger,
	}
}

// RecordFailure journals the batch as REJECTED with the reason it was refused
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.BatchRequest, failureReason string) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	if err := r.journal.Save(ctx, batch.NewRejected(request, failureReason)); err != nil {
		logger.Error("Failed to journal rejected batch", "batch_id", request.BatchID.String(), "error", err)
		return err
	}

	logger.Info("Recorded rejected batch", "batch_id", request.BatchID.String(), "reason", failureReason)
	return nil
}
