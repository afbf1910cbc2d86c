package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/batch_processor/service"
	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

type BatchValidatorImpl struct {
	journal batch.Repository
	logger  *slog.Logger
}

func NewBatchValidator(journal batch.Repository, logger *slog.Logger) service.BatchValidator {
	return &BatchValidatorImpl{
		journal: journal,
		logger:  logger,
	}
}

// Validate applies the same checks as a synchronous write
func (v *BatchValidatorImpl) Validate(ctx context.Context, request *shared.BatchRequest) ([]ledger.Entry, error) {
	if err := request.Identity.Authorize(); err != nil {
		return nil, err
	}
	return ledger.BatchFromColumns(request.Amounts, request.Descriptions, request.Categories, request.IsIncomes, request.Timestamps)
}

// CheckIdempotency checks if the batch was already processed
func (v *BatchValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.BatchRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	record, err := v.journal.GetByBatchID(ctx, request.BatchID)
	if err != nil {
		if errors.Is(err, batch.ErrRecordNotFound{}) {
			return false, nil
		}
		logger.Error("Failed to check journal for idempotency", "batch_id", request.BatchID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for batch %s: %w", request.BatchID.String(), err)
	}

	if record.Status.IsTerminal() {
		logger.Info("Batch already processed (idempotency)", "batch_id", request.BatchID.String(), "status", record.Status)
		return true, nil
	}
	return false, nil
}
