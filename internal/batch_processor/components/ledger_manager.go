package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/personal-finance-ledger/internal/batch_processor/service"
	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

const journalAttempts = 3

// BatchStore is the write side of ledger.Store
type BatchStore interface {
	Apply(ctx context.Context, identity shared.Identity, entries []ledger.Entry) (*ledger.Ledger, error)
}

type LedgerManagerImpl struct {
	store        BatchStore
	journal      batch.Repository
	logger       *slog.Logger
	retryBackoff time.Duration
}

func NewLedgerManager(store BatchStore, journal batch.Repository, logger *slog.Logger) service.LedgerManager {
	return &LedgerManagerImpl{
		store:        store,
		journal:      journal,
		logger:       logger,
		retryBackoff: 100 * time.Millisecond,
	}
}

// ApplyBatch appends the entries to the owner's ledger and journals the batch as APPLIED.
// The journal write is retried on its own so a transient failure does not redeliver an applied batch.
func (m *LedgerManagerImpl) ApplyBatch(ctx context.Context, request *shared.BatchRequest, entries []ledger.Entry) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	updated, err := m.store.Apply(ctx, request.Identity, entries)
	if err != nil {
		return err
	}
	logger.Info("Batch appended to ledger",
		"batch_id", request.BatchID.String(),
		"count", len(entries),
		"next_tx_id", updated.NextTxID,
	)

	record := batch.NewApplied(request, len(entries))
	for attempt := 1; ; attempt++ {
		err = m.journal.Save(ctx, record)
		if err == nil {
			return nil
		}
		if attempt == journalAttempts {
			break
		}

		logger.Warn("Failed to journal applied batch, retrying",
			"batch_id", request.BatchID.String(),
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryBackoff * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("failed to journal applied batch %s: %w", request.BatchID.String(), err)
}
