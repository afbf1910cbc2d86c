package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

// ErrAsyncDisabled is returned by SubmitBatch when no batch publisher is configured
var ErrAsyncDisabled = errors.New("asynchronous batch submission is disabled")

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	store    LedgerWriter
	journal  batch.Repository
	producer producers.BatchPublisher
	logger   *slog.Logger
}

// NewLedgerService creates a new ledger service. producer may be nil, in which case
// asynchronous submission is unavailable.
func NewLedgerService(logger *slog.Logger, store LedgerWriter, journal batch.Repository, producer producers.BatchPublisher) LedgerService {
	return &LedgerServiceImpl{
		store:    store,
		journal:  journal,
		producer: producer,
		logger:   logger,
	}
}

func (s *LedgerServiceImpl) AddTransactions(ctx context.Context, identity shared.Identity, cols Columns) (string, error) {
	return s.add(ctx, identity, cols)
}

func (s *LedgerServiceImpl) AddIncome(ctx context.Context, identity shared.Identity, cols Columns) (string, error) {
	cols.IsIncomes = ledger.Directions(len(cols.Amounts), true)
	return s.add(ctx, identity, cols)
}

func (s *LedgerServiceImpl) AddExpense(ctx context.Context, identity shared.Identity, cols Columns) (string, error) {
	cols.IsIncomes = ledger.Directions(len(cols.Amounts), false)
	return s.add(ctx, identity, cols)
}

func (s *LedgerServiceImpl) add(ctx context.Context, identity shared.Identity, cols Columns) (string, error) {
	if err := identity.Authorize(); err != nil {
		return "", err
	}

	entries, err := ledger.BatchFromColumns(cols.Amounts, cols.Descriptions, cols.Categories, cols.IsIncomes, cols.Timestamps)
	if err != nil {
		return "", err
	}

	updated, err := s.store.Apply(ctx, identity, entries)
	if err != nil {
		if !ledger.IsValidationError(err) {
			s.logger.Error("Failed to apply batch",
				"identity", identity.String(),
				"count", len(entries),
				"error", err,
			)
		}
		return "", err
	}

	s.logger.Info("Transactions added",
		"identity", identity.String(),
		"count", len(entries),
		"next_tx_id", updated.NextTxID,
	)
	return ledger.AppliedMessage(len(entries)), nil
}

func (s *LedgerServiceImpl) SubmitBatch(ctx context.Context, identity shared.Identity, cols Columns, correlationID string) (uuid.UUID, error) {
	if err := identity.Authorize(); err != nil {
		return uuid.Nil, err
	}
	if _, err := ledger.BatchFromColumns(cols.Amounts, cols.Descriptions, cols.Categories, cols.IsIncomes, cols.Timestamps); err != nil {
		return uuid.Nil, err
	}
	if s.producer == nil {
		return uuid.Nil, ErrAsyncDisabled
	}

	req := &shared.BatchRequest{
		BatchID:       uuid.New(),
		Identity:      identity,
		Amounts:       cols.Amounts,
		Descriptions:  cols.Descriptions,
		Categories:    cols.Categories,
		IsIncomes:     cols.IsIncomes,
		Timestamps:    cols.Timestamps,
		CorrelationID: correlationID,
		SubmittedAt:   time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, identity.String(), req); err != nil {
		s.logger.Error("Failed to publish batch request",
			"batch_id", req.BatchID,
			"identity", identity.String(),
			"error", err,
		)
		return uuid.Nil, err
	}

	s.logger.Info("Batch request published",
		"batch_id", req.BatchID,
		"identity", identity.String(),
		"count", len(cols.Amounts),
	)
	return req.BatchID, nil
}

func (s *LedgerServiceImpl) BatchStatus(ctx context.Context, identity shared.Identity, batchID uuid.UUID) (*batch.Record, error) {
	if err := identity.Authorize(); err != nil {
		return nil, err
	}

	record, err := s.journal.GetByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if record.Identity != identity {
		return nil, batch.ErrRecordNotFound{BatchID: batchID}
	}
	return record, nil
}

func (s *LedgerServiceImpl) Transactions(ctx context.Context, identity shared.Identity, txType shared.TransactionType, category, yearMonth string) ([]ledger.Transaction, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return nil, err
	}
	return l.Filter(txType, category, yearMonth), nil
}

func (s *LedgerServiceImpl) SumIncome(ctx context.Context, identity shared.Identity, yearMonth string) (float64, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return 0, err
	}
	return l.SumIncome(yearMonth), nil
}

func (s *LedgerServiceImpl) SumExpense(ctx context.Context, identity shared.Identity, yearMonth string) (float64, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return 0, err
	}
	return l.SumExpense(yearMonth), nil
}

func (s *LedgerServiceImpl) Balance(ctx context.Context, identity shared.Identity, yearMonth string) (float64, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return 0, err
	}
	return l.BalanceFor(yearMonth), nil
}

func (s *LedgerServiceImpl) Analysis(ctx context.Context, identity shared.Identity) (float64, float64, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return 0, 0, err
	}
	income, expenses := l.Analysis()
	return income, expenses, nil
}

func (s *LedgerServiceImpl) Report(ctx context.Context, identity shared.Identity) ([]ledger.Transaction, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return nil, err
	}
	return l.Report(), nil
}

func (s *LedgerServiceImpl) ReportByMonth(ctx context.Context, identity shared.Identity, yearMonth string) ([]ledger.Transaction, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return nil, err
	}
	return l.ReportByMonth(yearMonth), nil
}

func (s *LedgerServiceImpl) IncomeReport(ctx context.Context, identity shared.Identity, yearMonth string) ([]ledger.Transaction, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return nil, err
	}
	return l.IncomeReport(yearMonth), nil
}

func (s *LedgerServiceImpl) ExpenseReport(ctx context.Context, identity shared.Identity, yearMonth string) ([]ledger.Transaction, error) {
	l, err := s.store.Snapshot(ctx, identity)
	if err != nil {
		return nil, err
	}
	return l.ExpenseReport(yearMonth), nil
}
