package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/advice"
)

// Columns is a write batch in the parallel-array form accepted by the API
type Columns struct {
	Amounts      []float64
	Descriptions []string
	Categories   []string
	IsIncomes    []bool
	Timestamps   []uint64
}

// LedgerService defines the interface for ledger operations. Every method rejects the
// anonymous identity with shared.ErrUnauthenticated.
type LedgerService interface {
	// AddTransactions appends the batch atomically and returns the confirmation message
	AddTransactions(ctx context.Context, identity shared.Identity, cols Columns) (string, error)

	// AddIncome appends a batch whose entries are all income; cols.IsIncomes is ignored
	AddIncome(ctx context.Context, identity shared.Identity, cols Columns) (string, error)

	// AddExpense appends a batch whose entries are all expenses; cols.IsIncomes is ignored
	AddExpense(ctx context.Context, identity shared.Identity, cols Columns) (string, error)

	// SubmitBatch validates the batch and hands it to the asynchronous pipeline
	SubmitBatch(ctx context.Context, identity shared.Identity, cols Columns, correlationID string) (uuid.UUID, error)

	// BatchStatus returns the journal record of a submitted batch.
	// Returns batch.ErrRecordNotFound while the batch is pending or if it belongs to another identity.
	BatchStatus(ctx context.Context, identity shared.Identity, batchID uuid.UUID) (*batch.Record, error)

	Transactions(ctx context.Context, identity shared.Identity, txType shared.TransactionType, category, yearMonth string) ([]ledger.Transaction, error)
	SumIncome(ctx context.Context, identity shared.Identity, yearMonth string) (float64, error)
	SumExpense(ctx context.Context, identity shared.Identity, yearMonth string) (float64, error)
	Balance(ctx context.Context, identity shared.Identity, yearMonth string) (float64, error)
	Analysis(ctx context.Context, identity shared.Identity) (income float64, expenses float64, err error)

	Report(ctx context.Context, identity shared.Identity) ([]ledger.Transaction, error)
	ReportByMonth(ctx context.Context, identity shared.Identity, yearMonth string) ([]ledger.Transaction, error)
	IncomeReport(ctx context.Context, identity shared.Identity, yearMonth string) ([]ledger.Transaction, error)
	ExpenseReport(ctx context.Context, identity shared.Identity, yearMonth string) ([]ledger.Transaction, error)
}

// Quote is a conversion rate, optionally applied to an amount
type Quote struct {
	From      string
	To        string
	Rate      float64
	Amount    *float64
	Converted *float64
}

// ExternalService defines the interface for the outbound collaborators
type ExternalService interface {
	// ExchangeRate returns the current rate and converts amount when it is not nil
	ExchangeRate(ctx context.Context, identity shared.Identity, amount *float64) (*Quote, error)

	// Advice asks for advice on the summary. An all-empty summary is filled from the caller's ledger.
	Advice(ctx context.Context, identity shared.Identity, summary advice.Summary) (string, error)
}

// RateProvider is implemented by the exchange rate client
type RateProvider interface {
	Rate(ctx context.Context) (float64, error)
	Pair() (from string, to string)
}

// Advisor is implemented by the advice client
type Advisor interface {
	Advise(ctx context.Context, summary advice.Summary) (string, error)
}

// LedgerReader is the read side of ledger.Store
type LedgerReader interface {
	Snapshot(ctx context.Context, identity shared.Identity) (*ledger.Ledger, error)
}

// LedgerWriter is the write side of ledger.Store
type LedgerWriter interface {
	LedgerReader
	Apply(ctx context.Context, identity shared.Identity, entries []ledger.Entry) (*ledger.Ledger, error)
}
