package service

import (
	"context"

	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing submitted batches.
// A nil error means the message can be acknowledged.
type ProcessingService interface {
	ProcessBatch(ctx context.Context, request *shared.BatchRequest) error
}

// BatchValidator validates batch requests before processing
type BatchValidator interface {
	// Validate returns the entries of the batch, or an error the batch must be rejected with
	Validate(ctx context.Context, request *shared.BatchRequest) ([]ledger.Entry, error)
	// CheckIdempotency reports whether the batch already reached a terminal status
	CheckIdempotency(ctx context.Context, request *shared.BatchRequest) (bool, error)
}

// LedgerManager appends validated batches to the owner's ledger
type LedgerManager interface {
	ApplyBatch(ctx context.Context, request *shared.BatchRequest, entries []ledger.Entry) error
}

// FailureRecorder handles recording rejected batches
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.BatchRequest, failureReason string) error
}
