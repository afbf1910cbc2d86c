package batch

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the outcome of asynchronously submitted batches
type Repository interface {
	// Save stores the record, replacing a previous record of the same batch
	Save(ctx context.Context, record *Record) error
	GetByBatchID(ctx context.Context, batchID uuid.UUID) (*Record, error)
}

// ErrRecordNotFound indicates the batch has not been processed yet
type ErrRecordNotFound struct {
	BatchID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "batch record not found: " + e.BatchID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	// If the target BatchID is empty, consider it a match for any ErrRecordNotFound
	if t.BatchID == uuid.Nil {
		return true
	}
	return e.BatchID == t.BatchID
}
