package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/personal-finance-ledger/internal/domain/batch"
)

// BatchRepository keeps the batch journal in process memory
type BatchRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]batch.Record
}

// NewBatchRepository creates an empty in-memory batch journal
func NewBatchRepository() *BatchRepository {
	return &BatchRepository{
		records: make(map[uuid.UUID]batch.Record),
	}
}

var _ batch.Repository = (*BatchRepository)(nil)

func (r *BatchRepository) Save(_ context.Context, record *batch.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.BatchID] = *record
	return nil
}

func (r *BatchRepository) GetByBatchID(_ context.Context, batchID uuid.UUID) (*batch.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[batchID]
	if !ok {
		return nil, batch.ErrRecordNotFound{BatchID: batchID}
	}
	return &record, nil
}
