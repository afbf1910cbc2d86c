package batch

import (
	"time"

	"github.com/google/uuid"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

// Record is the journal entry of an asynchronously submitted batch
type Record struct {
	BatchID       uuid.UUID          `json:"batch_id"`
	Identity      shared.Identity    `json:"identity"`
	Status        shared.BatchStatus `json:"status"`
	Count         int                `json:"count"`
	FailureReason string             `json:"failure_reason,omitempty"`
	CorrelationID string             `json:"correlation_id,omitempty"`
	SubmittedAt   time.Time          `json:"submitted_at"`
	ProcessedAt   *time.Time         `json:"processed_at,omitempty"`
}

// NewApplied records a batch whose transactions were appended to the ledger
func NewApplied(request *shared.BatchRequest, count int) *Record {
	return newRecord(request, shared.BatchStatusApplied, count, "")
}

// NewRejected records a batch that was refused without touching the ledger
func NewRejected(request *shared.BatchRequest, reason string) *Record {
	return newRecord(request, shared.BatchStatusRejected, 0, reason)
}

func newRecord(request *shared.BatchRequest, status shared.BatchStatus, count int, reason string) *Record {
	now := time.Now().UTC()
	return &Record{
		BatchID:       request.BatchID,
		Identity:      request.Identity,
		Status:        status,
		Count:         count,
		FailureReason: reason,
		CorrelationID: request.CorrelationID,
		SubmittedAt:   request.SubmittedAt,
		ProcessedAt:   &now,
	}
}
