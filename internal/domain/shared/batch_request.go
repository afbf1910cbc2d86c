package shared

import (
	"time"

	"github.com/google/uuid"
)

// BatchRequest defines a Kafka message carrying a batch submitted for asynchronous application.
// The columns are parallel arrays, one element per transaction.
type BatchRequest struct {
	BatchID       uuid.UUID `json:"batch_id"`
	Identity      Identity  `json:"identity"`
	Amounts       []float64 `json:"amounts"`
	Descriptions  []string  `json:"descriptions"`
	Categories    []string  `json:"categories"`
	IsIncomes     []bool    `json:"is_incomes"`
	Timestamps    []uint64  `json:"timestamps"`
	CorrelationID string    `json:"correlation_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
