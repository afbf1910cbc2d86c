package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

const (
	// BatchCollectionName is the name of the batch journal collection in MongoDB
	BatchCollectionName = "batch_journal"
)

type batchDocument struct {
	BatchID       string     `bson:"_id"`
	Identity      string     `bson:"identity"`
	Status        string     `bson:"status"`
	Count         int        `bson:"count"`
	FailureReason string     `bson:"failure_reason,omitempty"`
	CorrelationID string     `bson:"correlation_id,omitempty"`
	SubmittedAt   time.Time  `bson:"submitted_at"`
	ProcessedAt   *time.Time `bson:"processed_at,omitempty"`
}

func newBatchDocument(record *batch.Record) batchDocument {
	return batchDocument{
		BatchID:       record.BatchID.String(),
		Identity:      record.Identity.String(),
		Status:        string(record.Status),
		Count:         record.Count,
		FailureReason: record.FailureReason,
		CorrelationID: record.CorrelationID,
		SubmittedAt:   record.SubmittedAt,
		ProcessedAt:   record.ProcessedAt,
	}
}

func (d *batchDocument) toRecord() (*batch.Record, error) {
	id, err := uuid.Parse(d.BatchID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored batch id %q: %w", d.BatchID, err)
	}
	return &batch.Record{
		BatchID:       id,
		Identity:      shared.Identity(d.Identity),
		Status:        shared.BatchStatus(d.Status),
		Count:         d.Count,
		FailureReason: d.FailureReason,
		CorrelationID: d.CorrelationID,
		SubmittedAt:   d.SubmittedAt,
		ProcessedAt:   d.ProcessedAt,
	}, nil
}

// BatchRepository implements the batch.Repository interface for MongoDB
type BatchRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewBatchRepository creates a new MongoDB batch journal
func NewBatchRepository(logger *slog.Logger, db *mongo.Database) batch.Repository {
	return &BatchRepository{
		db:     db,
		logger: logger,
	}
}

// Save upserts the record keyed by its batch id
func (r *BatchRepository) Save(ctx context.Context, record *batch.Record) error {
	collection := r.db.Collection(BatchCollectionName)

	doc := newBatchDocument(record)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": doc.BatchID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to save batch record",
			"batch_id", doc.BatchID,
			"status", doc.Status,
			"error", err)
		return fmt.Errorf("failed to save batch record: %w", err)
	}

	return nil
}

// GetByBatchID returns ErrRecordNotFound until the batch has been processed
func (r *BatchRepository) GetByBatchID(ctx context.Context, batchID uuid.UUID) (*batch.Record, error) {
	collection := r.db.Collection(BatchCollectionName)

	var doc batchDocument
	err := collection.FindOne(ctx, bson.M{"_id": batchID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, batch.ErrRecordNotFound{BatchID: batchID}
		}
		r.logger.Error("Failed to get batch record",
			"batch_id", batchID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get batch record: %w", err)
	}

	return doc.toRecord()
}
