package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

const (
	// LedgerCollectionName is the name of the ledger collection in MongoDB
	LedgerCollectionName = "ledgers"
)

// ledgerDocument is the stored shape of one identity's ledger
type ledgerDocument struct {
	Identity     string               `bson:"_id"`
	Transactions []ledger.Transaction `bson:"transactions"`
	NextTxID     uint64               `bson:"next_tx_id"`
	Balance      float64              `bson:"balance"`
	Version      int64                `bson:"version"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (d *ledgerDocument) toLedger() *ledger.Ledger {
	l := ledger.New()
	if d.Transactions != nil {
		l.Transactions = d.Transactions
	}
	l.NextTxID = d.NextTxID
	l.Balance = d.Balance
	l.Version = d.Version
	return l
}

// LedgerRepository implements the ledger.Repository interface for MongoDB
type LedgerRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new MongoDB ledger repository
func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) ledger.Repository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

// GetOrDefault loads the ledger document of identity, or an empty ledger at version 0
func (r *LedgerRepository) GetOrDefault(ctx context.Context, identity shared.Identity) (*ledger.Ledger, error) {
	collection := r.db.Collection(LedgerCollectionName)

	var doc ledgerDocument
	err := collection.FindOne(ctx, bson.M{"_id": identity.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ledger.New(), nil
		}
		r.logger.Error("Failed to get ledger",
			"identity", identity.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	return doc.toLedger(), nil
}

// Put inserts the first version of a ledger or replaces the fields of the stored one
// when its version still matches l.Version.
func (r *LedgerRepository) Put(ctx context.Context, identity shared.Identity, l *ledger.Ledger) error {
	collection := r.db.Collection(LedgerCollectionName)
	now := time.Now().UTC()

	if l.Version == 0 {
		doc := ledgerDocument{
			Identity:     identity.String(),
			Transactions: l.Transactions,
			NextTxID:     l.NextTxID,
			Balance:      l.Balance,
			Version:      1,
			UpdatedAt:    now,
		}
		if _, err := collection.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ledger.ErrConcurrentModification{Identity: identity}
			}
			r.logger.Error("Failed to insert ledger",
				"identity", identity.String(),
				"error", err)
			return fmt.Errorf("failed to store ledger: %w", err)
		}
		l.Version = 1
		return nil
	}

	filter := bson.M{"_id": identity.String(), "version": l.Version}
	update := bson.M{
		"$set": bson.M{
			"transactions": l.Transactions,
			"next_tx_id":   l.NextTxID,
			"balance":      l.Balance,
			"updated_at":   now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update ledger",
			"identity", identity.String(),
			"version", l.Version,
			"error", err)
		return fmt.Errorf("failed to store ledger: %w", err)
	}

	if result.MatchedCount == 0 {
		return ledger.ErrConcurrentModification{Identity: identity}
	}

	l.Version++
	return nil
}
