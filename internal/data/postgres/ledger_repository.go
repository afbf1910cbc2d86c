// Package postgres provides PostgreSQL implementations of the domain repositories.
// Each ledger is stored as one JSONB document guarded by a version column.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetOrDefault loads the ledger of identity. An identity without a row gets an empty
// ledger at version 0 and no row is created.
func (r *LedgerRepository) GetOrDefault(ctx context.Context, identity shared.Identity) (*ledger.Ledger, error) {
	query := `
		SELECT data, version
		FROM ledgers
		WHERE identity = $1
	`

	var (
		data    []byte
		version int64
	)
	err := r.querier.QueryRow(ctx, query, identity.String()).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.New(), nil
		}
		r.logger.Error("Failed to get ledger", "identity", identity.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	l := ledger.New()
	if err := json.Unmarshal(data, l); err != nil {
		r.logger.Error("Failed to decode stored ledger", "identity", identity.String(), "error", err)
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	l.Version = version

	return l, nil
}

// Put writes the whole ledger. Version 0 inserts a new row, any other version updates the
// row only if it still carries that version.
func (r *LedgerRepository) Put(ctx context.Context, identity shared.Identity, l *ledger.Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	var query string
	var args []any
	if l.Version == 0 {
		query = `
			INSERT INTO ledgers (identity, data, version, updated_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (identity) DO NOTHING
		`
		args = []any{identity.String(), data, time.Now().UTC()}
	} else {
		query = `
			UPDATE ledgers
			SET data = $1, version = version + 1, updated_at = $2
			WHERE identity = $3 AND version = $4
		`
		args = []any{data, time.Now().UTC(), identity.String(), l.Version}
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to store ledger", "identity", identity.String(), "version", l.Version, "error", err)
		return fmt.Errorf("failed to store ledger: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrConcurrentModification{Identity: identity}
	}

	l.Version++
	return nil
}
