package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const (
	selectLedgerQuery = `
		SELECT data, version
		FROM ledgers
		WHERE identity = \$1
	`
	insertLedgerQuery = `
			INSERT INTO ledgers \(identity, data, version, updated_at\)
			VALUES \(\$1, \$2, 1, \$3\)
			ON CONFLICT \(identity\) DO NOTHING
		`
	updateLedgerQuery = `
			UPDATE ledgers
			SET data = \$1, version = version \+ 1, updated_at = \$2
			WHERE identity = \$3 AND version = \$4
		`
)

func sampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.AppendBatch(ledger.New(), []ledger.Entry{
		{Amount: 100, Description: "salary", Category: "job", IsIncome: true, Timestamp: 1_718_006_400_000_000_000},
		{Amount: 40, Description: "lunch", Category: "food", Timestamp: 1_718_006_400_000_000_000},
	})
	require.NoError(t, err)
	return l
}

func TestLedgerRepository_GetOrDefault(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: newTestLogger()}
	identity := shared.Identity("user-1")

	t.Run("success", func(t *testing.T) {
		stored := sampleLedger(t)
		data, err := json.Marshal(stored)
		require.NoError(t, err)

		mock.ExpectQuery(selectLedgerQuery).
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"data", "version"}).AddRow(data, int64(4)))

		got, err := repo.GetOrDefault(ctx, identity)
		require.NoError(t, err)
		stored.Version = 4
		assert.Equal(t, stored.Transactions, got.Transactions)
		assert.Equal(t, stored.NextTxID, got.NextTxID)
		assert.Equal(t, stored.Balance, got.Balance)
		assert.Equal(t, int64(4), got.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing ledger defaults to empty", func(t *testing.T) {
		mock.ExpectQuery(selectLedgerQuery).WithArgs("user-1").WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetOrDefault(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, ledger.New(), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(selectLedgerQuery).WithArgs("user-1").WillReturnError(expectedErr)

		got, err := repo.GetOrDefault(ctx, identity)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to get ledger")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt document", func(t *testing.T) {
		mock.ExpectQuery(selectLedgerQuery).
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"data", "version"}).AddRow([]byte(`{"transactions":`), int64(1)))

		got, err := repo.GetOrDefault(ctx, identity)
		assert.Nil(t, got)
		assert.Contains(t, err.Error(), "failed to decode ledger")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Put(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: newTestLogger()}
	identity := shared.Identity("user-1")

	t.Run("insert first version", func(t *testing.T) {
		l := sampleLedger(t)
		data, err := json.Marshal(l)
		require.NoError(t, err)

		mock.ExpectExec(insertLedgerQuery).
			WithArgs("user-1", data, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Put(ctx, identity, l))
		assert.Equal(t, int64(1), l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert conflict", func(t *testing.T) {
		l := sampleLedger(t)
		mock.ExpectExec(insertLedgerQuery).
			WithArgs("user-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		err := repo.Put(ctx, identity, l)
		assert.ErrorIs(t, err, ledger.ErrConcurrentModification{Identity: identity})
		assert.Equal(t, int64(0), l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update matching version", func(t *testing.T) {
		l := sampleLedger(t)
		l.Version = 3
		data, err := json.Marshal(l)
		require.NoError(t, err)

		mock.ExpectExec(updateLedgerQuery).
			WithArgs(data, pgxmock.AnyArg(), "user-1", int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Put(ctx, identity, l))
		assert.Equal(t, int64(4), l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update stale version", func(t *testing.T) {
		l := sampleLedger(t)
		l.Version = 3
		mock.ExpectExec(updateLedgerQuery).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Put(ctx, identity, l)
		var conflict ledger.ErrConcurrentModification
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, identity, conflict.Identity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec failure", func(t *testing.T) {
		l := sampleLedger(t)
		l.Version = 1
		expectedErr := errors.New("db error")
		mock.ExpectExec(updateLedgerQuery).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", int64(1)).
			WillReturnError(expectedErr)

		err := repo.Put(ctx, identity, l)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to store ledger")
		assert.Equal(t, int64(1), l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerDocumentOmitsVersion(t *testing.T) {
	l := sampleLedger(t)
	l.Version = 9
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "version")

	var back ledger.Ledger
	require.NoError(t, json.Unmarshal(data, &back))
	back.Version = l.Version
	assert.Equal(t, l.Transactions, back.Transactions)
	assert.Equal(t, l.Balance, back.Balance)
	assert.Equal(t, l.NextTxID, back.NextTxID)
}
