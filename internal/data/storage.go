// Package data selects and opens the ledger and batch journal backends named in the configuration.
package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/data/memory"
	"github.com/personal-finance-ledger/internal/data/mongo"
	"github.com/personal-finance-ledger/internal/data/postgres"
	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/platform/persistence"
)

// Dependency is an opened backend that can be probed for readiness
type Dependency interface {
	Name() string
	Ping(ctx context.Context) error
}

// Stores holds the repositories of one process and the connections behind them
type Stores struct {
	Ledgers ledger.Repository
	Journal batch.Repository

	postgresDB *persistence.PostgresDB
	mongoDB    *persistence.MongoDB
	logger     *slog.Logger
}

// Open connects the backends selected by cfg.Storage. Memory drivers need no connection.
func Open(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Stores, error) {
	s := &Stores{logger: logger}

	needMongo := cfg.Storage.Driver == config.DriverMongo || cfg.Storage.JournalDriver == config.DriverMongo
	if needMongo {
		mongoDB, err := persistence.NewMongoDB(ctx, logger, &cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s.mongoDB = mongoDB
	}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		s.Ledgers = memory.NewLedgerRepository()
	case config.DriverPostgres:
		postgresDB, err := persistence.NewPostgresDB(ctx, logger, &cfg.Postgres)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.postgresDB = postgresDB
		s.Ledgers = postgres.NewLedgerRepository(logger, postgresDB)
	case config.DriverMongo:
		s.Ledgers = mongo.NewLedgerRepository(logger, s.mongoDB.Database())
	default:
		_ = s.Close(ctx)
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	switch cfg.Storage.JournalDriver {
	case config.DriverMemory:
		s.Journal = memory.NewBatchRepository()
	case config.DriverMongo:
		s.Journal = mongo.NewBatchRepository(logger, s.mongoDB.Database())
	default:
		_ = s.Close(ctx)
		return nil, fmt.Errorf("unsupported journal driver %q", cfg.Storage.JournalDriver)
	}

	logger.Info("Storage initialized",
		"ledger_driver", cfg.Storage.Driver,
		"journal_driver", cfg.Storage.JournalDriver,
	)
	return s, nil
}

// Dependencies returns the opened network backends
func (s *Stores) Dependencies() []Dependency {
	var deps []Dependency
	if s.postgresDB != nil {
		deps = append(deps, s.postgresDB)
	}
	if s.mongoDB != nil {
		deps = append(deps, s.mongoDB)
	}
	return deps
}

// Close releases every connection opened by Open
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	if s.postgresDB != nil {
		s.postgresDB.Close()
		s.postgresDB = nil
	}
	if s.mongoDB != nil {
		if err := s.mongoDB.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		s.mongoDB = nil
	}
	return errors.Join(errs...)
}
