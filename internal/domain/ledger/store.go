package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/personal-finance-ledger/internal/domain/shared"
)

// DefaultMaxWriteRetries bounds the compare-and-swap loop of Store.Apply
const DefaultMaxWriteRetries = 5

// Store serializes writers of the same identity. Within a process a per-identity mutex
// guards the read-modify-write cycle; across processes the repository version check
// rejects stale writes, which are retried against a fresh read.
type Store struct {
	repo       Repository
	logger     *slog.Logger
	maxRetries int

	mu    sync.Mutex
	locks map[shared.Identity]*sync.Mutex
}

// NewStore wraps repo with write serialization
func NewStore(repo Repository, logger *slog.Logger, maxRetries int) *Store {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxWriteRetries
	}
	return &Store{
		repo:       repo,
		logger:     logger,
		maxRetries: maxRetries,
		locks:      make(map[shared.Identity]*sync.Mutex),
	}
}

func (s *Store) identityLock(identity shared.Identity) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[identity]; !ok {
		s.locks[identity] = &sync.Mutex{}
	}
	return s.locks[identity]
}

// Snapshot returns the current ledger of identity. Queries never take the identity lock.
func (s *Store) Snapshot(ctx context.Context, identity shared.Identity) (*Ledger, error) {
	if err := identity.Authorize(); err != nil {
		return nil, err
	}

	l, err := s.repo.GetOrDefault(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return l, nil
}

// Apply appends entries to the ledger of identity as one unit and returns the stored result.
// On any error the stored ledger is unchanged.
func (s *Store) Apply(ctx context.Context, identity shared.Identity, entries []Entry) (*Ledger, error) {
	if err := identity.Authorize(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	lock := s.identityLock(identity)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err := s.repo.GetOrDefault(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger: %w", err)
		}

		next, err := AppendBatch(current, entries)
		if err != nil {
			return nil, err
		}

		err = s.repo.Put(ctx, identity, next)
		if err == nil {
			s.logger.Debug("Ledger updated",
				"identity", identity.String(),
				"appended", len(entries),
				"next_tx_id", next.NextTxID,
				"version", next.Version,
			)
			return next, nil
		}

		if !errors.Is(err, ErrConcurrentModification{}) {
			return nil, fmt.Errorf("failed to store ledger: %w", err)
		}
		s.logger.Warn("Concurrent ledger modification, retrying",
			"identity", identity.String(),
			"attempt", attempt,
		)
	}

	return nil, ErrConcurrentModification{Identity: identity}
}
