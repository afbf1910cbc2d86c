package memory

import (
	"context"
	"sync"

	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

// LedgerRepository keeps ledgers in process memory. Stored ledgers are never handed out
// directly: reads and writes copy.
type LedgerRepository struct {
	mu      sync.RWMutex
	ledgers map[shared.Identity]*ledger.Ledger
}

// NewLedgerRepository creates an empty in-memory ledger repository
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		ledgers: make(map[shared.Identity]*ledger.Ledger),
	}
}

var _ ledger.Repository = (*LedgerRepository)(nil)

// GetOrDefault returns a copy of the stored ledger or a new empty one
func (r *LedgerRepository) GetOrDefault(_ context.Context, identity shared.Identity) (*ledger.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.ledgers[identity]; ok {
		return l.Clone(), nil
	}
	return ledger.New(), nil
}

// Put stores a copy of l if the stored version matches
func (r *LedgerRepository) Put(_ context.Context, identity shared.Identity, l *ledger.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current int64
	if stored, ok := r.ledgers[identity]; ok {
		current = stored.Version
	}
	if current != l.Version {
		return ledger.ErrConcurrentModification{Identity: identity}
	}

	l.Version++
	r.ledgers[identity] = l.Clone()
	return nil
}
