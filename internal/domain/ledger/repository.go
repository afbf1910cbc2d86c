package ledger

import (
	"context"

	"github.com/personal-finance-ledger/internal/domain/shared"
)

// Repository maps identities to their ledgers. Ledgers are always read and written whole.
type Repository interface {
	// GetOrDefault returns the stored ledger, or an empty one with Version 0 when the identity
	// has none. A missing ledger is not inserted.
	GetOrDefault(ctx context.Context, identity shared.Identity) (*Ledger, error)

	// Put replaces the stored ledger if its version still equals l.Version, then increments
	// l.Version. Otherwise it returns ErrConcurrentModification.
	Put(ctx context.Context, identity shared.Identity, l *Ledger) error
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	Identity shared.Identity
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for ledger: " + e.Identity.String()
}

// Is implements the errors.Is interface for ErrConcurrentModification
func (e ErrConcurrentModification) Is(target error) bool {
	t, ok := target.(ErrConcurrentModification)
	if !ok {
		return false
	}
	// An empty target identity matches any ErrConcurrentModification
	if t.Identity == "" {
		return true
	}
	return e.Identity == t.Identity
}
