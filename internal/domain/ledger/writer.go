package ledger

import (
	"errors"
	"fmt"

	"github.com/personal-finance-ledger/internal/domain/calendar"
)

var (
	ErrColumnLengthMismatch = &ValidationError{Message: "All input arrays must have the same length"}
	ErrEmptyBatch           = &ValidationError{Message: "No transactions provided"}
)

// ValidationError reports a batch rejected before any mutation
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// BatchFromColumns zips the parallel input arrays of the write entry point into entries.
// All columns must have the same non-zero length.
func BatchFromColumns(amounts []float64, descriptions, categories []string, isIncomes []bool, timestamps []uint64) ([]Entry, error) {
	n := len(amounts)
	if n != len(descriptions) || n != len(categories) || n != len(isIncomes) || n != len(timestamps) {
		return nil, ErrColumnLengthMismatch
	}
	if n == 0 {
		return nil, ErrEmptyBatch
	}

	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			Amount:      amounts[i],
			Description: descriptions[i],
			Category:    categories[i],
			IsIncome:    isIncomes[i],
			Timestamp:   timestamps[i],
		}
	}
	return entries, nil
}

// Directions builds an is_income column of the given length with every value set to isIncome
func Directions(n int, isIncome bool) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = isIncome
	}
	return out
}

// AppendBatch applies entries in order to a copy of l and returns it. Each entry gets the next
// id and a date derived from its timestamp, and moves the balance by its signed amount.
// l itself is never modified.
func AppendBatch(l *Ledger, entries []Entry) (*Ledger, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	next := &Ledger{
		Transactions: make([]Transaction, len(l.Transactions), len(l.Transactions)+len(entries)),
		NextTxID:     l.NextTxID,
		Balance:      l.Balance,
		Version:      l.Version,
	}
	copy(next.Transactions, l.Transactions)
	for _, e := range entries {
		tx := Transaction{
			ID:          next.NextTxID,
			Amount:      e.Amount,
			Description: e.Description,
			IsIncome:    e.IsIncome,
			Timestamp:   e.Timestamp,
			Date:        calendar.ToCalendarString(e.Timestamp),
			Category:    e.Category,
		}
		next.Transactions = append(next.Transactions, tx)
		next.Balance += tx.signedAmount()
		next.NextTxID++
	}
	return next, nil
}

// AppliedMessage is the confirmation returned for a successfully applied batch
func AppliedMessage(count int) string {
	return fmt.Sprintf("Added %d transactions successfully", count)
}
