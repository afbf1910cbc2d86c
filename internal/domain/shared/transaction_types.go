package shared

// TransactionType selects which side of the ledger a query looks at
type TransactionType string

const (
	TransactionTypeAll     TransactionType = "ALL"
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Matches reports whether an entry with the given direction passes the type filter.
// Unknown types match nothing.
func (t TransactionType) Matches(isIncome bool) bool {
	switch t {
	case TransactionTypeAll:
		return true
	case TransactionTypeIncome:
		return isIncome
	case TransactionTypeExpense:
		return !isIncome
	default:
		return false
	}
}

// BatchStatus defines async batch processing states
type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "PENDING"
	BatchStatusApplied  BatchStatus = "APPLIED"
	BatchStatusRejected BatchStatus = "REJECTED"
)

// IsTerminal reports whether a batch in this status must not be processed again
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusApplied || s == BatchStatusRejected
}
