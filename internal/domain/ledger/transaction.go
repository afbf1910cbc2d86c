package ledger

import (
	"github.com/personal-finance-ledger/internal/domain/calendar"
)

// Transaction is a single income or expense record. Amount is a magnitude; the
// direction is carried by IsIncome.
type Transaction struct {
	ID          uint64  `json:"id" bson:"id"`
	Amount      float64 `json:"amount" bson:"amount"`
	Description string  `json:"description" bson:"description"`
	IsIncome    bool    `json:"is_income" bson:"is_income"`
	Timestamp   uint64  `json:"timestamp" bson:"timestamp"`
	Date        string  `json:"date" bson:"date"`
	Category    string  `json:"category" bson:"category"`
}

// YearMonth returns the "YYYY-MM" bucket of the transaction timestamp
func (t Transaction) YearMonth() string {
	return calendar.ToYearMonth(t.Timestamp)
}

// signedAmount returns the contribution of the transaction to the running balance
func (t Transaction) signedAmount() float64 {
	if t.IsIncome {
		return t.Amount
	}
	return -t.Amount
}

// Ledger is the full transaction history of one identity.
// Balance always equals the signed sum of all transactions and is maintained incrementally.
type Ledger struct {
	Transactions []Transaction `json:"transactions"`
	NextTxID     uint64        `json:"next_tx_id"`
	Balance      float64       `json:"balance"`

	// Version is store metadata for optimistic concurrency. It is not part of the serialized ledger.
	Version int64 `json:"-"`
}

// New returns the empty ledger every identity starts with
func New() *Ledger {
	return &Ledger{Transactions: []Transaction{}}
}

// Clone returns a deep copy that shares no backing arrays with l
func (l *Ledger) Clone() *Ledger {
	txs := make([]Transaction, len(l.Transactions))
	copy(txs, l.Transactions)
	return &Ledger{
		Transactions: txs,
		NextTxID:     l.NextTxID,
		Balance:      l.Balance,
		Version:      l.Version,
	}
}

// Entry is one element of a write batch before it is assigned an id and date
type Entry struct {
	Amount      float64
	Description string
	Category    string
	IsIncome    bool
	Timestamp   uint64
}
