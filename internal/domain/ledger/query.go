package ledger

import (
	"math"

	"github.com/personal-finance-ledger/internal/domain/shared"
)

// Filter returns the transactions matching all given constraints in insertion order.
// An empty category or yearMonth leaves that dimension unconstrained.
func (l *Ledger) Filter(txType shared.TransactionType, category, yearMonth string) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range l.Transactions {
		if !txType.Matches(tx.IsIncome) {
			continue
		}
		if category != "" && tx.Category != category {
			continue
		}
		if yearMonth != "" && tx.YearMonth() != yearMonth {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SumIncome totals income amounts, optionally restricted to one month
func (l *Ledger) SumIncome(yearMonth string) float64 {
	return sumAmounts(l.Filter(shared.TransactionTypeIncome, "", yearMonth))
}

// SumExpense totals expense amounts, optionally restricted to one month
func (l *Ledger) SumExpense(yearMonth string) float64 {
	return sumAmounts(l.Filter(shared.TransactionTypeExpense, "", yearMonth))
}

// BalanceFor returns the running balance when yearMonth is empty, otherwise the
// income minus expenses of that month computed from its transactions.
func (l *Ledger) BalanceFor(yearMonth string) float64 {
	if yearMonth == "" {
		return l.Balance
	}
	return l.SumIncome(yearMonth) - l.SumExpense(yearMonth)
}

// Analysis returns total income and total expenses over the whole history.
// Unlike SumIncome and SumExpense the totals are returned as accumulated.
func (l *Ledger) Analysis() (income, expenses float64) {
	for _, tx := range l.Transactions {
		if tx.IsIncome {
			income += tx.Amount
		} else {
			expenses += tx.Amount
		}
	}
	return income, expenses
}

// Report returns every transaction
func (l *Ledger) Report() []Transaction {
	return l.Filter(shared.TransactionTypeAll, "", "")
}

// ReportByMonth returns the transactions of one month, or all of them when yearMonth is empty
func (l *Ledger) ReportByMonth(yearMonth string) []Transaction {
	return l.Filter(shared.TransactionTypeAll, "", yearMonth)
}

// IncomeReport returns income transactions, optionally restricted to one month
func (l *Ledger) IncomeReport(yearMonth string) []Transaction {
	return l.Filter(shared.TransactionTypeIncome, "", yearMonth)
}

// ExpenseReport returns expense transactions, optionally restricted to one month
func (l *Ledger) ExpenseReport(yearMonth string) []Transaction {
	return l.Filter(shared.TransactionTypeExpense, "", yearMonth)
}

func sumAmounts(txs []Transaction) float64 {
	total := math.Copysign(0, -1) // IEEE-754 additive identity
	for _, tx := range txs {
		total += tx.Amount
	}
	if total == 0 {
		return 0
	}
	return total
}
