package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	june2024 = uint64(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC).UnixNano())
	july2024 = uint64(time.Date(2024, 7, 2, 18, 30, 0, 0, time.UTC).UnixNano())
)

func scenarioLedger(t *testing.T) *Ledger {
	t.Helper()
	entries, err := BatchFromColumns(
		[]float64{100, 40},
		[]string{"salary", "lunch"},
		[]string{"job", "food"},
		[]bool{true, false},
		[]uint64{june2024, june2024},
	)
	require.NoError(t, err)

	l, err := AppendBatch(New(), entries)
	require.NoError(t, err)
	return l
}

func signedSum(l *Ledger) float64 {
	var sum float64
	for _, tx := range l.Transactions {
		sum += tx.signedAmount()
	}
	return sum
}

func TestScenario(t *testing.T) {
	l := scenarioLedger(t)

	assert.Equal(t, 60.0, l.BalanceFor(""))
	assert.Equal(t, 100.0, l.SumIncome("2024-06"))
	assert.Equal(t, 40.0, l.SumExpense("2024-06"))

	got := l.Filter(shared.TransactionTypeExpense, "food", "2024-06")
	require.Len(t, got, 1)
	assert.Equal(t, "lunch", got[0].Description)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, "2024-06-10 08:00:00", got[0].Date)
}

func TestBatchFromColumns(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		entries, err := BatchFromColumns([]float64{1, 2}, []string{"a"}, []string{"c", "c"}, []bool{true, true}, []uint64{1, 2})
		assert.Nil(t, entries)
		assert.Equal(t, ErrColumnLengthMismatch, err)
		assert.Equal(t, "All input arrays must have the same length", err.Error())
		assert.True(t, IsValidationError(err))
	})

	t.Run("timestamps shorter", func(t *testing.T) {
		_, err := BatchFromColumns([]float64{1}, []string{"a"}, []string{"c"}, []bool{true}, nil)
		assert.Equal(t, ErrColumnLengthMismatch, err)
	})

	t.Run("empty", func(t *testing.T) {
		entries, err := BatchFromColumns(nil, nil, nil, nil, nil)
		assert.Nil(t, entries)
		assert.Equal(t, ErrEmptyBatch, err)
		assert.Equal(t, "No transactions provided", err.Error())
	})

	t.Run("zips columns", func(t *testing.T) {
		entries, err := BatchFromColumns([]float64{5.5}, []string{"coffee"}, []string{"food"}, []bool{false}, []uint64{july2024})
		require.NoError(t, err)
		assert.Equal(t, []Entry{{Amount: 5.5, Description: "coffee", Category: "food", IsIncome: false, Timestamp: july2024}}, entries)
	})
}

func TestDirections(t *testing.T) {
	assert.Equal(t, []bool{true, true, true}, Directions(3, true))
	assert.Equal(t, []bool{}, Directions(0, false))
}

func TestAppendBatch_AssignsIDsAndDates(t *testing.T) {
	l := scenarioLedger(t)

	more, err := AppendBatch(l, []Entry{{Amount: 7, Description: "bus", Category: "transport", Timestamp: july2024}})
	require.NoError(t, err)

	require.Len(t, more.Transactions, 3)
	for i, tx := range more.Transactions {
		assert.Equal(t, uint64(i), tx.ID)
	}
	assert.Equal(t, uint64(3), more.NextTxID)
	assert.Equal(t, "2024-07-02 18:30:00", more.Transactions[2].Date)
	assert.Equal(t, 53.0, more.Balance)
}

func TestAppendBatch_DoesNotMutateInput(t *testing.T) {
	l := scenarioLedger(t)
	before := l.Clone()

	_, err := AppendBatch(l, []Entry{{Amount: 1, IsIncome: true, Timestamp: july2024}})
	require.NoError(t, err)
	assert.Equal(t, before, l)

	_, err = AppendBatch(l, nil)
	assert.Equal(t, ErrEmptyBatch, err)
	assert.Equal(t, before, l)
}

func TestAppendBatch_NoNormalization(t *testing.T) {
	entry := Entry{Amount: 0.1, IsIncome: true, Timestamp: june2024}
	l, err := AppendBatch(New(), []Entry{entry, entry, entry})
	require.NoError(t, err)

	assert.Len(t, l.Transactions, 3)
	assert.Equal(t, 0.30000000000000004, l.Balance)
}

func TestRunningBalanceInvariant(t *testing.T) {
	l := New()
	batches := [][]Entry{
		{{Amount: 1200, IsIncome: true, Timestamp: june2024}},
		{{Amount: 13.37, Timestamp: june2024}, {Amount: 250.5, Timestamp: july2024}},
		{{Amount: 0.01, IsIncome: true, Timestamp: july2024}, {Amount: 99.99, Timestamp: july2024}, {Amount: 42, IsIncome: true, Timestamp: 0}},
	}

	for _, b := range batches {
		var err error
		l, err = AppendBatch(l, b)
		require.NoError(t, err)
		assert.InDelta(t, signedSum(l), l.Balance, 1e-9)
	}
	assert.Equal(t, uint64(6), l.NextTxID)
}

func TestFilter(t *testing.T) {
	l, err := AppendBatch(New(), []Entry{
		{Amount: 100, Description: "salary", Category: "job", IsIncome: true, Timestamp: june2024},
		{Amount: 40, Description: "lunch", Category: "food", Timestamp: june2024},
		{Amount: 15, Description: "dinner", Category: "food", Timestamp: july2024},
		{Amount: 30, Description: "bonus", Category: "job", IsIncome: true, Timestamp: july2024},
	})
	require.NoError(t, err)

	t.Run("all preserves insertion order", func(t *testing.T) {
		assert.Equal(t, l.Transactions, l.Filter(shared.TransactionTypeAll, "", ""))
	})

	t.Run("income and expense partition", func(t *testing.T) {
		income := l.Filter(shared.TransactionTypeIncome, "", "")
		expense := l.Filter(shared.TransactionTypeExpense, "", "")
		assert.Len(t, income, 2)
		assert.Len(t, expense, 2)

		seen := map[uint64]bool{}
		for _, tx := range append(income, expense...) {
			assert.False(t, seen[tx.ID], "transaction %d appears twice", tx.ID)
			seen[tx.ID] = true
		}
		assert.Len(t, seen, len(l.Transactions))
	})

	t.Run("category", func(t *testing.T) {
		got := l.Filter(shared.TransactionTypeAll, "food", "")
		require.Len(t, got, 2)
		assert.Equal(t, "lunch", got[0].Description)
		assert.Equal(t, "dinner", got[1].Description)
	})

	t.Run("category is exact match", func(t *testing.T) {
		assert.Empty(t, l.Filter(shared.TransactionTypeAll, "Food", ""))
		assert.Empty(t, l.Filter(shared.TransactionTypeAll, "foo", ""))
	})

	t.Run("month", func(t *testing.T) {
		got := l.Filter(shared.TransactionTypeIncome, "", "2024-07")
		require.Len(t, got, 1)
		assert.Equal(t, "bonus", got[0].Description)
	})

	t.Run("unknown type matches nothing", func(t *testing.T) {
		got := l.Filter(shared.TransactionType("TRANSFER"), "", "")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty ledger", func(t *testing.T) {
		got := New().Filter(shared.TransactionTypeAll, "", "")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSums_NeverNegativeZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	l, err := AppendBatch(New(), []Entry{
		{Amount: negZero, IsIncome: true, Timestamp: june2024},
		{Amount: negZero, Timestamp: june2024},
	})
	require.NoError(t, err)

	for _, v := range []float64{
		l.SumIncome(""),
		l.SumExpense(""),
		l.SumIncome("2024-06"),
		l.SumExpense("1999-01"),
		New().SumIncome(""),
		New().SumExpense(""),
	} {
		assert.Equal(t, 0.0, v)
		assert.False(t, math.Signbit(v))
	}
}

// Analysis reports raw accumulated totals while SumIncome and SumExpense normalize
// negative zero. Both behaviors are kept deliberately.
func TestAnalysis_ReturnsRawTotals(t *testing.T) {
	l := scenarioLedger(t)
	income, expenses := l.Analysis()
	assert.Equal(t, 100.0, income)
	assert.Equal(t, 40.0, expenses)

	income, expenses = New().Analysis()
	assert.Equal(t, 0.0, income)
	assert.Equal(t, 0.0, expenses)
}

func TestBalanceFor(t *testing.T) {
	l, err := AppendBatch(New(), []Entry{
		{Amount: 100, IsIncome: true, Timestamp: june2024},
		{Amount: 40, Timestamp: june2024},
		{Amount: 25, Timestamp: july2024},
	})
	require.NoError(t, err)

	assert.Equal(t, 35.0, l.BalanceFor(""))
	assert.Equal(t, 60.0, l.BalanceFor("2024-06"))
	assert.Equal(t, -25.0, l.BalanceFor("2024-07"))
	assert.Equal(t, 0.0, l.BalanceFor("2023-01"))

	// the unscoped balance is the stored value, not a recomputation
	l.Balance = 1000
	assert.Equal(t, 1000.0, l.BalanceFor(""))
	assert.Equal(t, 60.0, l.BalanceFor("2024-06"))
}

func TestReports(t *testing.T) {
	l, err := AppendBatch(New(), []Entry{
		{Amount: 100, Description: "salary", IsIncome: true, Timestamp: june2024},
		{Amount: 40, Description: "lunch", Timestamp: june2024},
		{Amount: 25, Description: "taxi", Timestamp: july2024},
	})
	require.NoError(t, err)

	assert.Len(t, l.Report(), 3)
	assert.Len(t, l.ReportByMonth("2024-06"), 2)
	assert.Len(t, l.ReportByMonth(""), 3)
	assert.Empty(t, l.ReportByMonth("2025-01"))

	income := l.IncomeReport("")
	require.Len(t, income, 1)
	assert.Equal(t, "salary", income[0].Description)

	assert.Len(t, l.ExpenseReport(""), 2)
	expense := l.ExpenseReport("2024-07")
	require.Len(t, expense, 1)
	assert.Equal(t, "taxi", expense[0].Description)
}

func TestClone(t *testing.T) {
	l := scenarioLedger(t)
	l.Version = 3

	c := l.Clone()
	assert.Equal(t, l, c)

	c.Transactions[0].Description = "changed"
	assert.Equal(t, "salary", l.Transactions[0].Description)
}

func TestAppliedMessage(t *testing.T) {
	assert.Equal(t, "Added 2 transactions successfully", AppliedMessage(2))
}
