package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/saldo/internal/analytics"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

var created = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func tx(kind transaction.Kind, cat transaction.Category, amount string, date time.Time) transaction.Transaction {
	return transaction.Assign(transaction.Candidate{
		Kind:        kind,
		Description: string(cat),
		Category:    cat,
		Amount:      decimal.RequireFromString(amount),
		OccurredOn:  date,
		OwnerID:     "user-1",
	}, uuid.New(), created)
}

func sample() []transaction.Transaction {
	return []transaction.Transaction{
		tx(transaction.KindIncome, transaction.CategorySalary, "5000.00", transaction.Date(2024, 1, 5)),
		tx(transaction.KindExpense, transaction.CategoryFood, "1200.00", transaction.Date(2024, 1, 10)),
		tx(transaction.KindExpense, transaction.CategoryTransport, "300.50", transaction.Date(2024, 1, 2)),
		tx(transaction.KindExpense, transaction.CategoryFood, "99.99", transaction.Date(2023, 12, 20)),
		tx(transaction.KindIncome, transaction.CategoryOther, "250.00", transaction.Date(2023, 6, 1)),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRunningBalance_Scenarios(t *testing.T) {
	s := sample()

	b, err := analytics.RunningBalance(s[:1])
	require.NoError(t, err)
	assert.True(t, dec("5000.00").Equal(b))

	b, err = analytics.RunningBalance(s[:2])
	require.NoError(t, err)
	assert.True(t, dec("3800.00").Equal(b))

	b, err = analytics.RunningBalance(nil)
	require.NoError(t, err)
	assert.True(t, b.IsZero())
}

func TestBalanceConsistency(t *testing.T) {
	s := sample()

	b, err := analytics.RunningBalance(s)
	require.NoError(t, err)

	totals, err := analytics.TotalsByKind(s)
	require.NoError(t, err)

	assert.True(t, totals.Income.Sub(totals.Expenses).Equal(b))
	assert.True(t, dec("5250.00").Equal(totals.Income))
	assert.True(t, dec("1600.49").Equal(totals.Expenses))
}

func TestCategoryBreakdown(t *testing.T) {
	s := sample()

	breakdown, err := analytics.CategoryBreakdown(s)
	require.NoError(t, err)

	assert.Len(t, breakdown, 4)
	assert.NotContains(t, breakdown, transaction.CategoryHealth)

	food := breakdown[transaction.CategoryFood]
	assert.True(t, food.Income.IsZero())
	assert.True(t, dec("1299.99").Equal(food.Expenses))
	assert.Equal(t, 2, food.Count)
	assert.True(t, dec("-1299.99").Equal(food.Net()))

	totals, err := analytics.TotalsByKind(s)
	require.NoError(t, err)

	income, expenses := decimal.Zero, decimal.Zero
	for _, ct := range breakdown {
		income = income.Add(ct.Income)
		expenses = expenses.Add(ct.Expenses)
	}

	assert.True(t, totals.Income.Equal(income))
	assert.True(t, totals.Expenses.Equal(expenses))
}

func TestSavingsRate(t *testing.T) {
	type testCase struct {
		name     string
		snapshot []transaction.Transaction
		want     string
	}

	tests := []testCase{
		{
			name: "Empty",
			want: "0",
		},
		{
			name: "ExpensesOnly",
			snapshot: []transaction.Transaction{
				tx(transaction.KindExpense, transaction.CategoryFood, "10.00", transaction.Date(2024, 1, 1)),
			},
			want: "0",
		},
		{
			name:     "IncomeAndExpenses",
			snapshot: sample()[:2],
			want:     "0.76",
		},
		{
			name: "Overspent",
			snapshot: []transaction.Transaction{
				tx(transaction.KindIncome, transaction.CategorySalary, "100.00", transaction.Date(2024, 1, 1)),
				tx(transaction.KindExpense, transaction.CategoryLeisure, "150.00", transaction.Date(2024, 1, 1)),
			},
			want: "-0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analytics.SavingsRate(tt.snapshot)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestMalformedSnapshotIsRejected(t *testing.T) {
	s := sample()

	broken := s[1]
	broken.Amount = dec("-1")

	_, err := analytics.RunningBalance([]transaction.Transaction{s[0], broken})

	var merr *analytics.MalformedSnapshotError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 1, merr.Index)
	assert.ErrorIs(t, err, transaction.ErrValidation)

	_, err = analytics.TotalsByKind([]transaction.Transaction{s[0], s[0]})
	assert.ErrorIs(t, err, analytics.ErrDuplicateID)

	_, err = analytics.Summarize([]transaction.Transaction{broken})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	got, err := analytics.Summarize(sample()[:2])
	require.NoError(t, err)

	assert.Equal(t, 2, got.Count)
	assert.True(t, dec("3800.00").Equal(got.Balance))
	assert.True(t, dec("0.76").Equal(got.SavingsRate))
}

func TestShares(t *testing.T) {
	breakdown, err := analytics.CategoryBreakdown(sample())
	require.NoError(t, err)

	got := analytics.Shares(breakdown, transaction.KindExpense)
	require.Len(t, got, 2)

	assert.Equal(t, transaction.CategoryFood, got[0].Category)
	assert.True(t, dec("81.22").Equal(got[0].Percent), "got %s", got[0].Percent)
	assert.Equal(t, transaction.CategoryTransport, got[1].Category)
	assert.True(t, dec("18.78").Equal(got[1].Percent), "got %s", got[1].Percent)

	assert.Empty(t, analytics.Shares(nil, transaction.KindIncome))
}
