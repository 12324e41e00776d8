package view_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
	"github.com/MrJamesThe3rd/saldo/internal/view"
)

func tx(kind transaction.Kind, desc string, cat transaction.Category, amount string, date time.Time) transaction.Transaction {
	return transaction.Assign(transaction.Candidate{
		Kind:        kind,
		Description: desc,
		Category:    cat,
		Amount:      decimal.RequireFromString(amount),
		OccurredOn:  date,
		OwnerID:     "user-1",
	}, uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func snapshot() []transaction.Transaction {
	return []transaction.Transaction{
		tx(transaction.KindIncome, "Paycheck", transaction.CategorySalary, "5000.00", transaction.Date(2024, 1, 5)),
		tx(transaction.KindExpense, "Groceries", transaction.CategoryFood, "1200.00", transaction.Date(2024, 1, 10)),
		tx(transaction.KindExpense, "Bus pass", transaction.CategoryTransport, "45.00", transaction.Date(2024, 1, 2)),
		tx(transaction.KindIncome, "Grocery store refund", transaction.CategoryOther, "20.00", transaction.Date(2024, 1, 11)),
		tx(transaction.KindExpense, "cinema", transaction.CategoryLeisure, "45.00", transaction.Date(2024, 1, 10)),
	}
}

func descriptions(s []transaction.Transaction) []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Description
	}

	return out
}

func TestFilter(t *testing.T) {
	type testCase struct {
		name                   string
		kind, category, search string
		want                   []string
	}

	tests := []testCase{
		{
			name:   "ExpenseAndSearch",
			kind:   "despesa",
			search: "groc",
			want:   []string{"Groceries"},
		},
		{
			name: "NoPredicate",
			kind: view.All,
			want: []string{"Paycheck", "Groceries", "Bus pass", "Grocery store refund", "cinema"},
		},
		{
			name:     "Category",
			category: "alimentacao",
			want:     []string{"Groceries"},
		},
		{
			name:   "SearchIsCaseInsensitive",
			search: "CINEMA",
			want:   []string{"cinema"},
		},
		{
			name:   "SearchMatchesCategoryLabel",
			search: "saúde",
			want:   []string{},
		},
		{
			name:   "SearchMatchesCategoryKey",
			search: "lazer",
			want:   []string{"cinema"},
		},
		{
			name:   "SearchMatchesAccentedLabel",
			search: "SALÁRIO",
			want:   []string{"Paycheck"},
		},
		{
			name:     "AllPredicatesAnd",
			kind:     "receita",
			category: "outros",
			search:   "refund",
			want:     []string{"Grocery store refund"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := view.ParsePredicate(tt.kind, tt.category, tt.search)
			require.NoError(t, err)

			got, err := view.Filter(snapshot(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, descriptions(got))
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	s := snapshot()

	kind := transaction.KindExpense
	p := view.Predicate{Kind: &kind, SearchText: "e"}

	once, err := view.Filter(s, p)
	require.NoError(t, err)

	twice, err := view.Filter(once, p)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestParsePredicate_Invalid(t *testing.T) {
	_, err := view.ParsePredicate("transfer", "", "")
	assert.Error(t, err)

	_, err = view.ParsePredicate("", "rent", "")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	type testCase struct {
		name string
		key  view.SortKey
		dir  view.Direction
		want []string
	}

	tests := []testCase{
		{
			name: "DateAsc",
			key:  view.SortByDate,
			dir:  view.Asc,
			want: []string{"Bus pass", "Paycheck", "Groceries", "cinema", "Grocery store refund"},
		},
		{
			name: "DateDescKeepsTiesInInputOrder",
			key:  view.SortByDate,
			dir:  view.Desc,
			want: []string{"Grocery store refund", "Groceries", "cinema", "Paycheck", "Bus pass"},
		},
		{
			name: "AmountAsc",
			key:  view.SortByAmount,
			dir:  view.Asc,
			want: []string{"Grocery store refund", "Bus pass", "cinema", "Groceries", "Paycheck"},
		},
		{
			name: "AmountDesc",
			key:  view.SortByAmount,
			dir:  view.Desc,
			want: []string{"Paycheck", "Groceries", "Bus pass", "cinema", "Grocery store refund"},
		},
		{
			name: "DescriptionIgnoresCase",
			key:  view.SortByDescription,
			dir:  view.Asc,
			want: []string{"Bus pass", "cinema", "Groceries", "Grocery store refund", "Paycheck"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot()
			before := append([]transaction.Transaction(nil), s...)

			got, err := view.Sort(s, tt.key, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, descriptions(got))
			assert.Equal(t, before, s, "input must not be reordered")

			again, err := view.Sort(got, tt.key, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestSort_RejectsMalformedSnapshot(t *testing.T) {
	s := snapshot()
	s[2].Description = ""

	_, err := view.Sort(s, view.SortByDate, view.Asc)
	assert.ErrorIs(t, err, transaction.ErrValidation)

	_, err = view.Filter(s, view.Predicate{})
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	k, err := view.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, view.SortByDate, k)

	d, err := view.ParseDirection("ASC")
	require.NoError(t, err)
	assert.Equal(t, view.Asc, d)

	_, err = view.ParseSortKey("category")
	assert.Error(t, err)
}

func TestRecent(t *testing.T) {
	s := snapshot()

	got, err := view.Recent(s, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grocery store refund", "cinema", "Bus pass"}, descriptions(got))

	got, err = view.Recent(s, view.RecentCount)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
