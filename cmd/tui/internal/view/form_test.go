package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "Dot", input: "12.50", want: "12.5"},
		{name: "Comma", input: " 1300,75 ", want: "1300.75"},
		{name: "Empty", input: "  ", wantErr: true},
		{name: "NotANumber", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestTxForm_Candidate(t *testing.T) {
	f := newTxForm(transaction.Date(2024, 1, 31))
	f.description = "Groceries"
	f.amount = "45,20"

	c, err := f.candidate()
	require.NoError(t, err)

	assert.Equal(t, transaction.KindExpense, c.Kind)
	assert.Equal(t, transaction.CategoryOther, c.Category)
	assert.Equal(t, "Groceries", c.Description)
	assert.True(t, decimal.RequireFromString("45.20").Equal(c.Amount))
	assert.Equal(t, transaction.Date(2024, 1, 31), c.OccurredOn)

	f.date = "31/01/2024"
	_, err = f.candidate()
	assert.Error(t, err)
}

func TestTxForm_Patch(t *testing.T) {
	tx := transaction.Transaction{
		Kind:        transaction.KindExpense,
		Description: "Rent",
		Category:    transaction.CategoryOther,
		Amount:      decimal.RequireFromString("1300.00"),
		OccurredOn:  transaction.Date(2024, 1, 1),
	}

	f := txFormOf(tx)

	p, err := f.patch(tx)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	f.category = string(transaction.CategoryLeisure)
	f.amount = "1350"

	p, err = f.patch(tx)
	require.NoError(t, err)

	require.NotNil(t, p.Category)
	assert.Equal(t, transaction.CategoryLeisure, *p.Category)
	require.NotNil(t, p.Amount)
	assert.True(t, decimal.RequireFromString("1350").Equal(*p.Amount))
	assert.Nil(t, p.Kind)
	assert.Nil(t, p.Description)
	assert.Nil(t, p.OccurredOn)
}
