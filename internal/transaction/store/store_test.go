package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

func TestPatchColumns(t *testing.T) {
	type testCase struct {
		name     string
		patch    transaction.Patch
		wantSets []string
		wantArgs []any
	}

	tests := []testCase{
		{
			name: "Empty",
		},
		{
			name:     "AmountInCents",
			patch:    transaction.Patch{Amount: new(decimal.RequireFromString("1300.50"))},
			wantSets: []string{"amount_cents = $1"},
			wantArgs: []any{int64(130050)},
		},
		{
			name:     "DateCastsToDate",
			patch:    transaction.Patch{OccurredOn: new(transaction.Date(2024, 2, 29))},
			wantSets: []string{"occurred_on = $1::date"},
			wantArgs: []any{"2024-02-29"},
		},
		{
			name: "AllFieldsInColumnOrder",
			patch: transaction.Patch{
				Kind:        new(transaction.KindIncome),
				Description: new("Paycheck"),
				Category:    new(transaction.CategorySalary),
				Amount:      new(decimal.RequireFromString("5000")),
				OccurredOn:  new(transaction.Date(2024, 1, 5)),
			},
			wantSets: []string{
				"kind = $1",
				"description = $2",
				"category = $3",
				"amount_cents = $4",
				"occurred_on = $5::date",
			},
			wantArgs: []any{
				transaction.KindIncome,
				"Paycheck",
				transaction.CategorySalary,
				int64(500000),
				"2024-01-05",
			},
		},
		{
			name: "SparseKeepsPlaceholdersDense",
			patch: transaction.Patch{
				Description: new("Rent"),
				OccurredOn:  new(transaction.Date(2024, 1, 1)),
			},
			wantSets: []string{"description = $1", "occurred_on = $2::date"},
			wantArgs: []any{"Rent", "2024-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets, args := patchColumns(tt.patch)

			assert.Equal(t, tt.wantSets, sets)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *int64:
			*p = r.values[i].(int64)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}

	return nil
}

func TestScanTransaction(t *testing.T) {
	id := uuid.New()
	lisbon := time.FixedZone("WEST", 3600)
	created := time.Date(2024, 3, 1, 11, 30, 0, 0, lisbon)

	tx, err := scanTransaction(fakeRow{values: []any{
		id, "user-1", "despesa", "Groceries", "alimentacao", int64(1234),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), created, created,
	}})
	require.NoError(t, err)

	assert.Equal(t, id, tx.ID)
	assert.Equal(t, transaction.KindExpense, tx.Kind)
	assert.Equal(t, transaction.CategoryFood, tx.Category)
	assert.True(t, decimal.RequireFromString("12.34").Equal(tx.Amount))
	assert.Equal(t, transaction.Date(2024, 2, 29), tx.OccurredOn)
	assert.Equal(t, time.UTC, tx.CreatedAt.Location())
	assert.True(t, created.Equal(tx.CreatedAt))

	_, err = scanTransaction(fakeRow{err: errors.New("bad row")})
	assert.ErrorContains(t, err, "bad row")
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestExpectRow(t *testing.T) {
	id := uuid.New()

	assert.NoError(t, expectRow(fakeResult{rows: 1}, id))
	assert.ErrorIs(t, expectRow(fakeResult{}, id), transaction.ErrNotFound)
	assert.ErrorContains(t, expectRow(fakeResult{err: errors.New("driver")}, id), "reading affected rows")
}

func TestPersistUpdate_EmptyPatchSkipsDatabase(t *testing.T) {
	s := New(nil)

	assert.NoError(t, s.PersistUpdate(context.Background(), uuid.New(), transaction.Patch{}))
}
