// Package analytics computes every derived number shown to a user from a ledger
// snapshot. All functions are pure and reject snapshots that break a transaction
// invariant instead of returning a wrong number.
package analytics

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// MalformedSnapshotError reports the first entry of a snapshot that cannot be aggregated.
type MalformedSnapshotError struct {
	Index int
	ID    uuid.UUID
	Err   error
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot at %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *MalformedSnapshotError) Unwrap() error { return e.Err }

// ErrDuplicateID is wrapped by MalformedSnapshotError when an id appears twice.
var ErrDuplicateID = errors.New("duplicate transaction id")

// Check verifies that every entry of s is a valid transaction and that ids are unique.
func Check(s []transaction.Transaction) error {
	seen := make(map[uuid.UUID]struct{}, len(s))

	for i, tx := range s {
		if err := transaction.ValidateTransaction(tx); err != nil {
			return &MalformedSnapshotError{Index: i, ID: tx.ID, Err: err}
		}

		if _, dup := seen[tx.ID]; dup {
			return &MalformedSnapshotError{Index: i, ID: tx.ID, Err: ErrDuplicateID}
		}

		seen[tx.ID] = struct{}{}
	}

	return nil
}

// Totals holds the income and expense magnitudes of a snapshot. Both are non-negative.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expenses)
}

func (t *Totals) add(tx transaction.Transaction) {
	switch tx.Kind {
	case transaction.KindIncome:
		t.Income = t.Income.Add(tx.Amount)
	case transaction.KindExpense:
		t.Expenses = t.Expenses.Add(tx.Amount)
	}
}

// CategoryTotals is one entry of a category breakdown.
type CategoryTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Count    int
}

func (c CategoryTotals) Net() decimal.Decimal {
	return c.Income.Sub(c.Expenses)
}

// RunningBalance sums income as positive and expenses as negative.
func RunningBalance(s []transaction.Transaction) (decimal.Decimal, error) {
	if err := Check(s); err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, tx := range s {
		balance = balance.Add(tx.Signed())
	}

	return balance, nil
}

func TotalsByKind(s []transaction.Transaction) (Totals, error) {
	if err := Check(s); err != nil {
		return Totals{}, err
	}

	return totals(s), nil
}

func totals(s []transaction.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range s {
		t.add(tx)
	}

	return t
}

// CategoryBreakdown groups a snapshot by category. Categories without
// transactions are absent from the result.
func CategoryBreakdown(s []transaction.Transaction) (map[transaction.Category]CategoryTotals, error) {
	if err := Check(s); err != nil {
		return nil, err
	}

	out := make(map[transaction.Category]CategoryTotals)

	for _, tx := range s {
		ct, ok := out[tx.Category]
		if !ok {
			ct = CategoryTotals{Income: decimal.Zero, Expenses: decimal.Zero}
		}

		switch tx.Kind {
		case transaction.KindIncome:
			ct.Income = ct.Income.Add(tx.Amount)
		case transaction.KindExpense:
			ct.Expenses = ct.Expenses.Add(tx.Amount)
		}

		ct.Count++
		out[tx.Category] = ct
	}

	return out, nil
}

// SavingsRate returns (income - expenses) / income, or exactly zero when there is no income.
func SavingsRate(s []transaction.Transaction) (decimal.Decimal, error) {
	if err := Check(s); err != nil {
		return decimal.Zero, err
	}

	return savingsRate(totals(s)), nil
}

func savingsRate(t Totals) decimal.Decimal {
	if t.Income.IsZero() {
		return decimal.Zero
	}

	return t.Net().Div(t.Income)
}

// Summary is the set of headline numbers for a snapshot.
type Summary struct {
	Balance     decimal.Decimal
	Totals      Totals
	SavingsRate decimal.Decimal
	Count       int
}

func Summarize(s []transaction.Transaction) (Summary, error) {
	if err := Check(s); err != nil {
		return Summary{}, err
	}

	t := totals(s)

	return Summary{
		Balance:     t.Net(),
		Totals:      t,
		SavingsRate: savingsRate(t),
		Count:       len(s),
	}, nil
}
