package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

var hundred = decimal.NewFromInt(100)

// Share is the part of one kind's total that a category accounts for.
type Share struct {
	Category transaction.Category
	Amount   decimal.Decimal
	Count    int             // transactions of either kind in the category
	Percent  decimal.Decimal // 0..100, two decimal places
}

// Shares ranks the categories of a breakdown by their amount for the given kind,
// largest first. Categories with nothing of that kind are left out.
func Shares(breakdown map[transaction.Category]CategoryTotals, kind transaction.Kind) []Share {
	total := decimal.Zero
	out := make([]Share, 0, len(breakdown))

	// Walk the closed set so equal amounts keep a stable order.
	for _, c := range transaction.Categories() {
		ct, ok := breakdown[c]
		if !ok {
			continue
		}

		amount := ct.Expenses
		if kind == transaction.KindIncome {
			amount = ct.Income
		}

		if !amount.IsPositive() {
			continue
		}

		total = total.Add(amount)
		out = append(out, Share{Category: c, Amount: amount, Count: ct.Count})
	}

	for i := range out {
		out[i].Percent = out[i].Amount.Div(total).Mul(hundred).Round(2)
	}

	slices.SortStableFunc(out, func(a, b Share) int {
		return b.Amount.Cmp(a.Amount)
	})

	return out
}
