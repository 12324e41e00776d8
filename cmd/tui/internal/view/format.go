package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

const persistTimeout = 10 * time.Second

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// FormatAmount renders an amount with two decimals and the euro sign.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}

// FormatSigned colours an amount by the kind it belongs to.
func FormatSigned(tx transaction.Transaction) string {
	if tx.Kind == transaction.KindExpense {
		return expenseStyle.Render("-" + FormatAmount(tx.Amount))
	}

	return incomeStyle.Render("+" + FormatAmount(tx.Amount))
}

func FormatDate(t time.Time) string {
	return transaction.FormatDate(t)
}

// FormatPercent renders a ratio such as 0.76 as "76.0%".
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// opCtx returns a context for a ledger mutation issued from the UI.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), persistTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
