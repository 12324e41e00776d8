package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/analytics"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
	txview "github.com/MrJamesThe3rd/saldo/internal/view"
)

const barWidth = 30

// DashboardModel shows the headline numbers of the ledger.
type DashboardModel struct {
	CommonModel
	ledger *ledger.Store
	now    func() time.Time

	windowIdx int
	shareKind transaction.Kind

	summary analytics.Summary
	window  analytics.Totals
	shares  []analytics.Share
	recent  []transaction.Transaction
	err     error
}

func NewDashboardModel(l *ledger.Store, now func() time.Time) DashboardModel {
	m := DashboardModel{
		ledger:    l,
		now:       now,
		windowIdx: 1,
		shareKind: transaction.KindExpense,
	}
	m.recompute()

	return m
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | w: window | k: income/expenses | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		m.recompute()
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "w":
			m.windowIdx = (m.windowIdx + 1) % len(analytics.Windows())
			m.recompute()
		case "k":
			if m.shareKind == transaction.KindExpense {
				m.shareKind = transaction.KindIncome
			} else {
				m.shareKind = transaction.KindExpense
			}

			m.recompute()
		case "r":
			m.recompute()
		}
	}

	return m, nil
}

func (m DashboardModel) currentWindow() analytics.Window {
	return analytics.Windows()[m.windowIdx]
}

func (m *DashboardModel) recompute() {
	snapshot := m.ledger.List()
	ref := transaction.DateOf(m.now())

	summary, err := analytics.Summarize(snapshot)
	if err != nil {
		m.err = err
		return
	}

	windowed, err := analytics.WindowedFilter(snapshot, ref, m.currentWindow())
	if err != nil {
		m.err = err
		return
	}

	window, err := analytics.TotalsByKind(windowed)
	if err != nil {
		m.err = err
		return
	}

	breakdown, err := analytics.CategoryBreakdown(windowed)
	if err != nil {
		m.err = err
		return
	}

	recent, err := txview.Recent(snapshot, txview.RecentCount)
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.summary = summary
	m.window = window
	m.shares = analytics.Shares(breakdown, m.shareKind)
	m.recent = recent
}

func (m DashboardModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	balance := incomeStyle.Render(FormatAmount(m.summary.Balance))
	if m.summary.Balance.IsNegative() {
		balance = expenseStyle.Render(FormatAmount(m.summary.Balance))
	}

	headline := panelStyle.Render(fmt.Sprintf(
		"Balance       %s\nIncome        %s\nExpenses      %s\nSavings rate  %s\nTransactions  %d",
		balance,
		incomeStyle.Render(FormatAmount(m.summary.Totals.Income)),
		expenseStyle.Render(FormatAmount(m.summary.Totals.Expenses)),
		FormatPercent(m.summary.SavingsRate),
		m.summary.Count,
	))

	windowPanel := panelStyle.Render(fmt.Sprintf(
		"[w] Window: %s\n\nIncome    %s\nExpenses  %s\nNet       %s",
		activeStyle(string(m.currentWindow())),
		incomeStyle.Render(FormatAmount(m.window.Income)),
		expenseStyle.Render(FormatAmount(m.window.Expenses)),
		FormatAmount(m.window.Net()),
	))

	top := lipgloss.JoinHorizontal(lipgloss.Top, headline, windowPanel)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, top, m.viewShares(), m.viewRecent()),
	)
}

func (m DashboardModel) viewShares() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[k] %s by category (%s)\n\n", activeStyle(m.shareKind.Label()), m.currentWindow())

	if len(m.shares) == 0 {
		b.WriteString(faintStyle.Render("Nothing in this window."))
	}

	style := expenseStyle
	if m.shareKind == transaction.KindIncome {
		style = incomeStyle
	}

	for _, s := range m.shares {
		fmt.Fprintf(&b, "%-12s %s %6s%%  %s\n",
			s.Category.Label(),
			style.Render(bar(s.Percent)),
			s.Percent.StringFixed(1),
			FormatAmount(s.Amount),
		)
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m DashboardModel) viewRecent() string {
	var b strings.Builder

	b.WriteString("Recent\n\n")

	if len(m.recent) == 0 {
		b.WriteString(faintStyle.Render("No transactions yet."))
	}

	for _, tx := range m.recent {
		fmt.Fprintf(&b, "%s  %-12s %14s  %s\n",
			FormatDate(tx.OccurredOn),
			tx.Category.Label(),
			FormatSigned(tx),
			tx.Description,
		)
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// bar renders a percentage (0..100) as a horizontal bar.
func bar(percent decimal.Decimal) string {
	n := int(percent.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	n = min(max(n, 0), barWidth)

	return strings.Repeat("█", n) + faintStyle.Render(strings.Repeat("░", barWidth-n))
}
