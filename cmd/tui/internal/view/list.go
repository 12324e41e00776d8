package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
	txview "github.com/MrJamesThe3rd/saldo/internal/view"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateForm
	listStateConfirm
)

var (
	kindFilters = []string{txview.All, string(transaction.KindExpense), string(transaction.KindIncome)}
	sortKeys    = []txview.SortKey{txview.SortByDate, txview.SortByAmount, txview.SortByDescription}
)

type ListModel struct {
	CommonModel
	ledger *ledger.Store
	now    func() time.Time

	state  listState
	table  table.Model
	search textinput.Model
	txs    []transaction.Transaction

	form    *huh.Form
	binding *txForm
	editing *transaction.Transaction
	confirm bool

	kindIdx     int
	categoryIdx int
	sortIdx     int
	dir         txview.Direction

	saving bool
	status string
}

func NewListModel(l *ledger.Store, now func() time.Time) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Kind", Width: 9},
		{Title: "Category", Width: 12},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "search descriptions"
	search.CharLimit = transaction.MaxDescriptionLength

	m := ListModel{
		ledger: l,
		now:    now,
		table:  t,
		search: search,
		dir:    txview.Desc,
	}
	m.refresh()

	return m
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Enter: apply | Esc: clear"
	case listStateForm:
		return "Navigate form | Esc: cancel"
	case listStateConfirm:
		return "Confirm deletion"
	}

	return "Esc: back | a: add | e: edit | x: delete | t: kind | c: category | o: sort | s: direction | /: search"
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listSaveMsg:
		m.saving = false
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.refresh()

		return m, func() tea.Msg { return ChangedMsg{} }

	case ChangedMsg:
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateForm:
		return m.updateForm(msg)
	case listStateConfirm:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterForm(nil)
		case "e":
			if tx, ok := m.selected(); ok {
				return m.enterForm(&tx)
			}

			return m, nil
		case "x":
			return m.enterConfirm()
		case "t":
			m.kindIdx = (m.kindIdx + 1) % len(kindFilters)
			m.refresh()

			return m, nil
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(transaction.Categories()) + 1)
			m.refresh()

			return m, nil
		case "o":
			m.sortIdx = (m.sortIdx + 1) % len(sortKeys)
			m.refresh()

			return m, nil
		case "s":
			if m.currentDir() == txview.Desc {
				m.dir = txview.Asc
			} else {
				m.dir = txview.Desc
			}

			m.refresh()

			return m, nil
		case "/":
			m.state = listStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()

	return m, cmd
}

func (m ListModel) enterForm(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.editing = tx
	m.binding = newTxForm(m.now())
	if tx != nil {
		m.binding = txFormOf(*tx)
	}

	m.form = m.binding.build()
	m.state = listStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveOverlay(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd()
	m = m.leaveOverlay()
	m.saving = true
	m.status = "Saving..."

	return m, save
}

func (m ListModel) enterConfirm() (tea.Model, tea.Cmd) {
	tx, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.editing = &tx
	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", tx.Description)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)
	m.state = listStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveOverlay(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.confirm {
		return m.leaveOverlay(), nil
	}

	del := m.deleteCmd(m.editing.ID)
	m = m.leaveOverlay()
	m.saving = true
	m.status = "Deleting..."

	return m, del
}

func (m ListModel) leaveOverlay() ListModel {
	m.state = listStateBrowse
	m.form = nil
	m.binding = nil
	m.editing = nil
	m.table.Focus()

	return m
}

func (m ListModel) View() string {
	category := txview.All
	if m.categoryIdx > 0 {
		category = transaction.Categories()[m.categoryIdx-1].Label()
	}

	kind := kindFilters[m.kindIdx]
	if k := transaction.Kind(kind); k.Valid() {
		kind = k.Label()
	}

	header := fmt.Sprintf(
		"Filter: [t] Kind: %s | [c] Category: %s | [o] Sort: %s %s | %d shown",
		activeStyle(kind),
		activeStyle(category),
		activeStyle(string(sortKeys[m.sortIdx])),
		activeStyle(string(m.currentDir())),
		len(m.txs),
	)

	if m.state == listStateSearch || m.search.Value() != "" {
		header += "\n" + m.search.View()
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil {
		title := "Add Transaction"
		if m.editing != nil {
			title = "Edit Transaction"
		}

		if m.state == listStateConfirm {
			title = "Delete Transaction"
		}

		panel := panelStyle.Width(48).Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) currentDir() txview.Direction {
	if m.dir == "" {
		return txview.Desc
	}

	return m.dir
}

func (m ListModel) selected() (transaction.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return transaction.Transaction{}, false
	}

	return m.txs[idx], true
}

// refresh recomputes the visible rows from the current snapshot.
func (m *ListModel) refresh() {
	category := txview.All
	if m.categoryIdx > 0 {
		category = string(transaction.Categories()[m.categoryIdx-1])
	}

	p, err := txview.ParsePredicate(kindFilters[m.kindIdx], category, m.search.Value())
	if err != nil {
		m.status = err.Error()
		return
	}

	txs, err := txview.Filter(m.ledger.List(), p)
	if err == nil {
		txs, err = txview.Sort(txs, sortKeys[m.sortIdx], m.currentDir())
	}

	if err != nil {
		m.status = err.Error()
		return
	}

	m.txs = txs

	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, table.Row{
			FormatDate(tx.OccurredOn),
			tx.Kind.Label(),
			tx.Category.Label(),
			FormatSigned(tx),
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	binding := m.binding
	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		if editing == nil {
			c, err := binding.candidate()
			if err != nil {
				return listSaveMsg{err: err}
			}

			_, err = m.ledger.Create(ctx, c)

			return listSaveMsg{err: err}
		}

		p, err := binding.patch(*editing)
		if err != nil {
			return listSaveMsg{err: err}
		}

		if p.IsEmpty() {
			return listSaveMsg{}
		}

		_, err = m.ledger.Update(ctx, editing.ID, p)

		return listSaveMsg{err: err}
	}
}

func (m ListModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		return listSaveMsg{err: m.ledger.Delete(ctx, id)}
	}
}
