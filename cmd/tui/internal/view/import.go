package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/saldo/internal/importer"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBankSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	ledger        *ledger.Store
	importService *importer.Service

	state        importState
	filePicker   filepicker.Model
	selectedBank importer.Bank
	bankOptions  []importer.Bank
	bankCursor   int

	rejected list.Model

	status string
	err    error
}

func NewImportModel(l *ledger.Store, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledger:        l,
		importService: impSvc,
		filePicker:    fp,
		bankOptions:   []importer.Bank{importer.BankCGD},
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back | ↑/↓: browse rejected rows"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateBankSelect:
			return m.updateBankSelect(msg)
		case importStateResult:
			if len(m.rejected.Items()) == 0 {
				return m, nil
			}

			var cmd tea.Cmd
			m.rejected, cmd = m.rejected.Update(msg)

			return m, cmd
		}

	case importResultMsg:
		m.state = importStateResult
		m.rejected = list.Model{}
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions, %d rejected.", len(msg.result.Created), len(msg.result.Rejected))

		items := make([]list.Item, len(msg.result.Rejected))
		for i, r := range msg.result.Rejected {
			items[i] = rejectedItem{r}
		}

		m.rejected = list.New(items, rejectedDelegate{}, 80, 15)
		m.rejected.Title = "Rejected rows"
		m.rejected.SetShowStatusBar(false)
		m.rejected.SetFilteringEnabled(false)
		m.rejected.SetShowHelp(false)

		return m, func() tea.Msg { return ChangedMsg{} }
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateBankSelect
		return m, nil
	case importStateResult:
		m.state = importStateBankSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateBankSelect:
		return m.viewBankSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.selectedBank, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewBankSelect() string {
	s := "Select Bank:\n\n"

	for i, bank := range m.bankOptions {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(bank))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	out := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status)
	if len(m.rejected.Items()) > 0 {
		out += "\n\n" + m.rejected.View()
	}

	return style.Render(out + "\n\n(Esc to go back)")
}

type importResultMsg struct {
	result importer.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	bank := m.selectedBank

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, m.ledger.Owner(), bank, f, m.ledger)

		return importResultMsg{result: result, err: err}
	}
}

type rejectedItem struct {
	importer.Rejected
}

func (i rejectedItem) FilterValue() string { return i.Candidate.Description }

type rejectedDelegate struct{}

func (d rejectedDelegate) Height() int                             { return 2 }
func (d rejectedDelegate) Spacing() int                            { return 0 }
func (d rejectedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rejectedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rejectedItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	line1 := fmt.Sprintf("%srow %d  %s  %s  %s",
		cursor,
		item.Row,
		FormatDate(item.Candidate.OccurredOn),
		FormatAmount(item.Candidate.Amount),
		item.Candidate.Description,
	)
	line2 := "    " + expenseStyle.Render(item.Err.Error())

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}
