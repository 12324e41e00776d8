package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/saldo/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/saldo/internal/backend"
	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/config"
	"github.com/MrJamesThe3rd/saldo/internal/importer"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	applog "github.com/MrJamesThe3rd/saldo/internal/log"
)

const loadTimeout = 30 * time.Second

type model struct {
	ledger        *ledger.Store
	importService *importer.Service

	currentView View

	dashboardView view.DashboardModel
	listView      view.ListModel
	importView    view.ImportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewList      View = 2
	ViewImport    View = 3
)

func newModel(l *ledger.Store, impSvc *importer.Service) model {
	return model{
		ledger:        l,
		importService: impSvc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(l, time.Now),
		listView:      view.NewListModel(l, time.Now),
		importView:    view.NewImportModel(l, impSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.ledger, time.Now)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.ledger, time.Now)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ledger, m.importService)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.ChangedMsg:
		var newModel tea.Model
		newModel, _ = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
		newModel, _ = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)

		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var body string

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Saldo · %s (%d transactions)\n\n", m.ledger.Owner(), m.ledger.Len()) +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Import Bank Statement\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		body = m.dashboardView.View() + "\n" + m.dashboardView.ShortHelp()
	case ViewList:
		body = m.listView.View() + "\n" + m.listView.ShortHelp()
	case ViewImport:
		body = m.importView.View() + "\n" + m.importView.ShortHelp()
	default:
		return "Unknown View"
	}

	return body
}

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(false); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var out io.Writer = io.Discard

	if cfg.TUI.LogFile != "" {
		f, err := os.OpenFile(cfg.TUI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		out = f
	}

	logCfg := cfg.Logger()
	logCfg.Output = out

	logger, err := applog.New(logCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	store, err := backend.Open(ctx, cfg.Backend(), applog.Component(logger, applog.ComponentBackend))
	if err != nil {
		return fmt.Errorf("opening backend: %w", err)
	}
	defer store.Cleanup()

	l, err := ledger.Load(ctx, cfg.TUI.Owner, store.Ledger,
		ledger.WithPersistTimeout(cfg.Ledger.PersistTimeout),
		ledger.WithLogger(applog.Component(logger, applog.ComponentLedger)),
	)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	impSvc := importer.NewService(categorize.NewService(store.Rules))

	p := tea.NewProgram(newModel(l, impSvc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
