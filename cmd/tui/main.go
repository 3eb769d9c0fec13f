package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dealdesk/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/dealdesk/internal/app"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/logger"
)

// The terminal belongs to the UI, so logs go to a file.
const logFile = "dealdesk-tui.log"

type model struct {
	services *app.Services

	currentView View

	estimatesView view.EstimatesModel
	editorView    view.EditorModel
	ordersView    view.OrdersModel
	boardView     view.BoardModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewEstimates View = 1
	ViewEditor    View = 2
	ViewOrders    View = 3
	ViewBoard     View = 4
	ViewImport    View = 5
	ViewExport    View = 6
)

func initialModel(services *app.Services) model {
	return model{
		services:    services,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) openEditor() (tea.Model, tea.Cmd) {
	m.currentView = ViewEditor
	m.editorView = view.NewEditorModel(m.services.Estimates)

	return m, m.editorView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewEstimates
				m.estimatesView = view.NewEstimatesModel(m.services.Estimates)

				return m, m.estimatesView.Init()
			case "2":
				return m.openEditor()
			case "3":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.services.Orders)

				return m, m.ordersView.Init()
			case "4":
				m.currentView = ViewBoard
				m.boardView = view.NewBoardModel(m.services.Pipeline)

				return m, m.boardView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.services.Contacts, m.services.Importer)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.services.Export, m.services.Estimates, m.services.Orders)

				return m, m.exportView.Init()
			}
		}
	case view.NewEstimateMsg:
		return m.openEditor()
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewEstimates:
		var newModel tea.Model
		newModel, cmd = m.estimatesView.Update(msg)
		m.estimatesView = newModel.(view.EstimatesModel)
	case ViewEditor:
		var newModel tea.Model
		newModel, cmd = m.editorView.Update(msg)
		m.editorView = newModel.(view.EditorModel)
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewBoard:
		var newModel tea.Model
		newModel, cmd = m.boardView.Update(msg)
		m.boardView = newModel.(view.BoardModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Dealdesk\n\n" +
				"1. Estimates\n" +
				"2. New Estimate\n" +
				"3. Orders\n" +
				"4. Pipeline\n" +
				"5. Import Contacts\n" +
				"6. Export\n\n" +
				"q. Quit",
		)
	case ViewEstimates:
		return m.estimatesView.View()
	case ViewEditor:
		return m.editorView.View()
	case ViewOrders:
		return m.ordersView.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "path", logFile, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	slog.SetDefault(logger.New(f, cfg.Log.Format, cfg.Log.Level))

	repos, closeRepos, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "store", cfg.App.Store, "error", err)
		os.Exit(1)
	}
	defer closeRepos()

	p := tea.NewProgram(initialModel(app.NewServices(repos)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
