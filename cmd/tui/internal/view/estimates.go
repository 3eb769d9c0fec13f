package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
)

type estimatesState int

const (
	estimatesStateBrowse estimatesState = iota
	estimatesStateStatus
	estimatesStateDelete
)

// NewEstimateMsg asks the root model to open the estimate editor.
type NewEstimateMsg struct{}

type EstimatesModel struct {
	CommonModel
	svc *estimate.Service

	state     estimatesState
	table     table.Model
	all       []*estimate.Estimate
	shown     []*estimate.Estimate
	filterIdx int // 0 is all, otherwise estimate.Statuses[filterIdx-1]
	form      *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings, shared across model copies
	formStatus  *estimate.Status
	formConfirm *bool
}

func NewEstimatesModel(svc *estimate.Service) EstimatesModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 12},
		{Title: "Customer", Width: 28},
		{Title: "Status", Width: 13},
		{Title: "Total", Width: 12},
		{Title: "Rev", Width: 4},
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

	return EstimatesModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m EstimatesModel) Title() string { return "Estimates" }

func (m EstimatesModel) ShortHelp() string {
	if m.state != estimatesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | t: set status | x: delete | s: status filter | r: refresh"
}

func (m EstimatesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m EstimatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEstimatesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.all = msg.estimates
		m.refreshTable()

		return m, nil

	case estimateChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = estimatesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == estimatesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m EstimatesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m, func() tea.Msg { return NewEstimateMsg{} }
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.filterIdx = (m.filterIdx + 1) % (len(estimate.Statuses) + 1)
			m.refreshTable()

			return m, nil
		case "t":
			return m.openStatusForm()
		case "x":
			return m.openDeleteForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EstimatesModel) selected() *estimate.Estimate {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.shown) {
		return nil
	}

	return m.shown[idx]
}

func (m EstimatesModel) openStatusForm() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	options := make([]huh.Option[estimate.Status], len(estimate.Statuses))
	for i, s := range estimate.Statuses {
		options[i] = huh.NewOption(string(s), s)
	}

	m.formStatus = new(e.Status)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[estimate.Status]().
				Title(fmt.Sprintf("Status of estimate #%d", e.ID)).
				Description("Accepting creates or refreshes the order").
				Options(options...).
				Value(m.formStatus),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = estimatesStateStatus
	m.table.Blur()

	return m, m.form.Init()
}

func (m EstimatesModel) openDeleteForm() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	m.formConfirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete estimate #%d for %s?", e.ID, e.Customer.Name)).
				Description("Its order, if any, is kept").
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.formConfirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = estimatesStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m EstimatesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = estimatesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	e := m.selected()
	if e == nil {
		return m, nil
	}

	if m.state == estimatesStateStatus {
		return m, m.setStatusCmd(e.ID, *m.formStatus)
	}

	if !*m.formConfirm {
		m.state = estimatesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd(e.ID)
}

func (m EstimatesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading estimates...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	filter := "All"
	if m.filterIdx > 0 {
		filter = string(estimate.Statuses[m.filterIdx-1])
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | %d estimates", activeStyle(filter), len(m.shown))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != estimatesStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *EstimatesModel) refreshTable() {
	m.shown = nil

	for _, e := range m.all {
		if m.filterIdx > 0 && e.Status != estimate.Statuses[m.filterIdx-1] {
			continue
		}

		m.shown = append(m.shown, e)
	}

	rows := make([]table.Row, 0, len(m.shown))
	for _, e := range m.shown {
		rows = append(rows, table.Row{
			strconv.FormatInt(e.ID, 10),
			FormatDate(e.CreatedAt),
			e.Customer.Name,
			string(e.Status),
			FormatMoney(e.Totals.Total),
			strconv.Itoa(e.Revisions()),
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadEstimatesMsg struct {
	estimates []*estimate.Estimate
	err       error
}

type estimateChangedMsg struct {
	status string
	err    error
}

func (m EstimatesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		estimates, err := m.svc.List(ctx)

		return loadEstimatesMsg{estimates: estimates, err: err}
	}
}

func (m EstimatesModel) setStatusCmd(id int64, status estimate.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.SetStatus(ctx, id, status); err != nil {
			return estimateChangedMsg{err: err}
		}

		return estimateChangedMsg{status: fmt.Sprintf("Estimate #%d is now %s.", id, status)}
	}
}

func (m EstimatesModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Delete(ctx, id); err != nil {
			return estimateChangedMsg{err: err}
		}

		return estimateChangedMsg{status: fmt.Sprintf("Estimate #%d deleted.", id)}
	}
}
