package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateEdit
)

// progressForm holds the update form bindings.
type progressForm struct {
	status          order.Status
	subStatus       string
	progress        string
	paymentStatus   order.PaymentStatus
	paymentReceived string
}

type OrdersModel struct {
	CommonModel
	svc *order.Service

	state   ordersState
	table   table.Model
	orders  []*order.Order
	summary *order.Summary
	form    *huh.Form
	binding *progressForm

	loading bool
	err     error
	status  string
}

func NewOrdersModel(svc *order.Service) OrdersModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Customer", Width: 24},
		{Title: "Status", Width: 11},
		{Title: "Stage", Width: 14},
		{Title: "%", Width: 4},
		{Title: "Payment", Width: 8},
		{Title: "Amount", Width: 11},
		{Title: "Due", Width: 11},
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

	return OrdersModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m OrdersModel) Title() string { return "Orders" }

func (m OrdersModel) ShortHelp() string {
	if m.state == ordersStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | u: update progress | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOrdersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.orders = msg.orders
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case orderSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.state == ordersStateEdit {
		return m.updateEdit(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "u":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OrdersModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return m, nil
	}

	o := m.orders[idx]
	m.binding = &progressForm{
		status:          o.Status,
		subStatus:       o.SubStatus,
		progress:        strconv.Itoa(o.Progress),
		paymentStatus:   o.PaymentStatus,
		paymentReceived: o.PaymentReceived.String(),
	}

	statuses := make([]huh.Option[order.Status], len(order.Statuses))
	for i, s := range order.Statuses {
		statuses[i] = huh.NewOption(string(s), s)
	}

	payments := make([]huh.Option[order.PaymentStatus], len(order.PaymentStatuses))
	for i, p := range order.PaymentStatuses {
		payments[i] = huh.NewOption(string(p), p)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[order.Status]().Title("Status").Options(statuses...).Value(&m.binding.status),
			huh.NewInput().Title("Stage note").Value(&m.binding.subStatus),
			huh.NewInput().
				Title("Progress (%)").
				Value(&m.binding.progress).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 || n > 100 {
						return errors.New("enter a number from 0 to 100")
					}

					return nil
				}),
			huh.NewSelect[order.PaymentStatus]().Title("Payment").Options(payments...).Value(&m.binding.paymentStatus),
			huh.NewInput().
				Title("Received").
				Value(&m.binding.paymentReceived).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return errors.New("enter an amount")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m OrdersModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ordersStateBrowse
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

	return m, m.saveCmd()
}

func (m OrdersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	header := ""
	if m.summary != nil {
		header = fmt.Sprintf("%d orders | Value %s | Received %s | Outstanding %s",
			m.summary.Orders,
			FormatMoney(m.summary.OrderValue),
			FormatMoney(m.summary.Received),
			activeStyle(FormatMoney(m.summary.Outstanding)),
		)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == ordersStateEdit && m.form != nil {
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

func (m *OrdersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.orders))
	for _, o := range m.orders {
		rows = append(rows, table.Row{
			strconv.FormatInt(o.ID, 10),
			o.Customer,
			string(o.Status),
			o.SubStatus,
			strconv.Itoa(o.Progress),
			string(o.PaymentStatus),
			FormatMoney(o.Amount),
			FormatMoney(o.Outstanding()),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadOrdersMsg struct {
	orders  []*order.Order
	summary *order.Summary
	err     error
}

type orderSavedMsg struct {
	err error
}

func (m OrdersModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		orders, err := m.svc.List(ctx)
		if err != nil {
			return loadOrdersMsg{err: err}
		}

		summary, err := m.svc.FinanceSummary(ctx)

		return loadOrdersMsg{orders: orders, summary: summary, err: err}
	}
}

func (m OrdersModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return nil
	}

	id := m.orders[idx].ID
	b := *m.binding

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		progress, _ := strconv.Atoi(strings.TrimSpace(b.progress))
		received := parseReceived(b.paymentReceived)

		_, err := m.svc.UpdateProgress(ctx, id, order.ProgressParams{
			Status:          &b.status,
			SubStatus:       &b.subStatus,
			Progress:        &progress,
			PaymentStatus:   &b.paymentStatus,
			PaymentReceived: &received,
		})

		return orderSavedMsg{err: err}
	}
}

func parseReceived(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	return d
}
