package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

type editorState int

const (
	editorStateDetails editorState = iota
	editorStateItems
	editorStateSaving
	editorStateDone
)

// itemFields are the editable line item columns, in display order.
var itemFields = []pricing.Field{
	pricing.FieldDescription,
	pricing.FieldQuantity,
	pricing.FieldCostPrice,
	pricing.FieldMargin,
	pricing.FieldSellingPrice,
}

var itemColumnWidths = []int{26, 6, 11, 9, 11}

// estimateDetails holds the form bindings. It lives behind a pointer so the form keeps
// writing to the same values as the model is copied between updates.
type estimateDetails struct {
	customerName  string
	customerEmail string
	customerPhone string
	identityName  string
	sendAs        estimate.SendAs
	initial       estimate.Status
	taxEnabled    bool
	taxRate       string
	notes         string
}

// EditorModel creates an estimate. Line items are priced live: every keystroke in a price
// column reconciles cost, margin and selling price and recomputes the totals.
type EditorModel struct {
	CommonModel
	svc *estimate.Service

	state   editorState
	form    *huh.Form
	details *estimateDetails

	items []pricing.LineItem
	row   int
	col   int
	input textinput.Model

	saved *estimate.Estimate
	err   error
}

func NewEditorModel(svc *estimate.Service) EditorModel {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 64

	m := EditorModel{
		svc: svc,
		details: &estimateDetails{
			sendAs:     estimate.SendAsCompany,
			initial:    estimate.StatusDraft,
			taxEnabled: true,
			taxRate:    fmt.Sprint(pricing.DefaultTaxRate),
		},
		items: []pricing.LineItem{pricing.NewLineItem()},
		input: in,
	}

	m.form = m.buildDetailsForm()

	return m
}

func (m EditorModel) Title() string { return "New Estimate" }

func (m EditorModel) ShortHelp() string {
	switch m.state {
	case editorStateItems:
		return "Tab/Shift+Tab: field | Up/Down: item | Ctrl+N: add | Ctrl+D: remove | Ctrl+S: save | Esc: details"
	case editorStateDone:
		return "Esc: back"
	}

	return "Enter: next | Esc: back"
}

func (m EditorModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m EditorModel) buildDetailsForm() *huh.Form {
	d := m.details

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Customer").
				Value(&d.customerName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("customer name cannot be empty")
					}

					return nil
				}),
			huh.NewInput().Title("Email").Value(&d.customerEmail),
			huh.NewInput().Title("Phone").Value(&d.customerPhone),
		),
		huh.NewGroup(
			huh.NewSelect[estimate.SendAs]().
				Title("Send as").
				Options(
					huh.NewOption("Company", estimate.SendAsCompany),
					huh.NewOption("Personal", estimate.SendAsPersonal),
				).
				Value(&d.sendAs),
			huh.NewInput().Title("Sender name").Value(&d.identityName),
			huh.NewSelect[estimate.Status]().
				Title("Save as").
				Options(
					huh.NewOption("Draft", estimate.StatusDraft),
					huh.NewOption("Submitted", estimate.StatusSubmitted),
				).
				Value(&d.initial),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Charge tax?").Value(&d.taxEnabled),
			huh.NewInput().
				Title("Tax rate (%)").
				Value(&d.taxRate).
				Validate(func(s string) error {
					if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
						return errors.New("enter a number")
					}

					return nil
				}),
			huh.NewText().Title("Notes").Value(&d.notes),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(estimateSavedMsg); ok {
		m.state = editorStateDone
		m.saved = saved.estimate
		m.err = saved.err

		return m, nil
	}

	switch m.state {
	case editorStateDetails:
		return m.updateDetails(msg)
	case editorStateItems:
		return m.updateItems(msg)
	case editorStateDone:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m EditorModel) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = editorStateItems
	m.focusCell()

	return m, textinput.Blink
}

func (m EditorModel) updateItems(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		m.state = editorStateDetails
		m.form = m.buildDetailsForm()

		return m, m.form.Init()
	case "tab":
		m.col = (m.col + 1) % len(itemFields)
		m.focusCell()

		return m, nil
	case "shift+tab":
		m.col = (m.col + len(itemFields) - 1) % len(itemFields)
		m.focusCell()

		return m, nil
	case "up":
		if m.row > 0 {
			m.row--
			m.focusCell()
		}

		return m, nil
	case "down":
		if m.row < len(m.items)-1 {
			m.row++
			m.focusCell()
		}

		return m, nil
	case "ctrl+n":
		m.items = append(m.items, pricing.NewLineItem())
		m.row = len(m.items) - 1
		m.col = 0
		m.focusCell()

		return m, nil
	case "ctrl+d":
		if len(m.items) > 1 {
			m.items = append(m.items[:m.row:m.row], m.items[m.row+1:]...)
			m.row = min(m.row, len(m.items)-1)
			m.focusCell()
		}

		return m, nil
	case "ctrl+s":
		m.state = editorStateSaving
		return m, m.saveCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.items[m.row] = pricing.Apply(m.items[m.row], itemFields[m.col], m.input.Value())

	return m, cmd
}

// focusCell loads the focused cell's current value into the input.
func (m *EditorModel) focusCell() {
	m.input.SetValue(cellValue(m.items[m.row], itemFields[m.col]))
	m.input.CursorEnd()
	m.input.Focus()
}

func cellValue(item pricing.LineItem, field pricing.Field) string {
	switch field {
	case pricing.FieldDescription:
		return item.Description
	case pricing.FieldQuantity:
		return fmt.Sprint(item.Quantity)
	case pricing.FieldCostPrice:
		return item.CostPrice.String()
	case pricing.FieldMargin:
		return item.Margin.String()
	case pricing.FieldSellingPrice:
		return item.SellingPrice.String()
	}

	return ""
}

func (m EditorModel) totals() pricing.Totals {
	return pricing.ComputeTotals(m.items, pricing.ParseAmount(m.details.taxRate), m.details.taxEnabled)
}

func (m EditorModel) View() string {
	switch m.state {
	case editorStateDetails:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case editorStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving estimate...")
	case editorStateDone:
		return m.viewDone()
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Estimate for %s", activeStyle(m.details.customerName)),
			"",
			m.viewItems(),
			"",
			m.viewTotals(),
		),
	)
}

func (m EditorModel) viewItems() string {
	header := lipgloss.NewStyle().Bold(true)
	focused := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	titles := []string{"Description", "Qty", "Cost", "Margin %", "Price"}
	cells := make([]string, len(titles))

	for i, t := range titles {
		cells[i] = header.Width(itemColumnWidths[i]).Render(t)
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, cells...)}

	for r, item := range m.items {
		for c, f := range itemFields {
			style := lipgloss.NewStyle().Width(itemColumnWidths[c])

			if r == m.row && c == m.col {
				cells[c] = focused.Width(itemColumnWidths[c]).Render(m.input.View())
				continue
			}

			cells[c] = style.Render(displayValue(item, f))
		}

		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(strings.Join(lines, "\n"))
}

func displayValue(item pricing.LineItem, field pricing.Field) string {
	switch field {
	case pricing.FieldCostPrice:
		return FormatMoney(item.CostPrice)
	case pricing.FieldMargin:
		return item.Margin.StringFixed(2)
	case pricing.FieldSellingPrice:
		return FormatMoney(item.SellingPrice)
	}

	return cellValue(item, field)
}

func (m EditorModel) viewTotals() string {
	t := m.totals()

	tax := "Tax: off"
	if m.details.taxEnabled {
		tax = fmt.Sprintf("Tax (%s%%): %s", t.TaxRate.String(), FormatMoney(t.Tax))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Subtotal: %s", FormatMoney(t.Subtotal)),
		tax,
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Total: %s", FormatMoney(t.Total))),
		lipgloss.NewStyle().Faint(true).Render(
			fmt.Sprintf("Cost %s | Profit %s", FormatMoney(t.TotalCost), FormatMoney(t.TotalProfit)),
		),
	)
}

func (m EditorModel) viewDone() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return style.Render(
		okText(fmt.Sprintf("Estimate #%d saved as %s.", m.saved.ID, m.saved.Status)) +
			fmt.Sprintf("\n\nTotal: %s\nShare token: %s\n\n(Esc to go back)",
				FormatMoney(m.saved.Totals.Total), m.saved.ShareToken),
	)
}

// Messages

type estimateSavedMsg struct {
	estimate *estimate.Estimate
	err      error
}

func (m EditorModel) params() estimate.CreateParams {
	items := make([]pricing.LineItem, 0, len(m.items))
	for _, it := range m.items {
		if strings.TrimSpace(it.Description) == "" && it.SellingPrice.IsZero() {
			continue
		}

		items = append(items, it)
	}

	identityType := "company"
	if m.details.sendAs == estimate.SendAsPersonal {
		identityType = "personal"
	}

	return estimate.CreateParams{
		Status:     m.details.initial,
		SendAs:     m.details.sendAs,
		Identity:   estimate.Identity{Type: identityType, Name: strings.TrimSpace(m.details.identityName)},
		Customer:   estimate.Customer{Name: strings.TrimSpace(m.details.customerName), Email: m.details.customerEmail, Phone: m.details.customerPhone},
		Items:      items,
		TaxRate:    pricing.ParseAmount(m.details.taxRate),
		TaxEnabled: m.details.taxEnabled,
		Notes:      m.details.notes,
	}
}

func (m EditorModel) saveCmd() tea.Cmd {
	params := m.params()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.svc.Create(ctx, params)

		return estimateSavedMsg{estimate: e, err: err}
	}
}
