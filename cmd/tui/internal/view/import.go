package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateKindSelect importState = iota
	importStateFilePick
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	contacts *contact.Service
	importer *importer.Service

	state      importState
	kinds      list.Model
	kind       importer.Kind
	filePicker filepicker.Model

	path      string
	customers []contact.Customer
	vendors   []contact.Vendor

	status string
	err    error
}

type kindItem importer.Kind

func (k kindItem) Title() string { return string(k) }

func (k kindItem) Description() string {
	if importer.Kind(k) == importer.KindVendors {
		return "Name, contact, phone, email, rating and notes"
	}

	return "Name, email and phone"
}

func (k kindItem) FilterValue() string { return string(k) }

func NewImportModel(contacts *contact.Service, imp *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	kinds := list.New(
		[]list.Item{kindItem(importer.KindCustomers), kindItem(importer.KindVendors)},
		list.NewDefaultDelegate(), 50, 10,
	)
	kinds.Title = "Import contacts"
	kinds.SetShowStatusBar(false)
	kinds.SetFilteringEnabled(false)
	kinds.SetShowHelp(false)

	return ImportModel{
		contacts:   contacts,
		importer:   imp,
		kinds:      kinds,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Contacts" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateKindSelect:
			if msg.Type == tea.KeyEnter {
				if item, ok := m.kinds.SelectedItem().(kindItem); ok {
					m.kind = importer.Kind(item)
					m.state = importStateFilePick

					return m, m.filePicker.Init()
				}
			}

			var cmd tea.Cmd
			m.kinds, cmd = m.kinds.Update(msg)

			return m, cmd

		case importStatePreview:
			if msg.Type == tea.KeyEnter {
				m.status = "Importing..."
				return m, m.saveCmd()
			}

			return m, nil
		}

	case parsedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.customers = msg.customers
		m.vendors = msg.vendors
		m.state = importStatePreview

		return m, nil

	case importDoneMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Imported %d before failing: %v", msg.count, msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d %s.", msg.count, m.kind)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStatePreview:
		m.state = importStateKindSelect
		m.err = nil
		m.status = ""
		m.customers = nil
		m.vendors = nil

		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateKindSelect:
		return lipgloss.NewStyle().Padding(1).Render(m.kinds.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select %s file:\n\n%s", m.kind, m.filePicker.View()),
		)
	case importStatePreview:
		return m.viewPreview()
	case importStateResult:
		text := okText(m.status)
		if m.err != nil {
			text = errorText(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(text + "\n\n(Esc to go back)")
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	const maxRows = 10

	s := fmt.Sprintf("%s\n\n", m.path)

	switch m.kind {
	case importer.KindVendors:
		s += fmt.Sprintf("%d vendors found\n\n", len(m.vendors))
		for i, v := range m.vendors {
			if i == maxRows {
				s += fmt.Sprintf("... and %d more\n", len(m.vendors)-maxRows)
				break
			}

			s += fmt.Sprintf("  %-28s %-18s %s\n", v.Name, v.Phone, v.Email)
		}
	default:
		s += fmt.Sprintf("%d customers found\n\n", len(m.customers))
		for i, c := range m.customers {
			if i == maxRows {
				s += fmt.Sprintf("... and %d more\n", len(m.customers)-maxRows)
				break
			}

			s += fmt.Sprintf("  %-28s %-18s %s\n", c.Name, c.Phone, c.Email)
		}
	}

	if m.status != "" {
		s += "\n" + activeStyle(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(s)
}

// Messages

type parsedMsg struct {
	customers []contact.Customer
	vendors   []contact.Vendor
	err       error
}

type importDoneMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	kind := m.kind

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		if kind == importer.KindVendors {
			vendors, err := m.importer.ParseVendors(f)
			return parsedMsg{vendors: vendors, err: err}
		}

		customers, err := m.importer.ParseCustomers(f)

		return parsedMsg{customers: customers, err: err}
	}
}

func (m ImportModel) saveCmd() tea.Cmd {
	customers := m.customers
	vendors := m.vendors

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		count := 0

		for i := range customers {
			if err := m.contacts.CreateCustomer(ctx, &customers[i]); err != nil {
				return importDoneMsg{count: count, err: err}
			}

			count++
		}

		for i := range vendors {
			if err := m.contacts.CreateVendor(ctx, &vendors[i]); err != nil {
				return importDoneMsg{count: count, err: err}
			}

			count++
		}

		return importDoneMsg{count: count}
	}
}
