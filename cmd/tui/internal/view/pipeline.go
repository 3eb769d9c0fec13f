package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

const columnWidth = 22

// BoardModel shows the pipeline as one column per stage.
type BoardModel struct {
	CommonModel
	svc *pipeline.Service

	stages []pipeline.Stage
	col    int
	row    int

	loading bool
	err     error
	status  string
}

func NewBoardModel(svc *pipeline.Service) BoardModel {
	return BoardModel{svc: svc, loading: true}
}

func (m BoardModel) Title() string { return "Pipeline" }

func (m BoardModel) ShortHelp() string {
	return "Esc: back | arrows: navigate | [ ]: move card | r: refresh"
}

func (m BoardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBoardMsg:
		m.loading = false
		m.err = msg.err
		m.stages = msg.stages
		m.clampCursor()

		return m, nil

	case cardMovedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error moving card: %v", msg.err)
			return m, m.loadCmd()
		}

		m.col = msg.to

		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "left", "h":
			if m.col > 0 {
				m.col--
			}
		case "right", "l":
			if m.col < len(m.stages)-1 {
				m.col++
			}
		case "up", "k":
			if m.row > 0 {
				m.row--
			}
		case "down", "j":
			m.row++
		case "[":
			return m, m.moveCmd(-1)
		case "]":
			return m, m.moveCmd(1)
		}

		m.clampCursor()
	}

	return m, nil
}

func (m *BoardModel) clampCursor() {
	if len(m.stages) == 0 {
		m.col, m.row = 0, 0
		return
	}

	m.col = min(max(m.col, 0), len(m.stages)-1)
	m.row = min(m.row, len(m.stages[m.col].Cards)-1)
	m.row = max(m.row, 0)
}

func (m BoardModel) selected() (pipeline.Card, bool) {
	if m.col >= len(m.stages) {
		return pipeline.Card{}, false
	}

	cards := m.stages[m.col].Cards
	if m.row >= len(cards) {
		return pipeline.Card{}, false
	}

	return cards[m.row], true
}

func (m BoardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pipeline...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	columns := make([]string, len(m.stages))
	for i, s := range m.stages {
		columns[i] = m.viewColumn(i, s)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if card, ok := m.selected(); ok {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", cardDetail(card))
	}

	if m.status != "" {
		content = errorText(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BoardModel) viewColumn(idx int, s pipeline.Stage) string {
	border := lipgloss.Color("240")
	if idx == m.col {
		border = lipgloss.Color("63")
	}

	title := lipgloss.NewStyle().Bold(true).Render(truncate(s.Name, columnWidth-2))
	lines := []string{title, fmt.Sprintf("%d cards", len(s.Cards)), ""}

	for j, c := range s.Cards {
		line := truncate(c.Customer, columnWidth-2)
		if line == "" {
			line = c.ID
		}

		if idx == m.col && j == m.row {
			line = activeStyle("> " + truncate(line, columnWidth-4))
		}

		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(columnWidth).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(strings.Join(lines, "\n"))
}

func cardDetail(c pipeline.Card) string {
	parts := []string{c.ID}

	if c.Customer != "" {
		parts = append(parts, c.Customer)
	}

	if c.Amount != nil {
		parts = append(parts, FormatMoney(*c.Amount))
	}

	if c.Date != nil {
		parts = append(parts, FormatDate(*c.Date))
	}

	if c.Revisions > 0 {
		parts = append(parts, fmt.Sprintf("%d revisions", c.Revisions))
	}

	return lipgloss.NewStyle().Faint(true).Render(strings.Join(parts, " | "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

// Messages

type loadBoardMsg struct {
	stages []pipeline.Stage
	err    error
}

type cardMovedMsg struct {
	to  int
	err error
}

func (m BoardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stages, err := m.svc.Board(ctx)

		return loadBoardMsg{stages: stages, err: err}
	}
}

func (m BoardModel) moveCmd(delta int) tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}

	to := m.col + delta
	if to < 0 || to >= len(m.stages) {
		return nil
	}

	from := m.stages[m.col].ID
	target := m.stages[to].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.svc.MoveCard(ctx, card.ID, from, target)

		return cardMovedMsg{to: to, err: err}
	}
}
