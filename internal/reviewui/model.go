// Package reviewui provides the Bubble Tea browser for split output.
package reviewui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	tabAll = iota
	tabFlagged
)

const detailHeight = 7

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	detailStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the review UI.
type Model struct {
	path string
	rows []Row

	tabs      []string
	activeTab int
	query     string
	visible   []Row

	table  table.Model
	detail viewport.Model

	filterMode  bool
	filterInput textinput.Model

	width  int
	height int
}

// NewModel constructs a review model over rows read from path.
func NewModel(path string, rows []Row) *Model {
	m := &Model{
		path: path,
		rows: rows,
		tabs: []string{"All", "Flagged"},
	}
	m.filterInput = newFilterInput("Filter: ")
	m.detail = viewport.New(0, 0)
	m.table = table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

// Visible returns the rows currently shown.
func (m *Model) Visible() []Row {
	return append([]Row(nil), m.visible...)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			m.refresh()
			return m, nil
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.query)
			m.filterInput.CursorEnd()
			return m, m.filterInput.Focus()
		case "esc":
			if m.query != "" {
				m.query = ""
				m.refresh()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		m.renderDetail()
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		m.query = strings.TrimSpace(m.filterInput.Value())
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, tableHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.table.View(), m.width, tableHeight)
	detail := detailStyle.Width(maxInt(1, m.width-2)).Render(m.detail.View())
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, detail, footer}, "\n")
}

func (m *Model) refresh() {
	m.visible = Filter(m.rows, m.activeTab == tabFlagged, m.query)
	tableRows := make([]table.Row, len(m.visible))
	for i, r := range m.visible {
		tableRows[i] = table.Row{r.Title, r.Description, r.enum(), r.chron(), r.Pattern, r.Notes}
	}
	m.table.SetRows(tableRows)
	if m.table.Cursor() >= len(tableRows) || m.table.Cursor() < 0 {
		m.table.SetCursor(0)
	}
	m.renderDetail()
}

func (m *Model) selected() (Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return Row{}, false
	}
	return m.visible[i], true
}

func (m *Model) renderDetail() {
	r, ok := m.selected()
	if !ok {
		m.detail.SetContent(headerStyle.Render("No rows"))
		return
	}
	lines := []string{
		detailLine("Row", fmt.Sprintf("%d  barcode %s", r.Line, r.Barcode)),
		detailLine("Title", r.Title),
		detailLine("Description", r.Description),
		detailLine("Enum", fmt.Sprintf("A=%q B=%q", r.EnumA, r.EnumB)),
		detailLine("Chron", fmt.Sprintf("I=%q J=%q", r.ChronI, r.ChronJ)),
	}
	notes := detailLine("Notes", r.Notes)
	if r.Flagged() {
		notes = labelStyle.Render(fmt.Sprintf("%-12s", "Notes")) + errorStyle.Render(r.Notes+" "+r.Pattern)
	}
	lines = append(lines, notes)
	m.detail.SetContent(strings.Join(lines, "\n"))
}

func detailLine(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + value
}

func (m *Model) layoutHeights() (headerHeight, tableHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	tableHeight = m.height - headerHeight - footerHeight - detailHeight - 2
	if tableHeight < 2 {
		tableHeight = 2
	}
	return headerHeight, tableHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, tableHeight, _ := m.layoutHeights()
	m.table.SetColumns(tableColumns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(tableHeight)
	m.detail.Width = maxInt(1, m.width-4)
	m.detail.Height = detailHeight
	m.filterInput.Width = maxInt(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
	m.renderDetail()
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	query := m.query
	if query == "" {
		query = "none"
	}
	summary := fmt.Sprintf("%s  rows=%d/%d  filter=%s", m.path, len(m.visible), len(m.rows), query)
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	return headerStyle.Render("Scroll: up/down  All/Flagged: tab  Filter: /  Clear: esc  Quit: q")
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// tableColumns splits width between the columns. Title, Description and
// Notes share what the fixed columns leave.
func tableColumns(width int) []table.Column {
	const enumW, chronW, patternW = 14, 14, 16
	rest := maxInt(30, width-enumW-chronW-patternW-12)
	titleW := rest * 3 / 10
	descW := rest * 4 / 10
	notesW := rest - titleW - descW
	return []table.Column{
		{Title: "Title", Width: titleW},
		{Title: "Description", Width: descW},
		{Title: "Enum", Width: enumW},
		{Title: "Chron", Width: chronW},
		{Title: "Pattern", Width: patternW},
		{Title: "Notes", Width: notesW},
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#5A4A2A")).
		Bold(false)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
