package reviewui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/holdsplit/internal/sheet"
)

func sampleRows() []Row {
	return []Row{
		{Line: 1, Title: "Journal A", Description: "v.1 (1998)", EnumA: "v.1", ChronI: "1998", Pattern: "StdMatch"},
		{Line: 2, Title: "Journal A", Description: "odd text", Pattern: "unmatched"},
		{Line: 3, Title: "Journal B", Description: "v.2 ('95)", EnumA: "v.2", ChronI: "95", Pattern: "StdMatch", Notes: "Err: Problem interpreting Chron I"},
		{Line: 4, Title: "Review C", Description: "v.3 (2001)", EnumA: "v.3", ChronI: "2001", Pattern: "StdMatch"},
	}
}

func lines(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Line
	}
	return out
}

func TestRowsFromTable(t *testing.T) {
	tbl := &sheet.Table{
		Header: []string{sheet.ColBarcode, sheet.ColTitle, sheet.ColDescription, sheet.ColChronI, sheet.ColPattern, sheet.ColNotes},
		Rows: [][]string{
			{"'3901", "Journal", "v.1 (1998)", "1998", "StdMatch", ""},
			{"3902", "Journal"},
		},
	}
	rows := RowsFromTable(tbl)
	require.Len(t, rows, 2)
	require.Equal(t, Row{Line: 1, Barcode: "3901", Title: "Journal", Description: "v.1 (1998)", ChronI: "1998", Pattern: "StdMatch"}, rows[0])
	require.Equal(t, Row{Line: 2, Barcode: "3902", Title: "Journal"}, rows[1])
}

func TestFilter(t *testing.T) {
	rows := sampleRows()
	require.Equal(t, []int{1, 2, 3, 4}, lines(Filter(rows, false, "")))
	require.Equal(t, []int{2, 3}, lines(Filter(rows, true, "")))
	require.Equal(t, []int{1, 2, 3}, lines(Filter(rows, false, "journal")))
	require.Equal(t, []int{3}, lines(Filter(rows, true, "JOURNAL b")))
	require.Equal(t, []int{4}, lines(Filter(rows, false, "2001")))
	require.Empty(t, Filter(rows, true, "review"))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTogglesFlagged(t *testing.T) {
	m := NewModel("s_items.csv", sampleRows())
	m.Update(key("tab"))
	require.Equal(t, []int{2, 3}, lines(m.Visible()))
	m.Update(key("tab"))
	require.Equal(t, []int{1, 2, 3, 4}, lines(m.Visible()))
}

func TestModelFilterInput(t *testing.T) {
	m := NewModel("s_items.csv", sampleRows())
	m.Update(key("/"))
	require.True(t, m.filterMode)
	for _, r := range "review" {
		m.Update(key(string(r)))
	}
	// Typing does not apply the filter until enter.
	require.Len(t, m.Visible(), 4)
	m.Update(key("enter"))
	require.False(t, m.filterMode)
	require.Equal(t, []int{4}, lines(m.Visible()))

	m.Update(key("esc"))
	require.Len(t, m.Visible(), 4)
}

func TestModelFilterCancelKeepsQuery(t *testing.T) {
	m := NewModel("s_items.csv", sampleRows())
	m.Update(key("/"))
	m.Update(key("x"))
	m.Update(key("esc"))
	require.False(t, m.filterMode)
	require.Len(t, m.Visible(), 4)
}

func TestModelView(t *testing.T) {
	m := NewModel("s_items.csv", sampleRows())
	require.Empty(t, m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	require.Contains(t, view, "Flagged")
	require.Contains(t, view, "rows=4/4")
	require.Contains(t, view, "Journal A")

	m.Update(key("tab"))
	require.Contains(t, m.View(), "rows=2/4")
}

func TestModelQuit(t *testing.T) {
	m := NewModel("s_items.csv", nil)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
