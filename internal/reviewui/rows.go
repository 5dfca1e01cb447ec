package reviewui

import (
	"strings"

	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/sheet"
)

// Row is one split output line as shown in the review table.
type Row struct {
	Line        int
	Title       string
	Barcode     string
	Description string
	EnumA       string
	EnumB       string
	ChronI      string
	ChronJ      string
	Pattern     string
	Notes       string
}

// Flagged reports whether the row needs a look before updating.
func (r Row) Flagged() bool {
	return model.Flagged(r.Notes, r.Pattern)
}

func (r Row) enum() string {
	return strings.TrimSpace(r.EnumA + " " + r.EnumB)
}

func (r Row) chron() string {
	return strings.TrimSpace(r.ChronI + " " + r.ChronJ)
}

func (r Row) matches(query string) bool {
	for _, field := range []string{r.Title, r.Barcode, r.Description, r.enum(), r.chron(), r.Pattern, r.Notes} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// RowsFromTable reads review rows from a split output table. Missing columns
// read as empty.
func RowsFromTable(t *sheet.Table) []Row {
	get := func(row []string, name string) string {
		pos, ok := t.Column(name)
		if !ok || pos >= len(row) {
			return ""
		}
		return strings.TrimPrefix(row[pos], "'")
	}
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = Row{
			Line:        i + 1,
			Title:       get(r, sheet.ColTitle),
			Barcode:     get(r, sheet.ColBarcode),
			Description: get(r, sheet.ColDescription),
			EnumA:       get(r, sheet.ColEnumA),
			EnumB:       get(r, sheet.ColEnumB),
			ChronI:      get(r, sheet.ColChronI),
			ChronJ:      get(r, sheet.ColChronJ),
			Pattern:     get(r, sheet.ColPattern),
			Notes:       get(r, sheet.ColNotes),
		}
	}
	return rows
}

// Filter returns the rows to show. An empty query keeps every row; otherwise
// a case-insensitive substring must appear in one of the visible fields.
func Filter(rows []Row, flaggedOnly bool, query string) []Row {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if flaggedOnly && !r.Flagged() {
			continue
		}
		if query != "" && !r.matches(query) {
			continue
		}
		out = append(out, r)
	}
	return out
}
