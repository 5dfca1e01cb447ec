// Package sheet reads, reshapes and writes holdings spreadsheets.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const utf8BOM = "\ufeff"

// ErrEmpty is returned when an input has no header row.
var ErrEmpty = errors.New("sheet has no header row")

// Table is a header row plus data rows. Every row is at least as wide as
// the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV parses a comma separated table. Quoted fields may hold commas and
// newlines; short rows are padded to the header width.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return newTable(records)
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	t := &Table{Header: header, Rows: records[1:]}
	for i, row := range t.Rows {
		t.Rows[i] = pad(row, len(header))
	}
	return t, nil
}

func pad(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

// WriteCSV writes the header and rows as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// ReadFile loads a table from a .csv, .txt or .xlsx file.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer func() {
			// Best-effort close of a read-only file.
			_ = f.Close()
		}()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path, "")
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv, .txt or .xlsx)", filepath.Ext(path))
	}
}

// WriteFile writes the table as CSV, replacing path atomically.
func (t *Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".holdsplit-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := t.WriteCSV(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Column returns the position of the first header equal to name.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// AppendColumn adds an empty column and returns its position.
func (t *Table) AppendColumn(name string) int {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(pad(t.Rows[i], len(t.Header)-1), "")
	}
	return len(t.Header) - 1
}

// Subset returns a table holding rows (by position) of t under the same
// header. Row slices are shared.
func (t *Table) Subset(rows []int) *Table {
	out := &Table{Header: append([]string(nil), t.Header...), Rows: make([][]string, 0, len(rows))}
	for _, i := range rows {
		out.Rows = append(out.Rows, t.Rows[i])
	}
	return out
}
