package sheet

import (
	"path/filepath"
	"strings"
)

// Barcode diagnostics.
const (
	NoteMissingBarcode = "Err: Missing barcode"
	NoteIBarcode       = "Err: i-barcode"
)

// Output file prefixes, one per workflow step.
const (
	PrefixFormat  = "f_"
	PrefixSplit   = "s_"
	PrefixSuccess = "suc_"
	PrefixError   = "err_"
)

var stepPrefixes = []string{PrefixSuccess, PrefixError, PrefixFormat, PrefixSplit}

// Project returns a table holding only the resolved columns, in resolution
// order. Numeric cells are prefixed with an apostrophe.
func Project(t *Table, ix *Index) *Table {
	names := ix.Names()
	out := &Table{Header: names, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		projected := make([]string, len(names))
		for i, name := range names {
			v := ix.Get(row, name)
			if ix.Numeric(name) && !strings.HasPrefix(v, "'") {
				v = "'" + v
			}
			projected[i] = v
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// BarcodeNotes returns the diagnostics for one barcode cell. Formatted
// barcodes carry a leading apostrophe, so an internal "i" barcode has "i"
// as its second character.
func BarcodeNotes(barcode string) []string {
	var notes []string
	if barcode == "" || barcode == "'" {
		notes = append(notes, NoteMissingBarcode)
	}
	if len(barcode) > 2 && barcode[1] == 'i' {
		notes = append(notes, NoteIBarcode)
	}
	return notes
}

// OutputPath names the file a step writes for input. Any earlier step
// prefix is replaced, and workbook input is written as CSV.
func OutputPath(input, prefix string) string {
	dir, base := filepath.Split(input)
	for _, p := range stepPrefixes {
		if strings.HasPrefix(base, p) {
			base = strings.TrimPrefix(base, p)
			break
		}
	}
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".xlsx") {
		base = strings.TrimSuffix(base, ext) + ".csv"
	}
	return filepath.Join(dir, prefix+base)
}
