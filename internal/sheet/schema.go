package sheet

import "fmt"

// Column headers the workflow relies on.
const (
	ColMMSID        = "MMS ID"
	ColBarcode      = "Barcode"
	ColTitle        = "title"
	ColMaterialType = "Material Type"
	ColItemPolicy   = "Item Policy"
	ColDescription  = "Description"
	ColEnumA        = "Enum A"
	ColEnumB        = "Enum B"
	ColChronI       = "Chron I"
	ColChronJ       = "Chron J"
	ColPattern      = "Pattern"
	ColNotes        = "Notes"
)

// Column describes how one header is treated.
type Column struct {
	Name string
	// Numeric cells get a leading apostrophe when formatted so spreadsheet
	// tools keep long identifiers intact.
	Numeric bool
	// Derived columns are computed, never prompted for.
	Derived    bool
	Default    string
	HasDefault bool
}

// Schema groups columns by how their absence is handled.
//
// Mandatory columns must be present. Optional columns are used when
// present. Add columns are created empty when missing.
type Schema struct {
	Mandatory []Column
	Optional  []Column
	Add       []Column
}

// DefaultSchema returns the columns used by the bound issue workflow.
func DefaultSchema() Schema {
	return Schema{
		Mandatory: []Column{
			{Name: ColMMSID, Numeric: true},
			{Name: ColBarcode, Numeric: true},
			{Name: ColTitle},
		},
		Add: []Column{
			{Name: ColMaterialType, Default: "Bound Issue", HasDefault: true},
			{Name: ColItemPolicy, Default: "non-circulating", HasDefault: true},
			{Name: ColDescription, Derived: true},
		},
	}
}

// WithDefault returns a copy of s whose optional or add column name uses
// value as its default. Unknown names leave s unchanged.
func (s Schema) WithDefault(name, value string) Schema {
	out := Schema{
		Mandatory: append([]Column(nil), s.Mandatory...),
		Optional:  append([]Column(nil), s.Optional...),
		Add:       append([]Column(nil), s.Add...),
	}
	for _, cols := range [][]Column{out.Optional, out.Add} {
		for i := range cols {
			if cols[i].Name == name {
				cols[i].Default = value
				cols[i].HasDefault = true
			}
		}
	}
	return out
}

// expand brings in the enumeration and chronology columns wherever
// Description is listed.
func (s Schema) expand() Schema {
	s.Optional = withDescriptionFields(s.Optional)
	s.Add = withDescriptionFields(s.Add)
	return s
}

func withDescriptionFields(cols []Column) []Column {
	out := append([]Column(nil), cols...)
	if !hasColumn(out, ColDescription) {
		return out
	}
	for _, name := range []string{ColEnumA, ColEnumB, ColChronI, ColChronJ} {
		if !hasColumn(out, name) {
			out = append(out, Column{Name: name, Derived: true})
		}
	}
	return out
}

func hasColumn(cols []Column, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// MissingColumnError reports a mandatory column absent from the input.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("data must contain a %q column", e.Column)
}

// Index maps resolved column names to table positions, in resolution order.
type Index struct {
	names   []string
	pos     map[string]int
	numeric map[string]bool
}

func newIndex() *Index {
	return &Index{pos: map[string]int{}, numeric: map[string]bool{}}
}

func (ix *Index) add(c Column, pos int) {
	if _, ok := ix.pos[c.Name]; !ok {
		ix.names = append(ix.names, c.Name)
	}
	ix.pos[c.Name] = pos
	if c.Numeric {
		ix.numeric[c.Name] = true
	}
}

// Names returns resolved column names in resolution order.
func (ix *Index) Names() []string {
	return append([]string(nil), ix.names...)
}

// Pos returns the table position of a resolved column.
func (ix *Index) Pos(name string) (int, bool) {
	p, ok := ix.pos[name]
	return p, ok
}

// Has reports whether name was resolved.
func (ix *Index) Has(name string) bool {
	_, ok := ix.pos[name]
	return ok
}

// Numeric reports whether name holds numeric identifiers.
func (ix *Index) Numeric(name string) bool {
	return ix.numeric[name]
}

// Get returns the cell of column name in row, or "" if unresolved.
func (ix *Index) Get(row []string, name string) string {
	p, ok := ix.pos[name]
	if !ok || p >= len(row) {
		return ""
	}
	return row[p]
}

// Set writes the cell of column name in row. Unresolved names are ignored.
func (ix *Index) Set(row []string, name, value string) {
	if p, ok := ix.pos[name]; ok && p < len(row) {
		row[p] = value
	}
}

// Resolve locates the schema's columns in t, appending any missing add
// columns. A missing mandatory column yields *MissingColumnError.
func Resolve(t *Table, s Schema) (*Index, error) {
	s = s.expand()
	ix := newIndex()
	for _, c := range s.Mandatory {
		p, ok := t.Column(c.Name)
		if !ok {
			return nil, &MissingColumnError{Column: c.Name}
		}
		ix.add(c, p)
	}
	for _, c := range s.Optional {
		if p, ok := t.Column(c.Name); ok {
			ix.add(c, p)
		}
	}
	for _, c := range s.Add {
		p, ok := t.Column(c.Name)
		if !ok {
			p = t.AppendColumn(c.Name)
		}
		ix.add(c, p)
	}
	return ix, nil
}

// EnsureColumn resolves name, appending an empty column when absent.
func EnsureColumn(t *Table, ix *Index, name string) int {
	p, ok := t.Column(name)
	if !ok {
		p = t.AppendColumn(name)
	}
	ix.add(Column{Name: name, Derived: true}, p)
	return p
}
