package sheet

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jdpolicano/excel/packages/formula"
)

// CellAddress locates a field. both indexes are 0-based.
type CellAddress struct {
	Row    int
	Column int
}

// String renders the address in A1 notation
func (a CellAddress) String() string {
	return formula.ColumnName(a.Column) + strconv.Itoa(a.Row+1)
}

// Less orders addresses row-major
func (a CellAddress) Less(b CellAddress) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Column < b.Column
}

// ParseAddress converts an A1 reference to an address. rows start at 1 and
// nothing past XFD1048576 is addressable, which also bounds how far Set
// grows the grid.
func ParseAddress(ref string) (CellAddress, error) {
	cell, err := formula.ParseCellRef(ref)
	if err != nil {
		return CellAddress{}, err
	}
	if cell.Row < 1 {
		return CellAddress{}, fmt.Errorf("row out of range: %s", ref)
	}
	return CellAddress{Row: cell.Row - 1, Column: cell.Column}, nil
}

// Sheet is a grid of inferred fields. rows may differ in length.
type Sheet struct {
	Name string
	Rows [][]Field

	functions formula.FunctionSet
	formulas  *FormulaTable
	strings   *StringTable
	stringIDs map[CellAddress]uint32
}

// New infers every field of rows, parsing formulas against functions
func New(name string, rows [][]string, functions formula.FunctionSet) *Sheet {
	s := &Sheet{
		Name:      name,
		Rows:      make([][]Field, len(rows)),
		functions: functions,
		formulas:  NewFormulaTable(),
		strings:   NewStringTable(),
		stringIDs: make(map[CellAddress]uint32),
	}

	for r, row := range rows {
		s.Rows[r] = make([]Field, len(row))
		for c, raw := range row {
			s.Rows[r][c] = InferField(raw, functions)
			s.track(CellAddress{Row: r, Column: c})
		}
	}

	return s
}

func (s *Sheet) track(addr CellAddress) {
	field := &s.Rows[addr.Row][addr.Column]
	switch {
	case field.Kind == FieldFormula && field.Formula != nil:
		s.formulas.Intern(field.Formula, addr)
	case field.Kind == FieldString:
		s.stringIDs[addr] = s.strings.Intern(field.Raw)
	}
}

func (s *Sheet) untrack(addr CellAddress) {
	s.formulas.Remove(addr)
	if id, ok := s.stringIDs[addr]; ok {
		s.strings.Release(id)
		delete(s.stringIDs, addr)
	}
}

// Cell looks up a field by A1 reference
func (s *Sheet) Cell(ref string) (*Field, bool) {
	addr, err := ParseAddress(ref)
	if err != nil {
		return nil, false
	}
	return s.At(addr)
}

// At looks up a field by address
func (s *Sheet) At(addr CellAddress) (*Field, bool) {
	if addr.Row < 0 || addr.Row >= len(s.Rows) {
		return nil, false
	}
	row := s.Rows[addr.Row]
	if addr.Column < 0 || addr.Column >= len(row) {
		return nil, false
	}
	return &row[addr.Column], true
}

// Set replaces the field at ref with newly inferred raw text, growing the
// grid when needed
func (s *Sheet) Set(ref string, raw string) (*Field, error) {
	addr, err := ParseAddress(ref)
	if err != nil {
		return nil, err
	}

	for len(s.Rows) <= addr.Row {
		s.Rows = append(s.Rows, nil)
	}
	for len(s.Rows[addr.Row]) <= addr.Column {
		s.Rows[addr.Row] = append(s.Rows[addr.Row], Field{Kind: FieldString})
		s.track(CellAddress{Row: addr.Row, Column: len(s.Rows[addr.Row]) - 1})
	}

	s.untrack(addr)
	s.Rows[addr.Row][addr.Column] = InferField(raw, s.functions)
	s.track(addr)

	return &s.Rows[addr.Row][addr.Column], nil
}

// FormulaCell is a formula field and where it sits
type FormulaCell struct {
	Address CellAddress
	Field   *Field
}

// Formulas returns every formula field in row-major order, failed parses
// included
func (s *Sheet) Formulas() []FormulaCell {
	var cells []FormulaCell
	for r := range s.Rows {
		for c := range s.Rows[r] {
			if s.Rows[r][c].Kind == FieldFormula {
				cells = append(cells, FormulaCell{
					Address: CellAddress{Row: r, Column: c},
					Field:   &s.Rows[r][c],
				})
			}
		}
	}
	return cells
}

// CellReferences lists what one formula cell refers to
type CellReferences struct {
	Address   CellAddress
	Formula   string
	Cells     []string // distinct references, sorted
	Functions []string // distinct function names, sorted
}

// References collects the cell references and function names of every
// parsed formula
func (s *Sheet) References() []CellReferences {
	var result []CellReferences
	for _, fc := range s.Formulas() {
		if fc.Field.Formula == nil {
			continue
		}

		cells := map[string]struct{}{}
		functions := map[string]struct{}{}
		formula.Walk(fc.Field.Formula, func(n formula.Node) bool {
			switch n := n.(type) {
			case *formula.CellRefNode:
				cells[n.Ref] = struct{}{}
			case *formula.CellRangeNode:
				for ref := range n.Iterate() {
					cells[ref] = struct{}{}
				}
				return false
			case *formula.FunctionNode:
				functions[n.Name] = struct{}{}
			}
			return true
		})

		result = append(result, CellReferences{
			Address:   fc.Address,
			Formula:   fc.Field.Formula.ToString(),
			Cells:     sortedKeys(cells),
			Functions: sortedKeys(functions),
		})
	}
	return result
}

// SharedFormula is a canonical formula held by more than one cell
type SharedFormula struct {
	Formula string
	Cells   []CellAddress // row-major
}

// SharedFormulas lists the formulas that several cells hold in the same
// canonical form, in the order they were first seen
func (s *Sheet) SharedFormulas() []SharedFormula {
	var shared []SharedFormula
	for _, id := range s.formulas.IDs() {
		if s.formulas.RefCount(id) < 2 {
			continue
		}
		node, ok := s.formulas.Get(id)
		if !ok {
			continue
		}
		shared = append(shared, SharedFormula{
			Formula: node.ToString(),
			Cells:   s.formulas.CellsUsing(id),
		})
	}
	return shared
}

// FormulaTable exposes the sheet's interned formulas
func (s *Sheet) FormulaTable() *FormulaTable {
	return s.formulas
}

// StringTable exposes the sheet's interned strings
func (s *Sheet) StringTable() *StringTable {
	return s.strings
}

// Records renders every field back to text, row by row
func (s *Sheet) Records() [][]string {
	records := make([][]string, len(s.Rows))
	for r, row := range s.Rows {
		records[r] = make([]string, len(row))
		for c := range row {
			records[r][c] = row[c].String()
		}
	}
	return records
}

// Stats summarises a sheet
type Stats struct {
	Rows             int
	Cells            int
	Integers         int
	Floats           int
	Strings          int
	Formulas         int
	ParseFailures    int
	DistinctFormulas int
	DistinctStrings  int
}

// Stats counts the sheet's fields per kind
func (s *Sheet) Stats() Stats {
	stats := Stats{
		Rows:             len(s.Rows),
		DistinctFormulas: s.formulas.Count(),
		DistinctStrings:  s.strings.Count(),
	}

	for _, row := range s.Rows {
		for _, field := range row {
			stats.Cells++
			switch field.Kind {
			case FieldInteger:
				stats.Integers++
			case FieldFloat:
				stats.Floats++
			case FieldString:
				stats.Strings++
			case FieldFormula:
				stats.Formulas++
				if field.Err != nil {
					stats.ParseFailures++
				}
			}
		}
	}

	return stats
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
