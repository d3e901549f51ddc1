// Package table provides the in-memory tabular structure that flows
// between pipeline stages. A table has ordered, named, typed columns and
// rows of values. A nil value is a null cell.
//
// Cell values are restricted to the Go types matching the column kind:
//
//	String -> string
//	Int    -> int64
//	Float  -> float64
//	Time   -> time.Time
//	Bool   -> bool
//
// This package has no I/O dependencies.
package table

import (
	"fmt"
	"slices"
)

// Kind is the type of a column.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Time
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Time:
		return "time"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column describes one column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Table is a row-oriented collection of typed values.
type Table struct {
	cols []Column
	idx  map[string]int
	rows [][]any
}

// New creates an empty table with the given columns. Duplicate column
// names panic, they indicate a programming error.
func New(cols ...Column) *Table {
	res := &Table{
		cols: slices.Clone(cols),
		idx:  make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, ok := res.idx[c.Name]; ok {
			panic(fmt.Sprintf("table: duplicate column %q", c.Name))
		}
		res.idx[c.Name] = i
	}
	return res
}

// Columns returns a copy of the column descriptors.
func (t *Table) Columns() []Column {
	return slices.Clone(t.cols)
}

// ColumnNames returns column names in order.
func (t *Table) ColumnNames() []string {
	res := make([]string, len(t.cols))
	for i, c := range t.cols {
		res[i] = c.Name
	}
	return res
}

// Width is the number of columns.
func (t *Table) Width() int {
	return len(t.cols)
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnIndex returns the position of a column or -1 if it is absent.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.idx[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports if a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// Column returns the descriptor of the column at position i.
func (t *Table) Column(i int) Column {
	return t.cols[i]
}

// SetKind changes the kind of a column. Callers are responsible for
// converting the values of that column.
func (t *Table) SetKind(i int, k Kind) {
	t.cols[i].Kind = k
}

// Append adds a row. The number of values must match the number of
// columns.
func (t *Table) Append(vals ...any) {
	if len(vals) != len(t.cols) {
		panic(fmt.Sprintf(
			"table: row has %d values, table has %d columns",
			len(vals), len(t.cols),
		))
	}
	t.rows = append(t.rows, vals)
}

// Row returns the row at position i. The slice is shared with the table.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Rows returns all rows. The slices are shared with the table.
func (t *Table) Rows() [][]any {
	return t.rows
}

// Value returns the cell at row i in the named column, nil if the column
// does not exist.
func (t *Table) Value(i int, name string) any {
	ci := t.ColumnIndex(name)
	if ci < 0 {
		return nil
	}
	return t.rows[i][ci]
}

// Set replaces the cell at row i, column ci.
func (t *Table) Set(i, ci int, v any) {
	t.rows[i][ci] = v
}

// AddColumn appends a column computed from every existing row.
func (t *Table) AddColumn(c Column, fn func(row []any) any) {
	if _, ok := t.idx[c.Name]; ok {
		panic(fmt.Sprintf("table: duplicate column %q", c.Name))
	}
	t.idx[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	for i, row := range t.rows {
		t.rows[i] = append(row, fn(row))
	}
}

// Clone makes a deep copy of the table structure. Cell values are
// immutable, so they are shared.
func (t *Table) Clone() *Table {
	res := New(t.cols...)
	res.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		res.rows[i] = slices.Clone(row)
	}
	return res
}

// Filter returns a new table with the rows for which keep returns true.
// Rows are copied.
func (t *Table) Filter(keep func(row []any) bool) *Table {
	res := New(t.cols...)
	for _, row := range t.rows {
		if keep(row) {
			res.rows = append(res.rows, slices.Clone(row))
		}
	}
	return res
}

// IsNullColumn reports if every cell of the column at position ci is
// null. An empty table has no null columns.
func (t *Table) IsNullColumn(ci int) bool {
	if len(t.rows) == 0 {
		return false
	}
	for _, row := range t.rows {
		if row[ci] != nil {
			return false
		}
	}
	return true
}

// IsNullRow reports if every cell of the row is null.
func IsNullRow(row []any) bool {
	for _, v := range row {
		if v != nil {
			return false
		}
	}
	return true
}
