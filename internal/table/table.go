// Package table defines the in-memory dataset that flows through the
// generation pipeline: an ordered set of named, equal-length columns whose
// cells all share one Kind.
//
// A Table is treated as a value. Operations that change rows (append,
// delete) build a new Table instead of mutating the receiver.
package table

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Kind is the storage type shared by every cell of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrRaggedColumns is returned when columns of one table differ in length.
	ErrRaggedColumns = errors.New("columns have different lengths")

	// ErrKindMismatch is returned when a cell's Go type does not match its column kind.
	ErrKindMismatch = errors.New("cell does not match column kind")
)

// Column is a named, homogeneous sequence of cells.
// Values hold string for KindString, int64 for KindInt and float64 for KindFloat.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Len returns the number of cells in the column.
func (c Column) Len() int { return len(c.Values) }

// Table is an ordered collection of equal-length columns.
type Table struct {
	columns []Column
	height  int
}

// New assembles a table from columns, keeping their order.
// Every column must have the same length and every cell must match its column kind.
func New(columns ...Column) (*Table, error) {
	t := &Table{columns: make([]Column, len(columns))}

	for i, col := range columns {
		if i == 0 {
			t.height = col.Len()
		} else if col.Len() != t.height {
			return nil, fmt.Errorf("%w: column %q has %d cells, want %d",
				ErrRaggedColumns, col.Name, col.Len(), t.height)
		}

		for row, v := range col.Values {
			if !matchesKind(col.Kind, v) {
				return nil, fmt.Errorf("%w: column %q row %d holds %T, want %s",
					ErrKindMismatch, col.Name, row, v, col.Kind)
			}
		}

		t.columns[i] = Column{Name: col.Name, Kind: col.Kind, Values: slices.Clip(col.Values)}
	}

	return t, nil
}

func matchesKind(k Kind, v any) bool {
	switch v.(type) {
	case string:
		return k == KindString
	case int64:
		return k == KindInt
	case float64:
		return k == KindFloat
	default:
		return false
	}
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Height returns the number of rows.
func (t *Table) Height() int { return t.height }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Kinds returns the column kinds in order.
func (t *Table) Kinds() []Kind {
	kinds := make([]Kind, len(t.columns))
	for i, col := range t.columns {
		kinds[i] = col.Kind
	}
	return kinds
}

// Column returns a copy of the i-th column.
func (t *Table) Column(i int) Column {
	col := t.columns[i]
	return Column{Name: col.Name, Kind: col.Kind, Values: slices.Clone(col.Values)}
}

// Columns returns copies of all columns in order.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	for i := range t.columns {
		cols[i] = t.Column(i)
	}
	return cols
}

// Value returns the cell at row, col.
func (t *Table) Value(row, col int) any {
	return t.columns[col].Values[row]
}

// Row returns the cells of one row in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Records renders the table as text rows, optionally preceded by the header.
func (t *Table) Records(header bool) [][]string {
	records := make([][]string, 0, t.height+1)
	if header {
		records = append(records, t.Names())
	}
	for r := 0; r < t.height; r++ {
		rec := make([]string, len(t.columns))
		for c, col := range t.columns {
			rec[c] = FormatValue(col.Values[r])
		}
		records = append(records, rec)
	}
	return records
}

// FormatValue renders one cell as text.
// Floats use the shortest representation that round-trips.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
