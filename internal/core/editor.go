package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/JonMunkholm/gencsv/internal/table"
)

// ErrAppendSchemaMismatch is returned when two tables cannot be appended
// because their column counts or names differ.
var ErrAppendSchemaMismatch = errors.New("append schema mismatch")

// Append returns a new table holding target's rows followed by addition's rows.
//
// Both tables must have the same column names in the same order. Columns
// that agree on name but not on kind are widened to text.
func Append(target, addition *table.Table) (*table.Table, error) {
	if target.Width() != addition.Width() {
		return nil, fmt.Errorf("%w: target has %d columns, addition has %d",
			ErrAppendSchemaMismatch, target.Width(), addition.Width())
	}
	if tn, an := target.Names(), addition.Names(); !slices.Equal(tn, an) {
		return nil, fmt.Errorf("%w: target columns %v, addition columns %v",
			ErrAppendSchemaMismatch, tn, an)
	}

	columns := make([]table.Column, target.Width())
	for i := range columns {
		top, bottom := target.Column(i), addition.Column(i)
		if top.Kind != bottom.Kind {
			top, bottom = widen(top), widen(bottom)
		}
		columns[i] = table.Column{
			Name:   top.Name,
			Kind:   top.Kind,
			Values: append(top.Values, bottom.Values...),
		}
	}

	return table.New(columns...)
}

func widen(col table.Column) table.Column {
	return table.StringColumn(col.Name, col.Strings()...)
}

// Filter returns a new table without the rows whose position is in remove.
// Positions outside the table are ignored.
func Filter(t *table.Table, remove IndexSet) *table.Table {
	keep := make([]int, 0, t.Height())
	for row := 0; row < t.Height(); row++ {
		if !remove.Contains(row) {
			keep = append(keep, row)
		}
	}

	columns := t.Columns()
	for i, col := range columns {
		values := make([]any, len(keep))
		for j, row := range keep {
			values[j] = col.Values[row]
		}
		columns[i].Values = values
	}

	// Rows were taken from a valid table, so the result is valid too.
	out, err := table.New(columns...)
	if err != nil {
		panic(fmt.Sprintf("core: filter produced invalid table: %v", err))
	}
	return out
}
