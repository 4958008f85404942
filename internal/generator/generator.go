// Package generator resolves schema type tags to value-producing generators.
//
// Two generator shapes exist. A ScalarGenerator is asked for one value per
// row and calls are independent. A BulkGenerator produces a whole column in
// one call because its state (a running counter, a bounded range) belongs to
// the column rather than to a single cell.
package generator

import "github.com/JonMunkholm/gencsv/internal/table"

// Generator is implemented by ScalarGenerator and BulkGenerator.
// Kind reports the cell kind every produced value has.
type Generator interface {
	Kind() table.Kind
}

// ScalarGenerator produces one cell per call.
type ScalarGenerator interface {
	Generator
	Next() any
}

// BulkGenerator produces exactly n cells in one call.
type BulkGenerator interface {
	Generator
	Generate(n int) []any
}

type scalarFunc struct {
	kind table.Kind
	fn   func() any
}

func (s scalarFunc) Kind() table.Kind { return s.kind }
func (s scalarFunc) Next() any        { return s.fn() }

// Scalar adapts fn to a ScalarGenerator producing cells of kind.
func Scalar(kind table.Kind, fn func() any) ScalarGenerator {
	return scalarFunc{kind: kind, fn: fn}
}

// Constant always yields the same text.
func Constant(value string) ScalarGenerator {
	return Scalar(table.KindString, func() any { return value })
}

// Sequence is the bulk generator behind INT_INC and INT_RNG.
type Sequence struct {
	Start int
	End   int
}

// Kind implements Generator.
func (s Sequence) Kind() table.Kind { return table.KindInt }

// Generate implements BulkGenerator.
func (s Sequence) Generate(n int) []any {
	ints := IncrementalInts(n, s.Start, s.End)
	cells := make([]any, len(ints))
	for i, v := range ints {
		cells[i] = v
	}
	return cells
}
