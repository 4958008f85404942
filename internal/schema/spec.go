// Package schema parses the textual column schema accepted by gencsv.
//
// Grammar:
//
//	schema := col ("," col)* [","]
//	col    := name ":" typeTag [":" modifier]
//
// Whitespace anywhere in a column is insignificant. Malformed columns are
// dropped with a warning; callers decide what an empty result means.
package schema

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// ColumnSpec describes one column to generate.
type ColumnSpec struct {
	Name        string
	TypeTag     string
	Modifier    string
	HasModifier bool
}

// String renders the spec back in schema syntax.
func (c ColumnSpec) String() string {
	if c.HasModifier {
		return fmt.Sprintf("%s:%s:%s", c.Name, c.TypeTag, c.Modifier)
	}
	return c.Name + ":" + c.TypeTag
}

// Parse splits a schema string into column specs, preserving order.
// A single trailing comma is ignored.
func Parse(text string) []ColumnSpec {
	text = strings.TrimSuffix(text, ",")
	segments := strings.Split(text, ",")

	specs := make([]ColumnSpec, 0, len(segments))
	for i, segment := range segments {
		spec, ok := parseColumn(segment)
		if !ok {
			slog.Warn("dropping malformed schema column",
				"position", i,
				"segment", segment,
			)
			continue
		}
		specs = append(specs, spec)
	}

	return specs
}

// parseColumn accepts exactly "name:type" or "name:type:modifier".
func parseColumn(segment string) (ColumnSpec, bool) {
	parts := strings.Split(stripSpace(segment), ":")

	switch len(parts) {
	case 2:
		return ColumnSpec{Name: parts[0], TypeTag: parts[1]}, true
	case 3:
		return ColumnSpec{Name: parts[0], TypeTag: parts[1], Modifier: parts[2], HasModifier: true}, true
	default:
		return ColumnSpec{}, false
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Format joins specs back into a schema string.
func Format(specs []ColumnSpec) string {
	parts := make([]string, len(specs))
	for i, spec := range specs {
		parts[i] = spec.String()
	}
	return strings.Join(parts, ",")
}

// DefaultSpecs is the schema used when none is supplied: four placeholder columns.
func DefaultSpecs() []ColumnSpec {
	return []ColumnSpec{
		{Name: "col1", TypeTag: "VALUE"},
		{Name: "col2", TypeTag: "VALUE"},
		{Name: "col3", TypeTag: "VALUE"},
		{Name: "col4", TypeTag: "VALUE"},
	}
}
