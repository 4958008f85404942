package table

// StringColumn builds a KindString column from text cells.
func StringColumn(name string, values ...string) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Kind: KindString, Values: cells}
}

// IntColumn builds a KindInt column.
func IntColumn(name string, values ...int64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Kind: KindInt, Values: cells}
}

// FloatColumn builds a KindFloat column.
func FloatColumn(name string, values ...float64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Kind: KindFloat, Values: cells}
}

// Strings returns the column rendered as text.
func (c Column) Strings() []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = FormatValue(v)
	}
	return out
}
