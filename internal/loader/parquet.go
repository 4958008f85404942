package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ParquetFile reads a whole Parquet file into memory.
//
// int64 and float64 columns keep their kind; other Arrow types, and any
// column holding nulls, load as text with nulls as empty strings.
type ParquetFile struct{}

// Load implements core.Loader.
func (ParquetFile) Load(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	at, err := pqarrow.ReadTable(ctx, f, nil, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	defer at.Release()

	return FromArrow(at)
}

// FromArrow converts an Arrow table to a Table.
func FromArrow(at arrow.Table) (*table.Table, error) {
	cols := make([]table.Column, at.NumCols())
	for i := range cols {
		cols[i] = fromChunked(at.Column(i))
	}
	return table.New(cols...)
}

func fromChunked(col *arrow.Column) table.Column {
	values := make([]any, 0, col.Len())
	kind := table.KindString

	switch {
	case col.NullN() > 0:
	case arrow.TypeEqual(col.DataType(), arrow.PrimitiveTypes.Int64):
		kind = table.KindInt
	case arrow.TypeEqual(col.DataType(), arrow.PrimitiveTypes.Float64):
		kind = table.KindFloat
	}

	for _, chunk := range col.Data().Chunks() {
		for j := 0; j < chunk.Len(); j++ {
			switch {
			case kind == table.KindInt:
				values = append(values, chunk.(*array.Int64).Value(j))
			case kind == table.KindFloat:
				values = append(values, chunk.(*array.Float64).Value(j))
			case chunk.IsNull(j):
				values = append(values, "")
			default:
				values = append(values, chunk.ValueStr(j))
			}
		}
	}

	return table.Column{Name: col.Name(), Kind: kind, Values: values}
}
