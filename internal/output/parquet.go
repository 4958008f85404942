package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ErrNoColumns is returned when a columnar sink is given a table without columns.
var ErrNoColumns = errors.New("table has no columns")

// ParquetFile writes the table as a single-row-group Parquet file.
type ParquetFile struct {
	Path string
}

// Write implements core.Output.
func (p *ParquetFile) Write(_ context.Context, t *table.Table) error {
	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", p.Path, err)
	}
	// The parquet writer closes f on success.
	if err := WriteParquet(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p.Path, err)
	}

	slog.Info("parquet written", "path", p.Path, "rows", t.Height(), "columns", t.Width())
	return nil
}

// ArrowSchema maps table kinds to Arrow types: utf8, int64 and float64.
func ArrowSchema(t *table.Table) *arrow.Schema {
	fields := make([]arrow.Field, t.Width())
	for i, col := range t.Columns() {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Kind)}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.KindInt:
		return arrow.PrimitiveTypes.Int64
	case table.KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// WriteParquet encodes t as Parquet onto w. If w is an io.Closer it is closed.
func WriteParquet(w io.Writer, t *table.Table) error {
	if t.Width() == 0 {
		return ErrNoColumns
	}

	mem := memory.NewGoAllocator()
	rec := Record(mem, t)
	defer rec.Release()

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w, nil, pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem)))
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("write record: %w", err)
	}
	return writer.Close()
}

// Record converts t to one Arrow record. The caller releases it.
func Record(mem memory.Allocator, t *table.Table) arrow.Record {
	schema := ArrowSchema(t)
	cols := make([]arrow.Array, t.Width())

	for i, col := range t.Columns() {
		b := array.NewBuilder(mem, schema.Field(i).Type)
		b.Reserve(col.Len())
		for _, v := range col.Values {
			switch bb := b.(type) {
			case *array.Int64Builder:
				bb.Append(v.(int64))
			case *array.Float64Builder:
				bb.Append(v.(float64))
			case *array.StringBuilder:
				bb.Append(v.(string))
			}
		}
		cols[i] = b.NewArray()
		b.Release()
	}

	rec := array.NewRecord(schema, cols, int64(t.Height()))
	for _, c := range cols {
		c.Release()
	}
	return rec
}
