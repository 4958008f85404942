package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the part of *pgxpool.Pool the Postgres loader uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres loads every row of a table. Integer and floating point columns
// keep their kind unless they contain NULLs; everything else loads as text.
type Postgres struct {
	DB Querier
}

// Load implements core.Loader. name may be schema-qualified.
func (p *Postgres) Load(ctx context.Context, name string) (*table.Table, error) {
	ident := pgx.Identifier(strings.Split(name, "."))

	rows, err := p.DB.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]table.Column, len(fields))
	for i, fd := range fields {
		cols[i] = table.Column{Name: fd.Name, Kind: kindForOID(fd.DataTypeOID)}
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		for i, v := range vals {
			cols[i].Values = append(cols[i].Values, cell(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	for i := range cols {
		cols[i] = normalize(cols[i])
	}
	return table.New(cols...)
}

func kindForOID(oid uint32) table.Kind {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return table.KindInt
	case pgtype.Float4OID, pgtype.Float8OID:
		return table.KindFloat
	default:
		return table.KindString
	}
}

// cell widens decoded numbers to int64/float64 and renders a few common
// non-text types. Anything else is returned unchanged for normalize.
func cell(v any) any {
	switch x := v.(type) {
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case pgtype.Numeric:
		if f, err := x.Float64Value(); err == nil && f.Valid {
			return strconv.FormatFloat(f.Float64, 'f', -1, 64)
		}
		return nil
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return v
	}
}

// normalize turns a column into text when any cell is NULL or does not
// match the kind guessed from the column type.
func normalize(col table.Column) table.Column {
	if _, err := table.New(col); err == nil {
		return col
	}
	text := make([]string, len(col.Values))
	for i, v := range col.Values {
		text[i] = table.FormatValue(v)
	}
	return table.StringColumn(col.Name, text...)
}
