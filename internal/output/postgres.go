package output

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// CopyDB is the part of *pgxpool.Pool the Postgres sink uses.
type CopyDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Postgres copies the table into a database table, creating it if needed.
// Table may be schema-qualified ("reporting.people").
type Postgres struct {
	DB    CopyDB
	Table string
}

// Write implements core.Output.
func (p *Postgres) Write(ctx context.Context, t *table.Table) error {
	if t.Width() == 0 {
		return ErrNoColumns
	}

	ident := pgx.Identifier(strings.Split(p.Table, "."))

	if _, err := p.DB.Exec(ctx, CreateTableSQL(ident, t)); err != nil {
		return fmt.Errorf("create table %s: %w", p.Table, err)
	}

	n, err := p.DB.CopyFrom(ctx, ident, t.Names(), pgx.CopyFromRows(PgRows(t)))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", p.Table, err)
	}

	slog.Info("rows copied to postgres", "table", p.Table, "rows", n)
	return nil
}

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for t.
func CreateTableSQL(ident pgx.Identifier, t *table.Table) string {
	defs := make([]string, t.Width())
	for i, col := range t.Columns() {
		defs[i] = pgx.Identifier{col.Name}.Sanitize() + " " + pgType(col.Kind)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident.Sanitize(), strings.Join(defs, ", "))
}

func pgType(k table.Kind) string {
	switch k {
	case table.KindInt:
		return "BIGINT"
	case table.KindFloat:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// PgRows converts the table to COPY rows of pgtype values.
func PgRows(t *table.Table) [][]any {
	rows := make([][]any, t.Height())
	for r := range rows {
		row := t.Row(r)
		for c, v := range row {
			row[c] = pgValue(v)
		}
		rows[r] = row
	}
	return rows
}

func pgValue(v any) any {
	switch x := v.(type) {
	case int64:
		return pgtype.Int8{Int64: x, Valid: true}
	case float64:
		return pgtype.Float8{Float64: x, Valid: true}
	case string:
		return pgtype.Text{String: x, Valid: true}
	default:
		return nil
	}
}
