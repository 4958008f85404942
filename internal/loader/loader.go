// Package loader reads a previously persisted table so generated rows can be
// appended to it. Parquet files, delimited text files and Postgres tables
// are supported.
package loader

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/table"
)

// PostgresPrefix marks an append path that names a database table: "pg:people".
const PostgresPrefix = "pg:"

// ErrNoDatabase is returned for a pg: path when no database is configured.
var ErrNoDatabase = errors.New("no database is configured")

// Auto picks a loader by path: a pg: prefix reads a Postgres table, a .csv
// or .tsv extension reads delimited text, anything else is read as Parquet.
// A .tsv file is tab-separated unless CSV.Delimiter is set.
type Auto struct {
	CSV      CSVFile
	Parquet  ParquetFile
	Postgres *Postgres // nil when no database is configured
}

// Load implements core.Loader.
func (a *Auto) Load(ctx context.Context, path string) (*table.Table, error) {
	if name, ok := strings.CutPrefix(path, PostgresPrefix); ok {
		if a.Postgres == nil {
			return nil, ErrNoDatabase
		}
		return a.Postgres.Load(ctx, name)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return a.CSV.Load(ctx, path)
	case ".tsv":
		c := a.CSV
		if c.Delimiter == 0 {
			c.Delimiter = '\t'
		}
		return c.Load(ctx, path)
	default:
		return a.Parquet.Load(ctx, path)
	}
}
