// Package output implements the sinks a generated table can be written to:
// delimited text on a writer or file, a Parquet file, or a Postgres table.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/core"
)

// Sink kinds accepted by New.
const (
	KindConsole  = "console"
	KindCSV      = "csv"
	KindParquet  = "parquet"
	KindPostgres = "postgres"
)

var (
	// ErrUnknownKind is returned by New for an unsupported sink name.
	ErrUnknownKind = errors.New("unknown output kind")

	// ErrMissingOption is returned by New when the chosen sink lacks a required option.
	ErrMissingOption = errors.New("missing output option")
)

// Options carries the settings any sink may need. Each sink reads only its own.
type Options struct {
	Writer    io.Writer // console
	Path      string    // csv, parquet
	Delimiter rune      // console, csv
	NoHeader  bool      // console, csv
	DB        CopyDB    // postgres
	Table     string    // postgres
}

// Kinds returns the accepted sink names.
func Kinds() []string {
	return []string{KindConsole, KindCSV, KindParquet, KindPostgres}
}

// New returns the sink named kind configured from opts.
func New(kind string, opts Options) (core.Output, error) {
	switch strings.ToLower(kind) {
	case KindConsole, "":
		if opts.Writer == nil {
			return nil, fmt.Errorf("%w: console output needs a writer", ErrMissingOption)
		}
		return &Console{W: opts.Writer, Delimiter: opts.Delimiter, NoHeader: opts.NoHeader}, nil
	case KindCSV:
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: csv output needs a file path", ErrMissingOption)
		}
		return &CSVFile{Path: opts.Path, Delimiter: opts.Delimiter, NoHeader: opts.NoHeader}, nil
	case KindParquet:
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: parquet output needs a file path", ErrMissingOption)
		}
		return &ParquetFile{Path: opts.Path}, nil
	case KindPostgres:
		if opts.DB == nil {
			return nil, fmt.Errorf("%w: postgres output needs a database connection", ErrMissingOption)
		}
		if opts.Table == "" {
			return nil, fmt.Errorf("%w: postgres output needs a table name", ErrMissingOption)
		}
		return &Postgres{DB: opts.DB, Table: opts.Table}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownKind, kind, strings.Join(Kinds(), ", "))
	}
}
