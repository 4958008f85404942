package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/gencsv/internal/table"
)

// Console writes the table as delimited text, header first unless NoHeader.
type Console struct {
	W         io.Writer
	Delimiter rune // ',' when zero
	NoHeader  bool
}

// Write implements core.Output.
func (c *Console) Write(_ context.Context, t *table.Table) error {
	return writeDelimited(c.W, t, c.Delimiter, c.NoHeader)
}

// CSVFile writes delimited text to Path, creating or truncating it.
type CSVFile struct {
	Path      string
	Delimiter rune
	NoHeader  bool
}

// Write implements core.Output.
func (c *CSVFile) Write(_ context.Context, t *table.Table) error {
	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Path, err)
	}

	if err := writeDelimited(f, t, c.Delimiter, c.NoHeader); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", c.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Path, err)
	}

	slog.Info("csv written", "path", c.Path, "rows", t.Height(), "columns", t.Width())
	return nil
}

func writeDelimited(w io.Writer, t *table.Table, delimiter rune, noHeader bool) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	// WriteAll flushes and reports the first error.
	return cw.WriteAll(t.Records(!noHeader))
}
