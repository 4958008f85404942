package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/gencsv/internal/table"
)

// ErrEmptyFile is returned for a delimited file without a header row.
var ErrEmptyFile = errors.New("empty file: no header row")

// CSVFile reads a delimited file with a header row. Every column is loaded
// as text; the generated side is widened to match when appended.
type CSVFile struct {
	Delimiter rune // ',' when zero
}

// Load implements core.Loader.
func (c CSVFile) Load(_ context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := c.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses delimited text from r.
func (c CSVFile) Read(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(newCleanReader(r))
	if c.Delimiter != 0 {
		cr.Comma = c.Delimiter
	}
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, len(header))
	copy(names, header)
	values := make([][]string, len(names))

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, cell := range rec {
			values[i] = append(values[i], cell)
		}
	}

	cols := make([]table.Column, len(names))
	for i, name := range names {
		cols[i] = table.StringColumn(name, values[i]...)
	}
	return table.New(cols...)
}
