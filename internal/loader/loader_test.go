package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/JonMunkholm/gencsv/internal/output"
	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"gotest.tools/v3/assert"
)

func TestCleanReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain ascii", []byte("a,b\n1,2\n"), "a,b\n1,2\n"},
		{"bom removed", append([]byte{0xEF, 0xBB, 0xBF}, "a,b\n"...), "a,b\n"},
		{"bom only at start", []byte("a\xEF\xBB\xBF"), "a\xEF\xBB\xBF"},
		{"invalid bytes replaced", []byte("caf\xE9,ok"), "caf?,ok"},
		{"multibyte kept", []byte("naïve,日本"), "naïve,日本"},
		{"short input", []byte("a"), "a"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newCleanReader(bytes.NewReader(tt.input)))
			assert.NilError(t, err)
			assert.Equal(t, string(got), tt.want)
		})
	}
}

func TestCleanReader_TinyReads(t *testing.T) {
	// One byte at a time from the source and into the caller's buffer.
	r := newCleanReader(iotest.OneByteReader(strings.NewReader("é\xFFx日")))
	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		assert.NilError(t, err)
	}
	assert.Equal(t, string(out), "é?x日")
}

func TestCSVFile_Read(t *testing.T) {
	input := "\xEF\xBB\xBFid,name\n1,Ann\n2,\"Bob, Jr.\"\n"

	tbl, err := CSVFile{}.Read(strings.NewReader(input))
	assert.NilError(t, err)
	assert.DeepEqual(t, tbl.Names(), []string{"id", "name"})
	assert.Equal(t, tbl.Height(), 2)
	assert.Equal(t, tbl.Value(1, 1), any("Bob, Jr."))
	assert.Equal(t, tbl.Column(0).Kind, table.KindString)
}

func TestCSVFile_Read_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged row", "a,b\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CSVFile{}.Read(strings.NewReader(tt.input))
			assert.Assert(t, err != nil)
		})
	}

	_, err := CSVFile{}.Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestCSVFile_Delimiter(t *testing.T) {
	tbl, err := CSVFile{Delimiter: '\t'}.Read(strings.NewReader("a\tb\nx,y\tz\n"))
	assert.NilError(t, err)
	assert.Equal(t, tbl.Value(0, 0), any("x,y"))
}

func TestCSVFile_Load_Missing(t *testing.T) {
	_, err := CSVFile{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParquetFile_RoundTrip(t *testing.T) {
	src, err := table.New(
		table.IntColumn("id", 1, 2, 3),
		table.StringColumn("name", "a", "b", "c"),
		table.FloatColumn("price", 1.25, 2, 3.5),
	)
	assert.NilError(t, err)

	path := filepath.Join(t.TempDir(), "in.parquet")
	assert.NilError(t, (&output.ParquetFile{Path: path}).Write(context.Background(), src))

	got, err := ParquetFile{}.Load(context.Background(), path)
	assert.NilError(t, err)
	assert.DeepEqual(t, got.Names(), src.Names())
	assert.DeepEqual(t, got.Kinds(), src.Kinds())
	assert.DeepEqual(t, got.Records(true), src.Records(true))
}

func TestParquetFile_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.parquet")
	assert.NilError(t, os.WriteFile(path, []byte("not parquet at all"), 0o644))

	_, err := ParquetFile{}.Load(context.Background(), path)
	assert.ErrorContains(t, err, "parquet")
}

func TestAuto_Dispatch(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "in.csv")
	assert.NilError(t, os.WriteFile(csvPath, []byte("a\n1\n"), 0o644))

	src, err := table.New(table.IntColumn("a", 7))
	assert.NilError(t, err)
	pqPath := filepath.Join(dir, "in.data")
	assert.NilError(t, (&output.ParquetFile{Path: pqPath}).Write(context.Background(), src))

	auto := &Auto{}

	got, err := auto.Load(context.Background(), csvPath)
	assert.NilError(t, err)
	assert.Equal(t, got.Value(0, 0), any("1"))

	got, err = auto.Load(context.Background(), pqPath)
	assert.NilError(t, err)
	assert.Equal(t, got.Value(0, 0), any(int64(7)))

	_, err = auto.Load(context.Background(), "pg:people")
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestAuto_TSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.tsv")
	assert.NilError(t, os.WriteFile(path, []byte("a\tb\nx\ty\n"), 0o644))

	tests := []struct {
		name      string
		delimiter rune
		wantNames []string
		wantFirst any
	}{
		{"tab by default", 0, []string{"a", "b"}, "x"},
		{"explicit delimiter wins", ',', []string{"a\tb"}, "x\ty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&Auto{CSV: CSVFile{Delimiter: tt.delimiter}}).Load(context.Background(), path)
			assert.NilError(t, err)
			assert.DeepEqual(t, got.Names(), tt.wantNames)
			assert.Equal(t, got.Value(0, 0), tt.wantFirst)
		})
	}
}

// fakeRows serves fixed rows through the pgx.Rows interface.
type fakeRows struct {
	fields []pgconn.FieldDescription
	data   [][]any
	pos    int
	err    error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Scan(...any) error                            { return errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos-1], nil }

type fakeQuerier struct {
	sql  string
	rows *fakeRows
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.sql = sql
	return q.rows, nil
}

func TestPostgres_Load(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		fields: []pgconn.FieldDescription{
			{Name: "id", DataTypeOID: pgtype.Int4OID},
			{Name: "name", DataTypeOID: pgtype.TextOID},
			{Name: "score", DataTypeOID: pgtype.Float8OID},
			{Name: "maybe", DataTypeOID: pgtype.Int8OID},
		},
		data: [][]any{
			{int32(1), "ann", 1.5, int64(4)},
			{int32(2), "bob", 2.0, nil},
		},
	}}

	tbl, err := (&Postgres{DB: q}).Load(context.Background(), "public.people")
	assert.NilError(t, err)

	assert.Equal(t, q.sql, `SELECT * FROM "public"."people"`)
	assert.DeepEqual(t, tbl.Kinds(), []table.Kind{table.KindInt, table.KindString, table.KindFloat, table.KindString})
	assert.Equal(t, tbl.Value(1, 0), any(int64(2)))
	assert.Equal(t, tbl.Value(0, 3), any("4"))
	assert.Equal(t, tbl.Value(1, 3), any(""))
}

func TestPostgres_LoadError(t *testing.T) {
	boom := errors.New("connection refused")
	q := &fakeQuerier{rows: &fakeRows{err: boom}}

	_, err := (&Postgres{DB: q}).Load(context.Background(), "people")
	assert.ErrorIs(t, err, boom)
}

func TestAuto_Postgres(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		fields: []pgconn.FieldDescription{{Name: "a", DataTypeOID: pgtype.TextOID}},
		data:   [][]any{{"x"}},
	}}

	got, err := (&Auto{Postgres: &Postgres{DB: q}}).Load(context.Background(), "pg:things")
	assert.NilError(t, err)
	assert.Equal(t, q.sql, `SELECT * FROM "things"`)
	assert.Equal(t, got.Height(), 1)
}
