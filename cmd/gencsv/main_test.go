package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/gencsv/internal/config"
	"gotest.tools/v3/assert"
)

// cleanEnv keeps host settings out of config.Load.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GENCSV_ROWS", "GENCSV_DELIMITER", "GENCSV_NO_HEADER", "GENCSV_PARALLEL", "GENCSV_MAX_ROWS",
		"GENCSV_OUTPUT", "GENCSV_OUTPUT_PATH", "GENCSV_PG_TABLE",
		"DATABASE_URL", "DB_URL", "LOG_LEVEL", "LOG_FORMAT", "SEQ_URL",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRun_Types(t *testing.T) {
	cleanEnv(t)

	code, stdout, _ := runArgs(t, "-types")

	assert.Equal(t, code, exitOK)
	assert.Assert(t, strings.Contains(stdout, "INT_INC\n"))
	assert.Assert(t, strings.Contains(stdout, "PRICE\n"))
}

func TestRun_Console(t *testing.T) {
	cleanEnv(t)

	code, stdout, stderr := runArgs(t, "-s", "id:INT_INC,name:NAME", "-r", "3")

	assert.Equal(t, code, exitOK, stderr)
	got := lines(stdout)
	assert.Equal(t, len(got), 4)
	assert.Equal(t, got[0], "id,name")
	assert.Assert(t, strings.HasPrefix(got[1], "0,"))
	assert.Assert(t, strings.HasPrefix(got[3], "2,"))
}

func TestRun_DefaultSchemaNoHeader(t *testing.T) {
	cleanEnv(t)

	code, stdout, _ := runArgs(t, "-rows", "2", "-no-header", "-d", "|")

	assert.Equal(t, code, exitOK)
	got := lines(stdout)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, strings.Count(got[0], "|"), 3)
}

func TestRun_Delete(t *testing.T) {
	cleanEnv(t)

	code, stdout, stderr := runArgs(t, "-s", "id:INT_INC", "-r", "5", "-x", "1-3")

	assert.Equal(t, code, exitOK, stderr)
	assert.DeepEqual(t, lines(stdout), []string{"id", "0", "4"})
}

func TestRun_CSVFileThenAppend(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "people.csv")

	code, _, stderr := runArgs(t, "-s", "id:INT_INC,name:NAME", "-r", "2", "-o", "csv", "-f", path)
	assert.Equal(t, code, exitOK, stderr)

	out := filepath.Join(t.TempDir(), "merged.csv")
	code, _, stderr = runArgs(t, "-s", "id:INT_INC,name:NAME", "-r", "3", "-a", path, "-o", "csv", "-f", out)
	assert.Equal(t, code, exitOK, stderr)

	data, err := os.ReadFile(out)
	assert.NilError(t, err)
	got := lines(string(data))
	assert.Equal(t, len(got), 6)
	assert.Equal(t, got[0], "id,name")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"unknown flag", []string{"-bogus"}, exitUsage, "bogus"},
		{"stray argument", []string{"extra"}, exitUsage, "unexpected arguments"},
		{"two modes", []string{"-types", "-serve"}, exitUsage, "mutually exclusive"},
		{"bad delimiter", []string{"-d", ";;"}, exitUsage, "delimiter"},
		{"negative rows", []string{"-r", "-1"}, exitUsage, "-rows"},
		{"unknown output", []string{"-o", "xml"}, exitUsage, "xml"},
		{"csv without file", []string{"-o", "csv", "-f", ""}, exitUsage, "file path"},
		{"empty schema", []string{"-s", "nocolon"}, exitError, "SCH001"},
		{"explicit blank schema", []string{"-schema", "", "-rows", "2"}, exitError, "SCH001"},
		{"bad delete", []string{"-x", "first"}, exitError, "DEL001"},
		{"missing append target", []string{"-a", "/does/not/exist.csv"}, exitError, "FILE001"},
		{"pg append without database", []string{"-a", "pg:people"}, exitError, "DB001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)

			code, _, stderr := runArgs(t, tt.args...)

			assert.Equal(t, code, tt.wantCode, stderr)
			assert.Assert(t, strings.Contains(stderr, tt.wantStderr), "stderr: %s", stderr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	cleanEnv(t)

	code, _, stderr := runArgs(t, "-h")

	assert.Equal(t, code, exitOK)
	assert.Assert(t, strings.Contains(stderr, "Usage: gencsv"))
}

func TestRun_AppendTSV(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "people.tsv")
	assert.NilError(t, os.WriteFile(path, []byte("id\tname\n9\tbob\n"), 0o644))

	code, stdout, stderr := runArgs(t, "-s", "id:INT_INC,name:NAME", "-r", "1", "-a", path)

	assert.Equal(t, code, exitOK, stderr)
	got := lines(stdout)
	assert.Equal(t, len(got), 3)
	assert.Equal(t, got[0], "id,name")
	assert.Equal(t, got[1], "9,bob")
}

func TestParseFlags_ExplicitlySet(t *testing.T) {
	cfg := &config.Config{Generate: config.GenerateConfig{Delimiter: ","}}

	tests := []struct {
		name          string
		args          []string
		wantSchema    bool
		wantDelimiter rune
	}{
		{"neither", nil, false, 0},
		{"blank schema", []string{"-schema", ""}, true, 0},
		{"short schema", []string{"-s", "a:INT"}, true, 0},
		{"delimiter", []string{"-d", ";"}, false, ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args, cfg, &bytes.Buffer{})
			assert.NilError(t, err)
			assert.Equal(t, o.schemaSet, tt.wantSchema)
			assert.Equal(t, o.loadDelimiter(), tt.wantDelimiter)
		})
	}
}

func TestParseFlags_DefaultsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Generate: config.GenerateConfig{Rows: 42, Delimiter: "\t", NoHeader: true, Parallel: true},
		Output:   config.OutputConfig{Kind: "parquet", Path: "out.parquet"},
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8080},
	}

	o, err := parseFlags(nil, cfg, &bytes.Buffer{})
	assert.NilError(t, err)
	assert.Equal(t, o.rows, 42)
	assert.Equal(t, o.delimiterRune(), '\t')
	assert.Equal(t, o.noHeader, true)
	assert.Equal(t, o.parallel, true)
	assert.Equal(t, o.output, "parquet")
	assert.Equal(t, o.file, "out.parquet")

	o, err = parseFlags([]string{"-rows", "7", "-o", "console"}, cfg, &bytes.Buffer{})
	assert.NilError(t, err)
	assert.Equal(t, o.rows, 7)
	assert.Equal(t, o.output, "console")
}

func TestNeedsDatabase(t *testing.T) {
	tests := []struct {
		opts options
		want bool
	}{
		{options{output: "console"}, false},
		{options{output: "postgres"}, true},
		{options{output: "csv", appendTo: "pg:people"}, true},
		{options{output: "csv", appendTo: "people.csv"}, false},
		{options{serve: true, output: "postgres"}, false},
		{options{preview: true, appendTo: "pg:people"}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, needsDatabase(tt.opts), tt.want, "%+v", tt.opts)
	}
}
