package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/config"
	"github.com/JonMunkholm/gencsv/internal/output"
)

// errUsage marks errors that should exit with status 2.
var errUsage = errors.New("usage")

// options are the command-line settings for one run. Defaults come from config.
type options struct {
	schema    string
	rows      int
	delimiter string
	noHeader  bool
	output    string
	file      string
	appendTo  string
	deleteExp string
	parallel  bool

	types   bool
	preview bool
	serve   bool

	// Set when the flag appeared on the command line, even with an empty value.
	schemaSet    bool
	delimiterSet bool
}

// parseFlags reads args on top of cfg. Every long flag has a one-letter alias
// where one is commonly used.
func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	o := options{
		rows:      cfg.Generate.Rows,
		delimiter: cfg.Generate.Delimiter,
		noHeader:  cfg.Generate.NoHeader,
		output:    cfg.Output.Kind,
		file:      cfg.Output.Path,
		parallel:  cfg.Generate.Parallel,
	}

	fs := flag.NewFlagSet("gencsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: gencsv [flags]\n\nGenerates a synthetic table from a name:TYPE[:modifier] schema.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	stringFlag(fs, &o.schema, "schema", "s", "", "column schema, e.g. id:INT_INC,name:NAME,amount:INT_RNG:(-10-10)")
	intFlag(fs, &o.rows, "rows", "r", o.rows, "number of rows to generate")
	stringFlag(fs, &o.delimiter, "delimiter", "d", o.delimiter, "field delimiter for delimited output")
	boolFlag(fs, &o.noHeader, "no-header", "n", o.noHeader, "omit the header row")
	stringFlag(fs, &o.output, "output", "o", o.output, "output sink: "+strings.Join(output.Kinds(), "|"))
	stringFlag(fs, &o.file, "file", "f", o.file, "output file for csv and parquet sinks")
	stringFlag(fs, &o.appendTo, "append", "a", "", "append generated rows to this table (file path or pg:<table>)")
	stringFlag(fs, &o.deleteExp, "delete", "x", "", "rows to delete: N, N,M,..., LO-HI or random")
	fs.BoolVar(&o.parallel, "parallel", o.parallel, "build columns concurrently")
	fs.BoolVar(&o.types, "types", false, "list the recognised column types and exit")
	fs.BoolVar(&o.preview, "preview", false, "show the table in an interactive terminal preview")
	fs.BoolVar(&o.serve, "serve", false, "serve the HTTP API on "+cfg.Server.Addr())

	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema", "s":
			o.schemaSet = true
		case "delimiter", "d":
			o.delimiterSet = true
		}
	})

	return o, o.validate()
}

func (o options) validate() error {
	modes := 0
	for _, on := range []bool{o.types, o.preview, o.serve} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("%w: -types, -preview and -serve are mutually exclusive", errUsage)
	}
	if o.rows < 0 {
		return fmt.Errorf("%w: -rows must be non-negative", errUsage)
	}
	if err := config.ValidateDelimiter(o.delimiter); err != nil {
		return fmt.Errorf("%w: -delimiter %w", errUsage, err)
	}
	return nil
}

func (o options) delimiterRune() rune {
	return []rune(o.delimiter)[0]
}

// loadDelimiter is the delimiter for reading an append target. Zero lets the
// loader pick one from the file extension.
func (o options) loadDelimiter() rune {
	if !o.delimiterSet {
		return 0
	}
	return o.delimiterRune()
}

func stringFlag(fs *flag.FlagSet, p *string, name, short, value, usage string) {
	fs.StringVar(p, name, value, usage)
	fs.StringVar(p, short, value, "shorthand for -"+name)
}

func intFlag(fs *flag.FlagSet, p *int, name, short string, value int, usage string) {
	fs.IntVar(p, name, value, usage)
	fs.IntVar(p, short, value, "shorthand for -"+name)
}

func boolFlag(fs *flag.FlagSet, p *bool, name, short string, value bool, usage string) {
	fs.BoolVar(p, name, value, usage)
	fs.BoolVar(p, short, value, "shorthand for -"+name)
}
