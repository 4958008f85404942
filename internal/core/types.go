package core

import (
	"context"

	"github.com/JonMunkholm/gencsv/internal/table"
)

// Output receives the final table of a run. It is called exactly once per
// successful run and never on failure.
type Output interface {
	Write(ctx context.Context, t *table.Table) error
}

// Loader reads a previously persisted table to append generated rows to.
type Loader interface {
	Load(ctx context.Context, path string) (*table.Table, error)
}

// OutputFunc adapts a function to Output.
type OutputFunc func(ctx context.Context, t *table.Table) error

// Write implements Output.
func (f OutputFunc) Write(ctx context.Context, t *table.Table) error { return f(ctx, t) }

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (*table.Table, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, path string) (*table.Table, error) { return f(ctx, path) }
