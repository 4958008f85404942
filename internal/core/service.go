package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/gencsv/internal/logging"
	"github.com/JonMunkholm/gencsv/internal/schema"
	"github.com/JonMunkholm/gencsv/internal/table"
)

var (
	// ErrSchema is returned when a schema yields no usable columns.
	ErrSchema = errors.New("schema has no valid columns")

	// ErrRowLimit is returned for a negative row count or one above the configured maximum.
	ErrRowLimit = errors.New("row count out of range")

	// ErrNoLoader is returned when an append target is requested but no loader is configured.
	ErrNoLoader = errors.New("no loader configured for append target")

	// ErrInvalidParam is returned for a malformed request parameter such as a
	// non-numeric row count or an unknown output format.
	ErrInvalidParam = errors.New("invalid parameter")
)

// DefaultMaxRows bounds a single generation when no limit is configured.
const DefaultMaxRows = 1_000_000

// Request describes one generation run.
type Request struct {
	Schema        string
	DefaultSchema bool // ignore Schema and use schema.DefaultSpecs
	Rows          int
	AppendTarget  string // path of a table to append the generated rows to
	DeleteTarget  string // delete expression applied last
}

// Service runs the generation pipeline: parse, build, append, delete.
type Service struct {
	builder *Builder
	loader  Loader
	maxRows int
}

// NewService creates a Service. loader may be nil when appending is not needed.
func NewService(builder *Builder, loader Loader, maxRows int) *Service {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Service{builder: builder, loader: loader, maxRows: maxRows}
}

// MaxRows returns the largest accepted row count.
func (s *Service) MaxRows() int { return s.maxRows }

// Generate runs the pipeline and returns the final table.
// Every failure is returned before any table is produced.
func (s *Service) Generate(ctx context.Context, req Request) (*table.Table, error) {
	if req.Rows < 0 || req.Rows > s.maxRows {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrRowLimit, req.Rows, s.maxRows)
	}

	specs := schema.DefaultSpecs()
	if !req.DefaultSchema {
		specs = schema.Parse(req.Schema)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrSchema, req.Schema)
	}

	// Parse before generating so a bad expression fails fast.
	var target DeleteTarget
	if req.DeleteTarget != "" {
		var err error
		if target, err = ParseDeleteTarget(req.DeleteTarget); err != nil {
			return nil, err
		}
	}

	log := logging.WithFields(ctx, "schema_columns", len(specs), "requested_rows", req.Rows)

	start := time.Now()
	t, err := s.builder.Build(ctx, specs, req.Rows)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	log.Debug("table built",
		"columns", t.Width(),
		"rows", t.Height(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if req.AppendTarget != "" {
		if t, err = s.appendTo(ctx, req.AppendTarget, t); err != nil {
			return nil, err
		}
	}

	if target != nil {
		removed := target.Resolve(t.Height())
		before := t.Height()
		t = Filter(t, removed)
		log.Debug("rows deleted",
			"expression", req.DeleteTarget,
			"targeted", removed.Len(),
			"removed", before-t.Height(),
			"remaining", t.Height(),
		)
	}

	return t, nil
}

func (s *Service) appendTo(ctx context.Context, path string, generated *table.Table) (*table.Table, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, path)
	}

	existing, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load append target %s: %w", path, err)
	}

	merged, err := Append(existing, generated)
	if err != nil {
		return nil, fmt.Errorf("append to %s: %w", path, err)
	}
	return merged, nil
}

// Run generates a table and hands it to out exactly once.
// out is not called when generation fails.
func (s *Service) Run(ctx context.Context, req Request, out Output) error {
	t, err := s.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := out.Write(ctx, t); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
