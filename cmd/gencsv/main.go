// Command gencsv generates synthetic tables from a column schema and writes
// them to the console, a CSV or Parquet file, or a Postgres table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/gencsv/internal/application"
	"github.com/JonMunkholm/gencsv/internal/config"
	"github.com/JonMunkholm/gencsv/internal/core"
	"github.com/JonMunkholm/gencsv/internal/generator"
	"github.com/JonMunkholm/gencsv/internal/loader"
	"github.com/JonMunkholm/gencsv/internal/logging"
	"github.com/JonMunkholm/gencsv/internal/output"
	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/JonMunkholm/gencsv/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "gencsv: %v\n", err)
		return exitUsage
	}

	cleanup := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)
	defer cleanup()

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "gencsv: %v\n", err)
		return exitUsage
	}

	registry := generator.Default()
	if opts.types {
		for _, tag := range registry.Tags() {
			fmt.Fprintln(stdout, tag)
		}
		return exitOK
	}

	var pool *pgxpool.Pool
	if needsDatabase(opts) {
		pool, err = openPool(ctx, cfg.Database)
		if err != nil {
			fmt.Fprintf(stderr, "gencsv: %s\n", core.FormatUserError(err))
			slog.Error("database unavailable", "error", err)
			return exitError
		}
		defer pool.Close()
	}

	auto := &loader.Auto{CSV: loader.CSVFile{Delimiter: opts.loadDelimiter()}}
	if pool != nil {
		auto.Postgres = &loader.Postgres{DB: pool}
	}

	builder := core.NewBuilder(registry, core.WithParallel(opts.parallel))
	service := core.NewService(builder, auto, cfg.Generate.MaxRows)

	req := core.Request{
		Schema:        opts.schema,
		DefaultSchema: !opts.schemaSet,
		Rows:          opts.rows,
		AppendTarget:  opts.appendTo,
		DeleteTarget:  opts.deleteExp,
	}

	switch {
	case opts.serve:
		err = serve(ctx, service, registry, cfg.Server)
	case opts.preview:
		err = application.Run(ctx, func(ctx context.Context) (*table.Table, error) {
			return service.Generate(ctx, req)
		})
	default:
		var out core.Output
		out, err = newOutput(opts, cfg, pool, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "gencsv: %v\n", err)
			return exitUsage
		}
		err = service.Run(ctx, req, out)
	}

	if err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintf(stderr, "gencsv: %s\n", core.FormatUserError(err))
		return exitError
	}
	return exitOK
}

func needsDatabase(opts options) bool {
	if opts.serve || opts.preview {
		return strings.HasPrefix(opts.appendTo, loader.PostgresPrefix)
	}
	return strings.EqualFold(opts.output, output.KindPostgres) ||
		strings.HasPrefix(opts.appendTo, loader.PostgresPrefix)
}

func newOutput(opts options, cfg *config.Config, pool *pgxpool.Pool, stdout io.Writer) (core.Output, error) {
	o := output.Options{
		Writer:    stdout,
		Path:      opts.file,
		Delimiter: opts.delimiterRune(),
		NoHeader:  opts.noHeader,
		Table:     cfg.Output.Table,
	}
	// A nil *pgxpool.Pool must not become a non-nil CopyDB.
	if pool != nil {
		o.DB = pool
	}
	return output.New(opts.output, o)
}

// openPool connects to Postgres with the configured pool limits.
func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set: %w", loader.ErrNoDatabase)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, service *core.Service, registry *generator.Registry, cfg config.ServerConfig) error {
	server := web.NewServer(service, registry, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
