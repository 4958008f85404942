package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Load reads configuration from environment variables, applies defaults for
// unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := fromEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// fromEnv fills the tagged fields of the struct v, descending into nested
// section structs. A field reads its env tag, then envAlt, then default;
// fields left empty keep their zero value.
func fromEnv(v reflect.Value) error {
	for i := range v.NumField() {
		field, sf := v.Field(i), v.Type().Field(i)
		if !field.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := fromEnv(field); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw := envValue(sf.Tag)
		if raw == "" {
			continue
		}
		if err := parseInto(field, raw); err != nil {
			return fmt.Errorf("%s=%q: %w", name, raw, err)
		}
	}
	return nil
}

func envValue(tag reflect.StructTag) string {
	for _, key := range []string{"env", "envAlt"} {
		if name := tag.Get(key); name != "" {
			if v := os.Getenv(name); v != "" {
				return v
			}
		}
	}
	return tag.Get("default")
}

// parseInto stores raw in field. Durations use time.ParseDuration syntax
// such as "15s" or "1h".
func parseInto(field reflect.Value, raw string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	case field.Kind() == reflect.String:
		field.SetString(raw)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Generation
	if c.Generate.Rows < 0 {
		errs = append(errs, fmt.Sprintf("GENCSV_ROWS (%d) must be non-negative", c.Generate.Rows))
	}
	if c.Generate.MaxRows <= 0 {
		errs = append(errs, "GENCSV_MAX_ROWS must be positive")
	}
	if c.Generate.Rows > c.Generate.MaxRows {
		errs = append(errs, fmt.Sprintf("GENCSV_ROWS (%d) must be <= GENCSV_MAX_ROWS (%d)",
			c.Generate.Rows, c.Generate.MaxRows))
	}
	if err := ValidateDelimiter(c.Generate.Delimiter); err != nil {
		errs = append(errs, "GENCSV_DELIMITER "+err.Error())
	}

	// Output
	switch strings.ToLower(c.Output.Kind) {
	case "console":
	case "csv", "parquet":
		if c.Output.Path == "" {
			errs = append(errs, fmt.Sprintf("GENCSV_OUTPUT_PATH is required for %s output", c.Output.Kind))
		}
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required for postgres output")
		}
		if c.Output.Table == "" {
			errs = append(errs, "GENCSV_PG_TABLE is required for postgres output")
		}
	default:
		errs = append(errs, fmt.Sprintf("GENCSV_OUTPUT (%q) must be one of: console, csv, parquet, postgres", c.Output.Kind))
	}

	// Database
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxConcurrent <= 0 {
		errs = append(errs, "SERVER_MAX_CONCURRENT must be positive")
	}
	if c.Server.MaxWaitTime <= 0 {
		errs = append(errs, "SERVER_MAX_WAIT_TIME must be positive")
	}
	if c.Server.MaxRows <= 0 {
		errs = append(errs, "SERVER_MAX_ROWS must be positive")
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// ValidateDelimiter reports whether d can separate CSV fields: exactly one
// character that is not a quote, carriage return or newline.
func ValidateDelimiter(d string) error {
	if utf8.RuneCountInString(d) != 1 {
		return fmt.Errorf("(%q) must be exactly one character", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("(%q) cannot be a quote, newline or invalid character", d)
	}
	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	dbURL := ""
	if c.Database.URL != "" {
		dbURL = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Generate: {Rows: %d, Delimiter: %q, NoHeader: %v, Parallel: %v, MaxRows: %d}, ",
		c.Generate.Rows, c.Generate.Delimiter, c.Generate.NoHeader, c.Generate.Parallel, c.Generate.MaxRows)
	fmt.Fprintf(&b, "Output: {Kind: %q, Path: %q, Table: %q}, ", c.Output.Kind, c.Output.Path, c.Output.Table)
	fmt.Fprintf(&b, "Database: {URL: %s, MaxConns: %d, MinConns: %d}, ", dbURL, c.Database.MaxConns, c.Database.MinConns)
	fmt.Fprintf(&b, "Server: {Addr: %q, MaxConcurrent: %d}, ", c.Server.Addr(), c.Server.MaxConcurrent)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q, Seq: %v}", c.Logging.Level, c.Logging.Format, c.Logging.SeqURL != "")
	b.WriteString("}")
	return b.String()
}
