// Package config loads gencsv settings from environment variables.
// Every field has a default, so an empty environment is a valid setup;
// command-line flags override individual values for a single run.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Generate GenerateConfig
	Output   OutputConfig
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// GenerateConfig controls table generation.
type GenerateConfig struct {
	// Rows is the default number of rows to generate (default: 10)
	Rows int `env:"GENCSV_ROWS" default:"10"`

	// Delimiter separates fields in delimited output; exactly one character (default: ",")
	Delimiter string `env:"GENCSV_DELIMITER" default:","`

	// NoHeader omits the header row from delimited output (default: false)
	NoHeader bool `env:"GENCSV_NO_HEADER" default:"false"`

	// Parallel builds columns concurrently (default: false)
	Parallel bool `env:"GENCSV_PARALLEL" default:"false"`

	// MaxRows caps a single generation (default: 1000000)
	MaxRows int `env:"GENCSV_MAX_ROWS" default:"1000000"`
}

// OutputConfig selects where generated tables go.
type OutputConfig struct {
	// Kind is console, csv, parquet or postgres (default: console)
	Kind string `env:"GENCSV_OUTPUT" default:"console"`

	// Path is the target file for csv and parquet output
	Path string `env:"GENCSV_OUTPUT_PATH"`

	// Table is the target table for postgres output (default: generated)
	Table string `env:"GENCSV_PG_TABLE" default:"generated"`
}

// DatabaseConfig holds database connection settings.
// The database is optional and only needed for postgres output or pg: append targets.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ServerConfig holds HTTP settings for serve mode.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`

	// MaxConcurrent is the number of generations served at once (default: 4)
	MaxConcurrent int `env:"SERVER_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a generation slot (default: 5s)
	MaxWaitTime time.Duration `env:"SERVER_MAX_WAIT_TIME" default:"5s"`

	// MaxRows caps rows per HTTP request (default: 10000)
	MaxRows int `env:"SERVER_MAX_ROWS" default:"10000"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// SeqURL ships logs to a Seq server as well when set
	SeqURL string `env:"SEQ_URL"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DelimiterRune returns the configured delimiter as a rune.
// Validate guarantees it is a single character.
func (c *GenerateConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
