// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PITCHSIDE_* env vars.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/pitchside/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Timezone is the IANA zone calendar dates are read in, for both the
	// curriculum period and the quarter.
	Timezone string `koanf:"timezone"`

	// StoreDriver selects the event store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`
	SQLitePath  string `koanf:"sqlite_path"`
	DatabaseURL string `koanf:"database_url"`

	// PostgresMaxConns caps the postgres pool size.
	PostgresMaxConns int `koanf:"postgres_max_conns"`

	// ConnectTimeoutSeconds bounds the initial store connect and ping.
	ConnectTimeoutSeconds int `koanf:"connect_timeout_seconds"`

	// Sequencer selects the request-sequence backend: memory or redis.
	Sequencer string `koanf:"sequencer"`
	RedisAddr string `koanf:"redis_addr"`

	// SequenceTTLSeconds is how long the redis sequencer remembers a view.
	SequenceTTLSeconds int `koanf:"sequence_ttl_seconds"`

	// LegendMaxScale is the score a full legend bar represents.
	LegendMaxScale float64 `koanf:"legend_max_scale"`

	// ChartRadius is the radar radius in layout units.
	ChartRadius float64 `koanf:"chart_radius"`

	// WorkerCount sets the number of team chart workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the team chart job queue.
	QueueSize int `koanf:"queue_size"`

	MetricsIntervalSeconds int `koanf:"metrics_interval_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		Timezone:               "Local",
		StoreDriver:            repository.DriverMemory,
		SQLitePath:             "pitchside.db",
		PostgresMaxConns:       10,
		ConnectTimeoutSeconds:  10,
		Sequencer:              "memory",
		RedisAddr:              "localhost:6379",
		SequenceTTLSeconds:     600,
		LegendMaxScale:         10,
		ChartRadius:            100,
		WorkerCount:            runtime.NumCPU(),
		QueueSize:              1024,
		MetricsIntervalSeconds: 10,
	}
}

// Location loads Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// StoreDSN returns the data source for the selected store driver.
func (c *Config) StoreDSN() string {
	switch c.StoreDriver {
	case repository.DriverSQLite:
		return c.SQLitePath
	case repository.DriverPostgres:
		return c.DatabaseURL
	default:
		return ""
	}
}

// MetricsInterval is MetricsIntervalSeconds as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalSeconds) * time.Second
}

// ConnectTimeout is ConnectTimeoutSeconds as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// SequenceTTL is SequenceTTLSeconds as a duration.
func (c *Config) SequenceTTL() time.Duration {
	return time.Duration(c.SequenceTTLSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LegendMaxScale <= 0:
		return fmt.Errorf("%w: legend_max_scale must be positive, got %v", ErrInvalidConfig, c.LegendMaxScale)
	case c.ChartRadius <= 0:
		return fmt.Errorf("%w: chart_radius must be positive, got %v", ErrInvalidConfig, c.ChartRadius)
	case c.MetricsIntervalSeconds <= 0:
		return fmt.Errorf("%w: metrics_interval_seconds must be positive, got %d", ErrInvalidConfig, c.MetricsIntervalSeconds)
	case c.PostgresMaxConns <= 0:
		return fmt.Errorf("%w: postgres_max_conns must be positive, got %d", ErrInvalidConfig, c.PostgresMaxConns)
	case c.ConnectTimeoutSeconds <= 0:
		return fmt.Errorf("%w: connect_timeout_seconds must be positive, got %d", ErrInvalidConfig, c.ConnectTimeoutSeconds)
	case c.SequenceTTLSeconds <= 0:
		return fmt.Errorf("%w: sequence_ttl_seconds must be positive, got %d", ErrInvalidConfig, c.SequenceTTLSeconds)
	}

	switch c.StoreDriver {
	case repository.DriverMemory:
	case repository.DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	case repository.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}

	switch c.Sequencer {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis sequencer", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown sequencer %q", ErrInvalidConfig, c.Sequencer)
	}

	_, err := c.Location()
	return err
}
