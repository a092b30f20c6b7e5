package repository

import (
	"time"

	"github.com/okian/pitchside/pkg/logger"
)

// config is shared by every store implementation.
type config struct {
	location       *time.Location
	logger         logger.Logger
	maxConns       int32
	connectTimeout time.Duration
}

func defaultConfig() config {
	return config{
		location:       time.Local,
		logger:         logger.Nop(),
		maxConns:       10,
		connectTimeout: 10 * time.Second,
	}
}

// Option applies a configuration option to a store.
type Option func(*config)

// WithLocation sets the location used to derive a transaction's quarter
// when it is written without one.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxConns caps the postgres pool size.
func WithMaxConns(n int32) Option {
	return func(c *config) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithConnectTimeout bounds the initial connect and ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
