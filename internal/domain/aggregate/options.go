package aggregate

import (
	"time"

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithLocation fixes the calendar-date policy for periods and quarters.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.resolver = curriculum.NewResolver(loc)
		}
	}
}

// WithClock overrides the source of "now" used to derive the current quarter.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithLogger sets the aggregator logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records on m instead of the default manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithClassifier replaces the strategy for one pillar.
func WithClassifier(c Classifier) Option {
	return func(a *Aggregator) {
		if c != nil && c.Pillar().Valid() {
			a.overrides[c.Pillar()] = c
		}
	}
}

// WithParallelReads toggles concurrent transaction and progress reads.
func WithParallelReads(enabled bool) Option {
	return func(a *Aggregator) {
		a.parallel = enabled
	}
}
