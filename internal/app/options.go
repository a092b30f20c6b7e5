package service

import (
	"time"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/adapters/sequence"
	"github.com/okian/pitchside/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of team-chart workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the team-chart queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects an already opened store. The caller keeps ownership:
// Stop leaves it open so the service can be started again.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStoreDriver selects the store opened by Start when none is injected.
func WithStoreDriver(driver, dsn string) Option {
	return func(s *Service) {
		s.storeDriver = driver
		s.storeDSN = dsn
	}
}

// WithSequencer injects the request-sequence guard. Like WithStore, the
// caller closes it.
func WithSequencer(seq sequence.Sequencer) Option {
	return func(s *Service) {
		if seq != nil {
			s.sequencer = seq
		}
	}
}

// WithSequencerKind selects the sequencer built by Start: "memory" or
// "redis" at redisAddr.
func WithSequencerKind(kind, redisAddr string) Option {
	return func(s *Service) {
		s.sequencerKind = kind
		s.redisAddr = redisAddr
	}
}

// WithSequenceTTL sets how long the redis sequencer remembers a view.
func WithSequenceTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sequenceTTL = ttl
		}
	}
}

// WithPostgresMaxConns caps the postgres pool opened by Start.
func WithPostgresMaxConns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConns = int32(n)
		}
	}
}

// WithConnectTimeout bounds the store connect and ping done by Start.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.connTimeout = d
		}
	}
}

// WithLocation fixes the calendar-date policy for periods and quarters.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides the source of "now".
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithChartRadius sets the outer radius of laid-out charts.
func WithChartRadius(radius float64) Option {
	return func(s *Service) {
		if radius > 0 {
			s.radius = radius
		}
	}
}

// WithLegendMaxScale sets the ceiling legend bars are measured against.
func WithLegendMaxScale(maxScale float64) Option {
	return func(s *Service) {
		if maxScale > 0 {
			s.maxScale = maxScale
		}
	}
}
