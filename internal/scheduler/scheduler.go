// Package scheduler runs the periodic jobs that refresh runtime and service
// gauges.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// DefaultInterval is how often gauges are refreshed when no interval is set.
const DefaultInterval = 10 * time.Second

// StatsSource exposes service statistics. Reading them refreshes the
// service's own gauges.
type StatsSource interface {
	GetStats() map[string]interface{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the refresh interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler manages the gauge refresh jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	stats     StatsSource
	interval  time.Duration
	logger    logger.Logger
}

// New creates a scheduler. stats may be nil, in which case only runtime
// gauges are refreshed.
func New(stats StatsSource, opts ...Option) *Scheduler {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		stats:     stats,
		interval:  DefaultInterval,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scheduler.SingletonModeAll()
	return s
}

// Start registers the jobs and runs them in the background. Every job runs
// once immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Tag("runtime").Do(RefreshRuntimeGauges); err != nil {
		return fmt.Errorf("schedule runtime gauges: %w", err)
	}
	if s.stats != nil {
		if _, err := s.scheduler.Every(s.interval).Tag("service").Do(s.refreshServiceGauges); err != nil {
			return fmt.Errorf("schedule service gauges: %w", err)
		}
	}
	s.scheduler.StartAsync()
	s.logger.Info(context.Background(), "scheduler started",
		logger.Duration("interval", s.interval),
		logger.Int("jobs", len(s.scheduler.Jobs())),
	)
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.scheduler.Clear()
}

// Running reports whether the scheduler has been started and not stopped.
func (s *Scheduler) Running() bool {
	return s.scheduler.IsRunning()
}

func (s *Scheduler) refreshServiceGauges() {
	stats := s.stats.GetStats()
	if started, _ := stats["started"].(bool); !started {
		s.logger.Debug(context.Background(), "service not started; skipping service gauges")
		return
	}
	if n, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(n)
	}
}

// RefreshRuntimeGauges samples heap usage and goroutine count.
func RefreshRuntimeGauges() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
