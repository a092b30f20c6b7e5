// Package service wires the store, aggregator, radar layout, sequence guard
// and team-chart workers behind the operations the HTTP API and CLI use.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	chartqueue "github.com/okian/pitchside/internal/adapters/mq/queue"
	workerpool "github.com/okian/pitchside/internal/adapters/mq/worker"
	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/adapters/sequence"
	"github.com/okian/pitchside/internal/domain/aggregate"
	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// enqueueRetryDelay is the wait before re-offering a job to a queue filled
// by other callers.
const enqueueRetryDelay = 5 * time.Millisecond

// Sequencer kinds.
const (
	SequencerMemory = "memory"
	SequencerRedis  = "redis"
)

// PointsSummary is a player's active points for one quarter.
type PointsSummary struct {
	PlayerID     string             `json:"player_id"`
	Quarter      curriculum.Quarter `json:"quarter"`
	Total        float64            `json:"total"`
	Transactions int                `json:"transactions"`
}

// Service owns every component needed to build charts.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	sequencer  sequence.Sequencer
	aggregator *aggregate.Aggregator
	layout     *radar.Layout
	queue      chartqueue.Queue
	pool       *workerpool.Pool

	workerCount   int
	queueSize     int
	storeDriver   string
	storeDSN      string
	sequencerKind string
	redisAddr     string
	sequenceTTL   time.Duration
	maxConns      int32
	connTimeout   time.Duration
	location      *time.Location
	clock         func() time.Time
	radius        float64
	maxScale      float64

	started       bool
	ownsStore     bool
	ownsSequencer bool
	cancel        context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Nothing is opened until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     1024,
		storeDriver:   repository.DriverMemory,
		sequencerKind: SequencerMemory,
		location:      time.Local,
		clock:         time.Now,
		radius:        radar.DefaultRadius,
		maxScale:      radar.DefaultMaxScale,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and sequencer when they were not injected and
// starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting spider service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.storeDriver, s.storeDSN,
			repository.WithLocation(s.location),
			repository.WithLogger(s.logger.Named("repository")),
			repository.WithMaxConns(s.maxConns),
			repository.WithConnectTimeout(s.connTimeout),
		)
		if err != nil {
			return fmt.Errorf("open %s store: %w", s.storeDriver, err)
		}
		s.store, s.ownsStore = store, true
	}

	if s.sequencer == nil {
		seq, err := s.openSequencer(ctx)
		if err != nil {
			s.abortStart()
			return err
		}
		s.sequencer, s.ownsSequencer = seq, true
	}

	agg, err := aggregate.New(s.store,
		aggregate.WithLocation(s.location),
		aggregate.WithClock(s.clock),
		aggregate.WithLogger(s.logger.Named("aggregate")),
	)
	if err != nil {
		s.abortStart()
		return fmt.Errorf("build aggregator: %w", err)
	}
	s.aggregator = agg
	s.layout = radar.NewLayout(radar.WithRadius(s.radius), radar.WithMaxScale(s.maxScale))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = chartqueue.NewInMemoryQueue(chartqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s.logger)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "spider service started",
		logger.String("store", s.storeDriver),
		logger.String("sequencer", s.sequencerKind),
		logger.String("timezone", s.location.String()),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Float64("legendMaxScale", s.maxScale),
	)
	return nil
}

func (s *Service) openSequencer(ctx context.Context) (sequence.Sequencer, error) {
	switch s.sequencerKind {
	case "", SequencerMemory:
		return sequence.NewMemory(), nil
	case SequencerRedis:
		client := redis.NewClient(&redis.Options{Addr: s.redisAddr})
		seq := sequence.NewRedis(client, sequence.WithTTL(s.sequenceTTL))
		if err := seq.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", s.redisAddr, err)
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeq, s.sequencerKind)
	}
}

// Stop drains the worker pool and closes the store and sequencer Start
// opened. Injected components stay open and are reused by a later Start.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool, cancel := s.pool, s.cancel
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping spider service...")

	// workers call back into the service, so the lock is not held here
	if pool != nil {
		if err := pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}
	if cancel != nil {
		cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if closer, ok := s.sequencer.(interface{ Close() error }); ok && s.ownsSequencer {
		if err := closer.Close(); err != nil {
			s.logger.Warn(ctx, "close sequencer", logger.Error(err))
		}
	}
	if s.store != nil && s.ownsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "close store", logger.Error(err))
		}
	}
	s.forgetOwned()
	s.logger.Info(ctx, "spider service stopped")
}

// forgetOwned drops the components Start opened so a restart reopens
// them. Callers hold s.mu.
func (s *Service) forgetOwned() {
	if s.ownsStore {
		s.store, s.ownsStore = nil, false
	}
	if s.ownsSequencer {
		s.sequencer, s.ownsSequencer = nil, false
	}
}

// abortStart closes what a failed Start opened.
func (s *Service) abortStart() {
	if s.ownsStore && s.store != nil {
		_ = s.store.Close()
	}
	if closer, ok := s.sequencer.(interface{ Close() error }); ok && s.ownsSequencer {
		_ = closer.Close()
	}
	s.forgetOwned()
}

func (s *Service) components() (*aggregate.Aggregator, *radar.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.aggregator, s.layout, nil
}

// BuildChart aggregates and lays out pillar p for playerID in the current
// quarter. An unsupported pillar yields a chart with no axes.
func (s *Service) BuildChart(ctx context.Context, playerID string, p pillar.Pillar) (radar.Chart, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return radar.Chart{}, ErrInvalidPlayer
	}
	agg, layout, err := s.components()
	if err != nil {
		return radar.Chart{}, err
	}

	res := agg.AggregateCurrent(ctx, playerID, p)
	axes := p.Axes()
	chart := layout.Build(axes, radar.Normalize(res.Counts, axes))
	chart.Pillar = p
	chart.PlayerID = playerID
	chart.Quarter = res.Window.Quarter
	chart.Unclassified = res.Unclassified

	metrics.RecordChartRendered(p.String(), chart.Renderable)
	return chart, nil
}

// Chart builds a chart for a UI view. A newer request for the same view
// cancels this one and makes it return sequence.ErrStale. An empty view
// skips sequencing.
func (s *Service) Chart(ctx context.Context, view, playerID string, p pillar.Pillar) (radar.Chart, error) {
	if view == "" {
		return s.BuildChart(ctx, playerID, p)
	}
	s.mu.RLock()
	seq := s.sequencer
	s.mu.RUnlock()
	if seq == nil {
		return radar.Chart{}, ErrNotStarted
	}

	chart, err := sequence.Guard(ctx, seq, view, func(ctx context.Context) (radar.Chart, error) {
		return s.BuildChart(ctx, playerID, p)
	})
	if errors.Is(err, sequence.ErrStale) {
		metrics.RecordStaleResult()
		s.logger.Debug(ctx, "stale chart dropped",
			logger.String("view", view),
			logger.String("player_id", playerID),
			logger.String("pillar", p.String()),
		)
	}
	return chart, err
}

// PointsSummary totals playerID's active points for the quarter containing now.
func (s *Service) PointsSummary(ctx context.Context, playerID string, now time.Time) (PointsSummary, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PointsSummary{}, ErrInvalidPlayer
	}
	store, err := s.readStore()
	if err != nil {
		return PointsSummary{}, err
	}

	q := curriculum.QuarterOf(now.In(s.location))
	txs, err := store.Transactions(ctx, model.TransactionQuery{PlayerID: playerID, Quarter: q, Status: model.StatusActive})
	if err != nil {
		return PointsSummary{}, fmt.Errorf("points summary for %s: %w", playerID, err)
	}

	sum := PointsSummary{PlayerID: playerID, Quarter: q, Transactions: len(txs)}
	for _, tx := range txs {
		sum.Total += tx.Points
	}
	metrics.RecordPointsSummary()
	return sum, nil
}

// CurrentPointsSummary is PointsSummary at the service clock's now.
func (s *Service) CurrentPointsSummary(ctx context.Context, playerID string) (PointsSummary, error) {
	return s.PointsSummary(ctx, playerID, s.clock())
}

// TeamCharts builds one chart per player on the worker pool. Jobs are fed
// as the queue drains, so rosters larger than the queue are built in full.
// Charts come back in input order; failed players are left zero-valued and
// their errors joined.
func (s *Service) TeamCharts(ctx context.Context, playerIDs []string, p pillar.Pillar) ([]radar.Chart, error) {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	charts := make([]radar.Chart, len(playerIDs))
	reply := make(chan model.ChartOutcome, len(playerIDs))
	var errs []error
	pending := 0

	// receive waits for one reply, or for a retry tick when nothing is in
	// flight and the queue is full of other callers' jobs.
	receive := func(retry <-chan time.Time) error {
		select {
		case o := <-reply:
			pending--
			if o.Err != nil {
				errs = append(errs, o.Err)
				return nil
			}
			charts[o.Index] = o.Chart
			return nil
		case <-retry:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for i := 0; i < len(playerIDs); {
		id := playerIDs[i]
		job := model.ChartJob{ID: uuid.NewString(), Index: i, PlayerID: id, Pillar: p, Reply: reply}
		err := q.Enqueue(ctx, job)
		switch {
		case err == nil:
			pending++
			i++
		case ctx.Err() != nil:
			return charts, errors.Join(append(errs, ctx.Err())...)
		case errors.Is(err, chartqueue.ErrFull):
			var retry <-chan time.Time
			if pending == 0 {
				retry = time.After(enqueueRetryDelay)
			}
			if err := receive(retry); err != nil {
				return charts, errors.Join(append(errs, err)...)
			}
		default:
			errs = append(errs, fmt.Errorf("enqueue %s: %w", id, err))
			i++
		}
	}

	for pending > 0 {
		if err := receive(nil); err != nil {
			return charts, errors.Join(append(errs, err)...)
		}
	}
	return charts, errors.Join(errs...)
}

// Players lists every player known to the store.
func (s *Service) Players(ctx context.Context) ([]string, error) {
	store, err := s.readStore()
	if err != nil {
		return nil, err
	}
	return store.Players(ctx)
}

// Store returns the open store, for seeding.
func (s *Service) Store() (repository.Store, error) {
	return s.readStore()
}

func (s *Service) readStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"store":          s.storeDriver,
		"sequencer":      s.sequencerKind,
		"timezone":       s.location.String(),
		"legendMaxScale": s.maxScale,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		stats["quarter"] = s.aggregator.CurrentWindow().Quarter.String()
		metrics.UpdateQueueSize(s.queue.Len())
	}
	return stats
}
