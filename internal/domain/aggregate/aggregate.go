// Package aggregate reduces a player's event records into raw per-axis
// counts for one pillar within a quarter window.
//
// Aggregation never fails past its own boundary: store errors and
// malformed references degrade to zero contributions so callers can always
// render a chart.
package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// EventStore is the read API of the external backend.
type EventStore interface {
	// Transactions returns points transactions for one player and quarter.
	Transactions(ctx context.Context, q model.TransactionQuery) ([]model.PointsTransaction, error)
	// Progress returns curriculum-progress rows in an inclusive date range.
	Progress(ctx context.Context, q model.ProgressQuery) ([]model.ProgressRow, error)
	// Sessions batch-resolves session ids. Unknown ids are omitted.
	Sessions(ctx context.Context, ids []string) ([]model.SessionRef, error)
}

// Result is the outcome of one aggregation.
type Result struct {
	PlayerID     string
	Pillar       pillar.Pillar
	Window       curriculum.Window
	Counts       map[string]int
	Unclassified int
	// Failed lists sources whose read failed and contributed nothing.
	Failed []Source
}

// Aggregator runs the per-pillar classifiers over store reads.
type Aggregator struct {
	store     EventStore
	resolver  curriculum.Resolver
	clock     func() time.Time
	logger    logger.Logger
	metrics   *metrics.Manager
	parallel  bool
	overrides map[pillar.Pillar]Classifier

	classifiers map[pillar.Pillar]Classifier
}

// New constructs an Aggregator reading from store.
func New(store EventStore, opts ...Option) (*Aggregator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	a := &Aggregator{
		store:     store,
		resolver:  curriculum.NewResolver(time.Local),
		clock:     time.Now,
		metrics:   metrics.Default(),
		parallel:  true,
		overrides: make(map[pillar.Pillar]Classifier),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Nop()
	}

	a.classifiers = DefaultClassifiers(a.resolver)
	for p, c := range a.overrides {
		a.classifiers[p] = c
	}
	return a, nil
}

// Location returns the calendar location the aggregator reads dates in.
func (a *Aggregator) Location() *time.Location {
	return a.resolver.Location()
}

// CurrentWindow returns the quarter window containing the aggregator's now.
func (a *Aggregator) CurrentWindow() curriculum.Window {
	return curriculum.CurrentWindow(a.clock(), a.resolver.Location())
}

// AggregateCurrent aggregates p for playerID in the current quarter.
func (a *Aggregator) AggregateCurrent(ctx context.Context, playerID string, p pillar.Pillar) Result {
	return a.Aggregate(ctx, playerID, p, a.CurrentWindow())
}

// Aggregate reduces playerID's events for pillar p within w into raw axis
// counts. An unsupported pillar yields an empty count map and no reads.
func (a *Aggregator) Aggregate(ctx context.Context, playerID string, p pillar.Pillar, w curriculum.Window) Result {
	res := Result{PlayerID: playerID, Pillar: p, Window: w, Counts: map[string]int{}}
	c, ok := a.classifiers[p]
	if !ok {
		return res
	}

	start := time.Now()
	tally := NewTally(p)
	tally.onDrop = func(src Source, value string) {
		a.metrics.RecordUnclassifiedEvent(p.String(), string(src))
		a.logger.Debug(ctx, "unclassified event dropped",
			logger.String("pillar", p.String()),
			logger.String("source", string(src)),
			logger.String("value", value),
		)
	}

	txs, progress, failed := a.read(ctx, playerID, p, w)
	lookup := a.sessionLookup(playerID, p, &failed)

	c.ClassifyTransactions(ctx, txs, lookup, tally)
	c.ClassifyProgress(progress, tally)

	res.Counts = tally.Counts()
	res.Unclassified = tally.Unclassified()
	res.Failed = failed
	a.metrics.RecordAggregation(p.String(), float64(time.Since(start).Microseconds())/1000)
	return res
}

func (a *Aggregator) read(ctx context.Context, playerID string, p pillar.Pillar, w curriculum.Window) ([]model.PointsTransaction, []model.ProgressRow, []Source) {
	var (
		txs      []model.PointsTransaction
		rows     []model.ProgressRow
		txErr    error
		rowsErr  error
		failures []Source
	)

	readTxs := func() {
		txs, txErr = a.store.Transactions(ctx, model.TransactionQuery{
			PlayerID: playerID,
			Quarter:  w.Quarter,
			Status:   model.StatusActive,
		})
	}
	readRows := func() {
		rows, rowsErr = a.store.Progress(ctx, model.ProgressQuery{
			PlayerID: playerID,
			Category: p.String(),
			From:     w.Start,
			To:       w.End,
		})
	}

	if a.parallel {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); readTxs() }()
		go func() { defer wg.Done(); readRows() }()
		wg.Wait()
	} else {
		readTxs()
		readRows()
	}

	if txErr != nil {
		a.absorb(ctx, playerID, p, SourcePoints, txErr)
		failures = append(failures, SourcePoints)
		txs = nil
	}
	if rowsErr != nil {
		a.absorb(ctx, playerID, p, SourceProgress, rowsErr)
		failures = append(failures, SourceProgress)
		rows = nil
	}
	return txs, rows, failures
}

func (a *Aggregator) sessionLookup(playerID string, p pillar.Pillar, failed *[]Source) SessionLookup {
	return func(ctx context.Context, ids []string) (map[string]model.SessionRef, bool) {
		refs, err := a.store.Sessions(ctx, dedupe(ids))
		if err != nil {
			a.absorb(ctx, playerID, p, SourceSessions, err)
			*failed = append(*failed, SourceSessions)
			return nil, false
		}
		out := make(map[string]model.SessionRef, len(refs))
		for _, r := range refs {
			out[r.ID] = r
		}
		misses := 0
		for _, id := range ids {
			if _, ok := out[id]; !ok {
				misses++
			}
		}
		a.metrics.RecordReferencedLookup(misses)
		return out, true
	}
}

func (a *Aggregator) absorb(ctx context.Context, playerID string, p pillar.Pillar, src Source, err error) {
	a.metrics.RecordStoreReadError(string(src))
	a.logger.Warn(ctx, "event store read failed; treating as zero data",
		logger.String("pillar", p.String()),
		logger.String("source", string(src)),
		logger.String("player_id", playerID),
		logger.Error(fmt.Errorf("read %s: %w", src, err)),
	)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
