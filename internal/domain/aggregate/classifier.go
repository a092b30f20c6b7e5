package aggregate

import (
	"context"

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// Source names an event source feeding a tally.
type Source string

// Event sources.
const (
	SourcePoints   Source = "points"
	SourceProgress Source = "progress"
	SourceSessions Source = "sessions"
)

// SessionLookup batch-resolves session references. Ids are deduplicated
// before the store is queried. ok is false when the lookup failed; a
// dangling id is simply absent from the returned map.
type SessionLookup func(ctx context.Context, ids []string) (refs map[string]model.SessionRef, ok bool)

// Classifier is the per-pillar strategy mapping event records onto axes.
// Implementations must be order independent: the same multiset of records
// always yields the same tally.
type Classifier interface {
	Pillar() pillar.Pillar
	ClassifyTransactions(ctx context.Context, txs []model.PointsTransaction, lookup SessionLookup, t *Tally)
	ClassifyProgress(rows []model.ProgressRow, t *Tally)
}

// Tally accumulates raw axis counts for one pillar.
type Tally struct {
	pillar       pillar.Pillar
	counts       map[string]int
	unclassified map[Source]int
	onDrop       func(src Source, value string)
}

// NewTally returns a tally with every declared axis of p initialized to 0.
func NewTally(p pillar.Pillar) *Tally {
	t := &Tally{
		pillar:       p,
		counts:       make(map[string]int),
		unclassified: make(map[Source]int),
	}
	for _, a := range p.Axes() {
		t.counts[a.Key] = 0
	}
	return t
}

// AddOne increments axis key. It is a no-op returning false when key is
// not declared for the tally's pillar.
func (t *Tally) AddOne(key string) bool {
	if _, ok := t.counts[key]; !ok {
		return false
	}
	t.counts[key]++
	return true
}

// AddOrDrop increments key, or records the event as unclassified.
func (t *Tally) AddOrDrop(key string, src Source, value string) {
	if !t.AddOne(key) {
		t.Drop(src, value)
	}
}

// Drop records an event from src that matched no axis.
func (t *Tally) Drop(src Source, value string) {
	t.unclassified[src]++
	if t.onDrop != nil {
		t.onDrop(src, value)
	}
}

// Counts returns a copy of the raw counts.
func (t *Tally) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Unclassified returns the total number of dropped events.
func (t *Tally) Unclassified() int {
	n := 0
	for _, v := range t.unclassified {
		n += v
	}
	return n
}

// DefaultClassifiers returns one classifier per pillar, resolving tactical
// periods with resolver.
func DefaultClassifiers(resolver curriculum.Resolver) map[pillar.Pillar]Classifier {
	return map[pillar.Pillar]Classifier{
		pillar.Tactical:  TacticalClassifier{Resolver: resolver},
		pillar.Technical: TechnicalClassifier{},
		pillar.Physical:  PhysicalClassifier{},
		pillar.Mental:    MentalClassifier{},
	}
}

// distinctSessionIDs returns the distinct session ids referenced by txs that pass keep.
func distinctSessionIDs(txs []model.PointsTransaction, keep func(model.PointsTransaction) bool) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, tx := range txs {
		if !tx.HasSession() || !keep(tx) {
			continue
		}
		if _, ok := seen[tx.SessionID]; ok {
			continue
		}
		seen[tx.SessionID] = struct{}{}
		ids = append(ids, tx.SessionID)
	}
	return ids
}
