package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
)

// MemoryStore is an in-process Store guarded by a single RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	cfg      config
	closed   bool
	txs      []model.PointsTransaction
	progress []model.ProgressRow
	sessions map[string]model.SessionRef
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		cfg:      buildConfig(opts),
		sessions: make(map[string]model.SessionRef),
	}
}

// Transactions implements Reader.
func (s *MemoryStore) Transactions(ctx context.Context, q model.TransactionQuery) ([]model.PointsTransaction, error) {
	if err := validateTransactionQuery(q); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	status := statusOrActive(q.Status)
	out := make([]model.PointsTransaction, 0)
	for _, tx := range s.txs {
		if tx.PlayerID == q.PlayerID && tx.Quarter == q.Quarter && tx.Status == status {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedInAt.Before(out[j].CheckedInAt) })
	return out, nil
}

// Progress implements Reader.
func (s *MemoryStore) Progress(ctx context.Context, q model.ProgressQuery) ([]model.ProgressRow, error) {
	if err := validateProgressQuery(q); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]model.ProgressRow, 0)
	for _, row := range s.progress {
		if row.PlayerID != q.PlayerID {
			continue
		}
		if q.Category != "" && !strings.EqualFold(row.Category, q.Category) {
			continue
		}
		if !q.From.IsZero() && row.CompletedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && row.CompletedAt.After(q.To) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

// Sessions implements Reader.
func (s *MemoryStore) Sessions(ctx context.Context, ids []string) ([]model.SessionRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]model.SessionRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := s.sessions[id]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

// Players implements Reader.
func (s *MemoryStore) Players(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	seen := make(map[string]struct{})
	for _, tx := range s.txs {
		seen[tx.PlayerID] = struct{}{}
	}
	for _, row := range s.progress {
		seen[row.PlayerID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// AddTransactions implements Writer. A transaction without a quarter is
// filed under the quarter of its check-in date.
func (s *MemoryStore) AddTransactions(_ context.Context, txs ...model.PointsTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, tx := range txs {
		s.txs = append(s.txs, fillTransaction(tx, s.cfg))
	}
	return nil
}

// AddProgress implements Writer.
func (s *MemoryStore) AddProgress(_ context.Context, rows ...model.ProgressRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.progress = append(s.progress, rows...)
	return nil
}

// AddSessions implements Writer. A later ref replaces an earlier one with the same id.
func (s *MemoryStore) AddSessions(_ context.Context, refs ...model.SessionRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, ref := range refs {
		s.sessions[ref.ID] = ref
	}
	return nil
}

// Close marks the store closed. Later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// fillTransaction applies write-time defaults shared by every store.
func fillTransaction(tx model.PointsTransaction, cfg config) model.PointsTransaction {
	if !tx.Quarter.Valid() {
		tx.Quarter = curriculum.QuarterOf(tx.CheckedInAt.In(cfg.location))
	}
	tx.Status = statusOrActive(tx.Status)
	return tx
}
