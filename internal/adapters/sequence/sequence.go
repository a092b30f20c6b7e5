// Package sequence guards against stale results when requests for the same
// view overlap. Every Begin issues a monotonically increasing token; a
// result may only be published while its token is still the latest for its
// view.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Token identifies one request for a view.
type Token struct {
	View string
	Seq  uint64
}

// Sequencer issues tokens and answers whether a token is still current.
type Sequencer interface {
	// Begin issues a new token for view and cancels the context of the
	// previous request for the same view. The returned context is canceled
	// with ErrStale as its cause when a newer request begins.
	Begin(ctx context.Context, view string) (Token, context.Context, error)
	// IsLatest reports whether t is still the newest token for its view.
	IsLatest(ctx context.Context, t Token) (bool, error)
	// End releases resources held for t.
	End(t Token)
}

type inflight struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// canceller tracks the in-process cancel func of the newest request per view.
type canceller struct {
	mu    sync.Mutex
	views map[string]inflight
}

func newCanceller() *canceller {
	return &canceller{views: make(map[string]inflight)}
}

// replace records seq for view and cancels the request it supersedes.
// It returns false when a newer seq is already recorded.
func (c *canceller) replace(view string, seq uint64, cancel context.CancelCauseFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.views[view]
	if ok && prev.seq > seq {
		return false
	}
	if ok {
		prev.cancel(ErrStale)
	}
	c.views[view] = inflight{seq: seq, cancel: cancel}
	return true
}

func (c *canceller) latest(view string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.views[view]
	return f.seq, ok
}

func (c *canceller) end(t Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.views[t.View]; ok && f.seq == t.Seq {
		f.cancel(context.Canceled)
		delete(c.views, t.View)
	}
}

// Memory is a process-local Sequencer.
type Memory struct {
	next    atomic.Uint64
	pending *canceller
}

// NewMemory returns an empty Memory sequencer.
func NewMemory() *Memory {
	return &Memory{pending: newCanceller()}
}

// Begin implements Sequencer.
func (m *Memory) Begin(ctx context.Context, view string) (Token, context.Context, error) {
	if view == "" {
		return Token{}, nil, ErrEmptyView
	}
	t := Token{View: view, Seq: m.next.Add(1)}
	reqCtx, cancel := context.WithCancelCause(ctx)
	if !m.pending.replace(view, t.Seq, cancel) {
		cancel(ErrStale)
	}
	return t, reqCtx, nil
}

// IsLatest implements Sequencer. A token whose view has no request in
// flight was superseded by a request that already ended.
func (m *Memory) IsLatest(_ context.Context, t Token) (bool, error) {
	seq, ok := m.pending.latest(t.View)
	return ok && seq == t.Seq, nil
}

// End implements Sequencer.
func (m *Memory) End(t Token) {
	m.pending.end(t)
}

// Guard runs fn under a fresh token for view and returns its result only if
// no newer request for view began in the meantime. Otherwise it returns
// ErrStale.
func Guard[T any](ctx context.Context, s Sequencer, view string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	t, reqCtx, err := s.Begin(ctx, view)
	if err != nil {
		return zero, err
	}
	defer s.End(t)

	out, fnErr := fn(reqCtx)

	latest, err := s.IsLatest(ctx, t)
	if err != nil {
		return zero, fmt.Errorf("check sequence for %s: %w", view, err)
	}
	if !latest || errors.Is(context.Cause(reqCtx), ErrStale) {
		return zero, ErrStale
	}
	if fnErr != nil {
		return zero, fnErr
	}
	return out, nil
}
