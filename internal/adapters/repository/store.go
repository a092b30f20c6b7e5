// Package repository implements the event store the aggregator reads from.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/pitchside/internal/domain/model"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Reader is the read API of the event store.
type Reader interface {
	// Transactions returns points transactions matching q in check-in order.
	Transactions(ctx context.Context, q model.TransactionQuery) ([]model.PointsTransaction, error)
	// Progress returns curriculum-progress rows matching q in completion order.
	Progress(ctx context.Context, q model.ProgressQuery) ([]model.ProgressRow, error)
	// Sessions resolves session ids. Unknown ids are omitted.
	Sessions(ctx context.Context, ids []string) ([]model.SessionRef, error)
	// Players lists every player with at least one transaction or progress row.
	Players(ctx context.Context) ([]string, error)
}

// Writer loads records into a local store. The production backend owns its
// data, so only the memory and sqlite stores are written to in practice.
type Writer interface {
	AddTransactions(ctx context.Context, txs ...model.PointsTransaction) error
	AddProgress(ctx context.Context, rows ...model.ProgressRow) error
	AddSessions(ctx context.Context, refs ...model.SessionRef) error
}

// Store is a readable and writable event store.
type Store interface {
	Reader
	Writer
	Close() error
}

// Open returns the store for driver. dsn is the sqlite path or postgres URL
// and is ignored by the memory driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		return OpenSQLite(ctx, dsn, opts...)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func validateTransactionQuery(q model.TransactionQuery) error {
	if q.PlayerID == "" {
		return fmt.Errorf("%w: empty player id", ErrInvalidQuery)
	}
	if !q.Quarter.Valid() {
		return fmt.Errorf("%w: quarter %s", ErrInvalidQuery, q.Quarter)
	}
	return nil
}

func validateProgressQuery(q model.ProgressQuery) error {
	if q.PlayerID == "" {
		return fmt.Errorf("%w: empty player id", ErrInvalidQuery)
	}
	if !q.To.IsZero() && q.To.Before(q.From) {
		return fmt.Errorf("%w: range ends before it starts", ErrInvalidQuery)
	}
	return nil
}

// statusOrActive defaults an empty status to active.
func statusOrActive(s model.TransactionStatus) model.TransactionStatus {
	if s == "" {
		return model.StatusActive
	}
	return s
}
