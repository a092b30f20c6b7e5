package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
)

// PostgresStore reads the managed backend's tables through a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	cfg    config
	mu     sync.RWMutex
	closed bool
}

// OpenPostgres connects to databaseURL, verifies the connection and makes
// sure the tables exist.
func OpenPostgres(ctx context.Context, databaseURL string, opts ...Option) (*PostgresStore, error) {
	cfg := buildConfig(opts)
	if databaseURL == "" {
		return nil, fmt.Errorf("%w: empty database url", ErrInvalidQuery)
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database url: %w", err)
	}
	poolConfig.MaxConns = cfg.maxConns
	if poolConfig.MinConns == 0 {
		poolConfig.MinConns = 1
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(connectCtx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}

	cfg.logger.Info(ctx, "postgres store connected",
		logger.String("host", poolConfig.ConnConfig.Host),
		logger.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return &PostgresStore{pool: pool, cfg: cfg}, nil
}

func (s *PostgresStore) acquire() (*pgxpool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.pool, nil
}

// Transactions implements Reader.
func (s *PostgresStore) Transactions(ctx context.Context, q model.TransactionQuery) ([]model.PointsTransaction, error) {
	if err := validateTransactionQuery(q); err != nil {
		return nil, err
	}
	pool, err := s.acquire()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT id, player_id, points, checked_in_at, session_type, session_id,
		       quarter_year, quarter_number, status
		FROM points_transactions
		WHERE player_id = $1 AND quarter_year = $2 AND quarter_number = $3 AND status = $4
		ORDER BY checked_in_at, id`,
		q.PlayerID, q.Quarter.Year, q.Quarter.Number, string(statusOrActive(q.Status)))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]model.PointsTransaction, 0)
	for rows.Next() {
		var (
			tx        model.PointsTransaction
			sessionID *string
			status    string
		)
		if err := rows.Scan(&tx.ID, &tx.PlayerID, &tx.Points, &tx.CheckedInAt, &tx.SessionType, &sessionID,
			&tx.Quarter.Year, &tx.Quarter.Number, &status); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if sessionID != nil {
			tx.SessionID = *sessionID
		}
		tx.Status = model.TransactionStatus(status)
		tx.CheckedInAt = tx.CheckedInAt.In(s.cfg.location)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Progress implements Reader.
func (s *PostgresStore) Progress(ctx context.Context, q model.ProgressQuery) ([]model.ProgressRow, error) {
	if err := validateProgressQuery(q); err != nil {
		return nil, err
	}
	pool, err := s.acquire()
	if err != nil {
		return nil, err
	}

	var from, to *time.Time
	if !q.From.IsZero() {
		from = &q.From
	}
	if !q.To.IsZero() {
		to = &q.To
	}
	rows, err := pool.Query(ctx, `
		SELECT id, player_id, COALESCE(period, ''), COALESCE(skill, ''), completed_at, category
		FROM curriculum_progress
		WHERE player_id = $1
		  AND ($2 = '' OR lower(category) = lower($2))
		  AND ($3::timestamptz IS NULL OR completed_at >= $3)
		  AND ($4::timestamptz IS NULL OR completed_at <= $4)
		ORDER BY completed_at, id`,
		q.PlayerID, q.Category, from, to)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	out := make([]model.ProgressRow, 0)
	for rows.Next() {
		var r model.ProgressRow
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.Period, &r.Skill, &r.CompletedAt, &r.Category); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		r.CompletedAt = r.CompletedAt.In(s.cfg.location)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sessions implements Reader.
func (s *PostgresStore) Sessions(ctx context.Context, ids []string) ([]model.SessionRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	pool, err := s.acquire()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT id, COALESCE(skill, ''), COALESCE(category, '') FROM sessions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	refs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SessionRef, error) {
		var r model.SessionRef
		err := row.Scan(&r.ID, &r.Skill, &r.Category)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return refs, nil
}

// Players implements Reader.
func (s *PostgresStore) Players(ctx context.Context) ([]string, error) {
	pool, err := s.acquire()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT player_id FROM points_transactions
		UNION
		SELECT player_id FROM curriculum_progress
		ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	return ids, nil
}

// AddTransactions implements Writer.
func (s *PostgresStore) AddTransactions(ctx context.Context, txs ...model.PointsTransaction) error {
	return s.batch(ctx, func(b *pgx.Batch) {
		for _, t := range txs {
			t = fillTransaction(t, s.cfg)
			var sessionID *string
			if t.HasSession() {
				sessionID = &t.SessionID
			}
			b.Queue(`
				INSERT INTO points_transactions
					(id, player_id, points, checked_in_at, session_type, session_id, quarter_year, quarter_number, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					points = EXCLUDED.points, checked_in_at = EXCLUDED.checked_in_at,
					session_type = EXCLUDED.session_type, session_id = EXCLUDED.session_id,
					quarter_year = EXCLUDED.quarter_year, quarter_number = EXCLUDED.quarter_number,
					status = EXCLUDED.status`,
				t.ID, t.PlayerID, t.Points, t.CheckedInAt, t.SessionType, sessionID,
				t.Quarter.Year, t.Quarter.Number, string(t.Status))
		}
	})
}

// AddProgress implements Writer.
func (s *PostgresStore) AddProgress(ctx context.Context, rows ...model.ProgressRow) error {
	return s.batch(ctx, func(b *pgx.Batch) {
		for _, r := range rows {
			b.Queue(`
				INSERT INTO curriculum_progress (id, player_id, period, skill, completed_at, category)
				VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
				ON CONFLICT (id) DO NOTHING`,
				r.ID, r.PlayerID, r.Period, r.Skill, r.CompletedAt, r.Category)
		}
	})
}

// AddSessions implements Writer.
func (s *PostgresStore) AddSessions(ctx context.Context, refs ...model.SessionRef) error {
	return s.batch(ctx, func(b *pgx.Batch) {
		for _, r := range refs {
			b.Queue(`
				INSERT INTO sessions (id, skill, category) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET skill = EXCLUDED.skill, category = EXCLUDED.category`,
				r.ID, r.Skill, r.Category)
		}
	})
}

// Close closes the pool. It is safe to call more than once.
func (s *PostgresStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.pool.Close()
	return nil
}

func (s *PostgresStore) batch(ctx context.Context, fill func(*pgx.Batch)) error {
	pool, err := s.acquire()
	if err != nil {
		return err
	}
	b := &pgx.Batch{}
	fill(b)
	if b.Len() == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("postgres: write batch: %w", err)
		}
		return nil
	})
}
