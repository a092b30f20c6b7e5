package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
)

const sqliteDriverName = "sqlite"

// SQLiteStore is a file-backed Store for local runs and seeded demos.
type SQLiteStore struct {
	db  *sqlx.DB
	cfg config
}

type sqliteTxRow struct {
	ID            string         `db:"id"`
	PlayerID      string         `db:"player_id"`
	Points        float64        `db:"points"`
	CheckedInAt   int64          `db:"checked_in_at"`
	SessionType   string         `db:"session_type"`
	SessionID     sql.NullString `db:"session_id"`
	QuarterYear   int            `db:"quarter_year"`
	QuarterNumber int            `db:"quarter_number"`
	Status        string         `db:"status"`
}

type sqliteProgressRow struct {
	ID          string         `db:"id"`
	PlayerID    string         `db:"player_id"`
	Period      sql.NullString `db:"period"`
	Skill       sql.NullString `db:"skill"`
	CompletedAt int64          `db:"completed_at"`
	Category    string         `db:"category"`
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	cfg := buildConfig(opts)
	if path == "" {
		return nil, fmt.Errorf("%w: empty sqlite path", ErrInvalidQuery)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}
	// one writer; also keeps a :memory: database on a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(connectCtx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	cfg.logger.Info(ctx, "sqlite store opened", logger.String("path", path))
	return &SQLiteStore{db: db, cfg: cfg}, nil
}

// Transactions implements Reader.
func (s *SQLiteStore) Transactions(ctx context.Context, q model.TransactionQuery) ([]model.PointsTransaction, error) {
	if err := validateTransactionQuery(q); err != nil {
		return nil, err
	}
	var rows []sqliteTxRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, player_id, points, checked_in_at, session_type, session_id,
		       quarter_year, quarter_number, status
		FROM points_transactions
		WHERE player_id = ? AND quarter_year = ? AND quarter_number = ? AND status = ?
		ORDER BY checked_in_at, id`,
		q.PlayerID, q.Quarter.Year, q.Quarter.Number, string(statusOrActive(q.Status)))
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	out := make([]model.PointsTransaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.PointsTransaction{
			ID:          r.ID,
			PlayerID:    r.PlayerID,
			Points:      r.Points,
			CheckedInAt: time.UnixMilli(r.CheckedInAt).In(s.cfg.location),
			SessionType: r.SessionType,
			SessionID:   r.SessionID.String,
			Quarter:     curriculum.Quarter{Year: r.QuarterYear, Number: r.QuarterNumber},
			Status:      model.TransactionStatus(r.Status),
		})
	}
	return out, nil
}

// Progress implements Reader.
func (s *SQLiteStore) Progress(ctx context.Context, q model.ProgressQuery) ([]model.ProgressRow, error) {
	if err := validateProgressQuery(q); err != nil {
		return nil, err
	}

	where := []string{"player_id = ?"}
	args := []any{q.PlayerID}
	if q.Category != "" {
		where = append(where, "lower(category) = lower(?)")
		args = append(args, q.Category)
	}
	if !q.From.IsZero() {
		where = append(where, "completed_at >= ?")
		args = append(args, q.From.UnixMilli())
	}
	if !q.To.IsZero() {
		where = append(where, "completed_at <= ?")
		args = append(args, q.To.UnixMilli())
	}

	var rows []sqliteProgressRow
	query := `SELECT id, player_id, period, skill, completed_at, category
		FROM curriculum_progress WHERE ` + strings.Join(where, " AND ") + ` ORDER BY completed_at, id`
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select progress: %w", err)
	}

	out := make([]model.ProgressRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ProgressRow{
			ID:          r.ID,
			PlayerID:    r.PlayerID,
			Period:      r.Period.String,
			Skill:       r.Skill.String,
			CompletedAt: time.UnixMilli(r.CompletedAt).In(s.cfg.location),
			Category:    r.Category,
		})
	}
	return out, nil
}

// Sessions implements Reader.
func (s *SQLiteStore) Sessions(ctx context.Context, ids []string) ([]model.SessionRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, COALESCE(skill, '') AS skill, COALESCE(category, '') AS category
		FROM sessions WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("expand session ids: %w", err)
	}
	var refs []model.SessionRef
	if err := s.db.SelectContext(ctx, &refs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	return refs, nil
}

// Players implements Reader.
func (s *SQLiteStore) Players(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, `
		SELECT player_id FROM points_transactions
		UNION
		SELECT player_id FROM curriculum_progress
		ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	return ids, nil
}

// AddTransactions implements Writer. Rows with an existing id are replaced.
func (s *SQLiteStore) AddTransactions(ctx context.Context, txs ...model.PointsTransaction) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range txs {
			t = fillTransaction(t, s.cfg)
			_, err := tx.NamedExecContext(ctx, `
				INSERT OR REPLACE INTO points_transactions
					(id, player_id, points, checked_in_at, session_type, session_id, quarter_year, quarter_number, status)
				VALUES
					(:id, :player_id, :points, :checked_in_at, :session_type, :session_id, :quarter_year, :quarter_number, :status)`,
				sqliteTxRow{
					ID:            t.ID,
					PlayerID:      t.PlayerID,
					Points:        t.Points,
					CheckedInAt:   t.CheckedInAt.UnixMilli(),
					SessionType:   t.SessionType,
					SessionID:     sql.NullString{String: t.SessionID, Valid: t.HasSession()},
					QuarterYear:   t.Quarter.Year,
					QuarterNumber: t.Quarter.Number,
					Status:        string(t.Status),
				})
			if err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// AddProgress implements Writer.
func (s *SQLiteStore) AddProgress(ctx context.Context, rows ...model.ProgressRow) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, r := range rows {
			_, err := tx.NamedExecContext(ctx, `
				INSERT OR REPLACE INTO curriculum_progress (id, player_id, period, skill, completed_at, category)
				VALUES (:id, :player_id, :period, :skill, :completed_at, :category)`,
				sqliteProgressRow{
					ID:          r.ID,
					PlayerID:    r.PlayerID,
					Period:      sql.NullString{String: r.Period, Valid: r.Period != ""},
					Skill:       sql.NullString{String: r.Skill, Valid: r.Skill != ""},
					CompletedAt: r.CompletedAt.UnixMilli(),
					Category:    r.Category,
				})
			if err != nil {
				return fmt.Errorf("insert progress %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

// AddSessions implements Writer.
func (s *SQLiteStore) AddSessions(ctx context.Context, refs ...model.SessionRef) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, r := range refs {
			_, err := tx.NamedExecContext(ctx,
				`INSERT OR REPLACE INTO sessions (id, skill, category) VALUES (:id, :skill, :category)`, r)
			if err != nil {
				return fmt.Errorf("insert session %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
