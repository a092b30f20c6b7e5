package repository

// Timestamps are stored as unix milliseconds in sqlite so range filters
// compare numerically whatever zone the writer used.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS points_transactions (
	id             TEXT PRIMARY KEY,
	player_id      TEXT NOT NULL,
	points         REAL NOT NULL DEFAULT 0,
	checked_in_at  INTEGER NOT NULL,
	session_type   TEXT NOT NULL DEFAULT '',
	session_id     TEXT,
	quarter_year   INTEGER NOT NULL,
	quarter_number INTEGER NOT NULL,
	status         TEXT NOT NULL DEFAULT 'active'
);
CREATE INDEX IF NOT EXISTS idx_points_player_quarter
	ON points_transactions (player_id, quarter_year, quarter_number, status);

CREATE TABLE IF NOT EXISTS curriculum_progress (
	id           TEXT PRIMARY KEY,
	player_id    TEXT NOT NULL,
	period       TEXT,
	skill        TEXT,
	completed_at INTEGER NOT NULL,
	category     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_player_category
	ON curriculum_progress (player_id, category, completed_at);

CREATE TABLE IF NOT EXISTS sessions (
	id       TEXT PRIMARY KEY,
	skill    TEXT,
	category TEXT
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS points_transactions (
	id             TEXT PRIMARY KEY,
	player_id      TEXT NOT NULL,
	points         DOUBLE PRECISION NOT NULL DEFAULT 0,
	checked_in_at  TIMESTAMPTZ NOT NULL,
	session_type   TEXT NOT NULL DEFAULT '',
	session_id     TEXT,
	quarter_year   INTEGER NOT NULL,
	quarter_number INTEGER NOT NULL,
	status         TEXT NOT NULL DEFAULT 'active'
);
CREATE INDEX IF NOT EXISTS idx_points_player_quarter
	ON points_transactions (player_id, quarter_year, quarter_number, status);

CREATE TABLE IF NOT EXISTS curriculum_progress (
	id           TEXT PRIMARY KEY,
	player_id    TEXT NOT NULL,
	period       TEXT,
	skill        TEXT,
	completed_at TIMESTAMPTZ NOT NULL,
	category     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_player_category
	ON curriculum_progress (player_id, category, completed_at);

CREATE TABLE IF NOT EXISTS sessions (
	id       TEXT PRIMARY KEY,
	skill    TEXT,
	category TEXT
);
`
