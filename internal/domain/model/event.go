// Package model contains the read-only event records the aggregator consumes.
// Every record is owned by the external backend; pitchside never writes them
// outside of seeding a local store.
package model

import (
	"strings"
	"time"

	"github.com/okian/pitchside/internal/domain/curriculum"
)

// TransactionStatus is the ledger status of a points transaction.
type TransactionStatus string

// Ledger statuses. Only active rows count toward a quarter.
const (
	StatusActive   TransactionStatus = "active"
	StatusReversed TransactionStatus = "reversed"
)

// PointsTransaction is a ledger row awarding points for a check-in.
type PointsTransaction struct {
	ID          string             `json:"id" db:"id"`
	PlayerID    string             `json:"player_id" db:"player_id"`
	Points      float64            `json:"points" db:"points"`
	CheckedInAt time.Time          `json:"checked_in_at" db:"checked_in_at"`
	SessionType string             `json:"session_type" db:"session_type"`
	SessionID   string             `json:"session_id,omitempty" db:"session_id"` // empty when the row has no session reference
	Quarter     curriculum.Quarter `json:"quarter" db:"-"`
	Status      TransactionStatus  `json:"status" db:"status"`
}

// HasSession reports whether t references a session record.
func (t PointsTransaction) HasSession() bool {
	return strings.TrimSpace(t.SessionID) != ""
}

// ProgressRow records completion of a curriculum activity (video, drill).
type ProgressRow struct {
	ID          string    `json:"id" db:"id"`
	PlayerID    string    `json:"player_id" db:"player_id"`
	Period      string    `json:"period,omitempty" db:"period"`
	Skill       string    `json:"skill,omitempty" db:"skill"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
	Category    string    `json:"category" db:"category"`
}

// SessionRef is the subset of a session record used to classify
// transactions that reference it.
type SessionRef struct {
	ID       string `json:"id" db:"id"`
	Skill    string `json:"skill" db:"skill"`
	Category string `json:"category" db:"category"`
}

// TransactionQuery scopes a points-transaction read.
type TransactionQuery struct {
	PlayerID string
	Quarter  curriculum.Quarter
	Status   TransactionStatus
}

// ProgressQuery scopes a curriculum-progress read. From and To are inclusive.
type ProgressQuery struct {
	PlayerID string
	Category string
	From     time.Time
	To       time.Time
}
