package aggregate

import (
	"context"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// TechnicalClassifier resolves the skill behind solo and technical sessions.
// A session that cannot be resolved to a declared axis still credits
// DefaultTechnicalAxis.
type TechnicalClassifier struct{}

// Pillar implements Classifier.
func (TechnicalClassifier) Pillar() pillar.Pillar { return pillar.Technical }

func isTechnicalSession(tx model.PointsTransaction) bool {
	_, ok := technicalSessionTypes[sessionKey(tx.SessionType)]
	return ok
}

// ClassifyTransactions implements Classifier.
func (TechnicalClassifier) ClassifyTransactions(ctx context.Context, txs []model.PointsTransaction, lookup SessionLookup, t *Tally) {
	var refs map[string]model.SessionRef
	if ids := distinctSessionIDs(txs, isTechnicalSession); len(ids) > 0 && lookup != nil {
		refs, _ = lookup(ctx, ids)
	}

	for _, tx := range txs {
		if !isTechnicalSession(tx) {
			if !isKnownSessionType(tx.SessionType) {
				t.Drop(SourcePoints, tx.SessionType)
			}
			continue
		}
		key := DefaultTechnicalAxis
		if ref, ok := refs[tx.SessionID]; ok && tx.HasSession() {
			if skill := NormalizeSkill(ref.Skill); t.pillar.Declares(skill) {
				key = skill
			}
		}
		t.AddOne(key)
	}
}

// ClassifyProgress implements Classifier.
func (TechnicalClassifier) ClassifyProgress(rows []model.ProgressRow, t *Tally) {
	for _, row := range rows {
		t.AddOrDrop(NormalizeSkill(row.Skill), SourceProgress, row.Skill)
	}
}
