package aggregate

import (
	"context"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// PhysicalClassifier maps session types and progress skills through fixed tables.
// One session type may train several axes.
type PhysicalClassifier struct{}

// Pillar implements Classifier.
func (PhysicalClassifier) Pillar() pillar.Pillar { return pillar.Physical }

// ClassifyTransactions implements Classifier.
func (PhysicalClassifier) ClassifyTransactions(_ context.Context, txs []model.PointsTransaction, _ SessionLookup, t *Tally) {
	for _, tx := range txs {
		keys, ok := physicalSessionAxes[sessionKey(tx.SessionType)]
		if !ok {
			if !isKnownSessionType(tx.SessionType) {
				t.Drop(SourcePoints, tx.SessionType)
			}
			continue
		}
		for _, key := range keys {
			t.AddOne(key)
		}
	}
}

// ClassifyProgress implements Classifier.
func (PhysicalClassifier) ClassifyProgress(rows []model.ProgressRow, t *Tally) {
	for _, row := range rows {
		key, ok := physicalSkillAxes[NormalizeSkill(row.Skill)]
		if !ok {
			t.Drop(SourceProgress, row.Skill)
			continue
		}
		t.AddOrDrop(key, SourceProgress, row.Skill)
	}
}
