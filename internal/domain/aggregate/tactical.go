package aggregate

import (
	"context"

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// TacticalClassifier credits coach-verified check-ins to the curriculum
// period they happened in, and progress rows to their stored period.
type TacticalClassifier struct {
	Resolver curriculum.Resolver
}

// Pillar implements Classifier.
func (TacticalClassifier) Pillar() pillar.Pillar { return pillar.Tactical }

// ClassifyTransactions implements Classifier.
func (c TacticalClassifier) ClassifyTransactions(_ context.Context, txs []model.PointsTransaction, _ SessionLookup, t *Tally) {
	for _, tx := range txs {
		if _, ok := tacticalSessionTypes[sessionKey(tx.SessionType)]; !ok {
			if !isKnownSessionType(tx.SessionType) {
				t.Drop(SourcePoints, tx.SessionType)
			}
			continue
		}
		period := c.Resolver.Resolve(tx.CheckedInAt)
		t.AddOrDrop(string(period), SourcePoints, string(period))
	}
}

// ClassifyProgress implements Classifier.
func (TacticalClassifier) ClassifyProgress(rows []model.ProgressRow, t *Tally) {
	for _, row := range rows {
		t.AddOrDrop(row.Period, SourceProgress, row.Period)
	}
}
