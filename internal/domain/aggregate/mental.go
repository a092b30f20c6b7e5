package aggregate

import (
	"context"
	"strings"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// MentalClassifier credits mental sessions by type, solo sessions whose
// referenced session is in the mental category, and every mental progress row.
type MentalClassifier struct{}

// Pillar implements Classifier.
func (MentalClassifier) Pillar() pillar.Pillar { return pillar.Mental }

func isSoloSession(tx model.PointsTransaction) bool {
	return sessionKey(tx.SessionType) == sessionKey(SessionSolo)
}

// ClassifyTransactions implements Classifier.
func (MentalClassifier) ClassifyTransactions(ctx context.Context, txs []model.PointsTransaction, lookup SessionLookup, t *Tally) {
	for _, tx := range txs {
		if key, ok := mentalSessionAxes[sessionKey(tx.SessionType)]; ok {
			t.AddOne(key)
			continue
		}
		if !isKnownSessionType(tx.SessionType) {
			t.Drop(SourcePoints, tx.SessionType)
		}
	}

	ids := distinctSessionIDs(txs, isSoloSession)
	if len(ids) == 0 || lookup == nil {
		return
	}
	refs, ok := lookup(ctx, ids)
	if !ok {
		return
	}
	// once per distinct mental session, not per completion
	for _, id := range ids {
		ref, found := refs[id]
		if !found || !strings.EqualFold(strings.TrimSpace(ref.Category), pillar.Mental.String()) {
			continue
		}
		t.AddOne(pillar.AxisSolo)
	}
}

// ClassifyProgress implements Classifier.
func (MentalClassifier) ClassifyProgress(rows []model.ProgressRow, t *Tally) {
	for range rows {
		t.AddOne(pillar.AxisSolo)
	}
}
