package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchside/internal/domain/aggregate"
	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// Dataset is a batch of demo event records.
type Dataset struct {
	Players      []string
	Transactions []model.PointsTransaction
	Progress     []model.ProgressRow
	Sessions     []model.SessionRef
}

var seedSessionTypes = []string{
	aggregate.SessionTeamTraining,
	aggregate.SessionTactical,
	aggregate.SessionSmallGroup,
	aggregate.SessionSolo,
	aggregate.SessionTechnical,
	aggregate.SessionStrengthConditioning,
	aggregate.SessionSpeedAgility,
	aggregate.SessionConditioning,
	aggregate.SessionMobilityRecovery,
	aggregate.SessionMindsetWorkshop,
	aggregate.SessionFocusTraining,
	aggregate.SessionLeadership,
}

var seedPhysicalSkills = []string{"Sprinting", "Ladder Drills", "Core", "Endurance", "Stretching"}

// DemoDataset generates perPlayer check-ins and progress rows for each of
// players, spread over the quarter containing now up to now. The same seed
// yields the same records apart from their ids.
func DemoDataset(players, perPlayer int, now time.Time, loc *time.Location, seed uint64) Dataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	window := curriculum.CurrentWindow(now, loc)
	resolver := curriculum.NewResolver(loc)
	span := now.Sub(window.Start)
	if span <= 0 {
		span = time.Hour
	}
	at := func() time.Time {
		return window.Start.Add(time.Duration(rng.Int64N(int64(span))))
	}

	technical := skillLabels(pillar.Technical)
	var ds Dataset
	for i := 1; i <= players; i++ {
		playerID := fmt.Sprintf("player-%02d", i)
		ds.Players = append(ds.Players, playerID)

		for j := 0; j < perPlayer; j++ {
			sessionType := seedSessionTypes[rng.IntN(len(seedSessionTypes))]
			tx := model.PointsTransaction{
				ID:          uuid.NewString(),
				PlayerID:    playerID,
				Points:      float64(5 + rng.IntN(4)*5),
				CheckedInAt: at(),
				SessionType: sessionType,
				Status:      model.StatusActive,
			}
			if rng.IntN(20) == 0 {
				tx.Status = model.StatusReversed
			}
			if sessionType == aggregate.SessionSolo || sessionType == aggregate.SessionTechnical {
				ref := model.SessionRef{ID: uuid.NewString(), Skill: technical[rng.IntN(len(technical))], Category: pillar.Technical.String()}
				if sessionType == aggregate.SessionSolo && rng.IntN(3) == 0 {
					ref.Category = pillar.Mental.String()
				}
				tx.SessionID = ref.ID
				ds.Sessions = append(ds.Sessions, ref)
			}
			ds.Transactions = append(ds.Transactions, tx)
		}

		for j := 0; j < perPlayer/2; j++ {
			completed := at()
			row := model.ProgressRow{ID: uuid.NewString(), PlayerID: playerID, CompletedAt: completed}
			switch p := pillar.All[rng.IntN(len(pillar.All))]; p {
			case pillar.Tactical:
				row.Category, row.Period = p.String(), string(resolver.Resolve(completed))
			case pillar.Technical:
				row.Category, row.Skill = p.String(), technical[rng.IntN(len(technical))]
			case pillar.Physical:
				row.Category, row.Skill = p.String(), seedPhysicalSkills[rng.IntN(len(seedPhysicalSkills))]
			default:
				row.Category = p.String()
			}
			ds.Progress = append(ds.Progress, row)
		}
	}
	return ds
}

// skillLabels returns the labels of p's player-scored axes.
func skillLabels(p pillar.Pillar) []string {
	var out []string
	for _, a := range p.Axes() {
		if !a.CoachOnly {
			out = append(out, a.Label)
		}
	}
	return out
}
