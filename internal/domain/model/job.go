package model

import (
	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
)

// ChartJob asks a worker to build one player's chart for a team export.
type ChartJob struct {
	ID       string
	Index    int
	PlayerID string
	Pillar   pillar.Pillar
	// Reply receives exactly one outcome. It must be buffered.
	Reply chan<- ChartOutcome
}

// ChartOutcome is the result of a ChartJob.
type ChartOutcome struct {
	JobID string
	Index int
	Chart radar.Chart
	Err   error
}
