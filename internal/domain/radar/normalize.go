// Package radar turns raw axis counts into bounded scores and the geometry
// of an N-axis radar chart.
package radar

import (
	"math"

	"github.com/okian/pitchside/internal/domain/pillar"
)

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Scores is the normalized view of one pillar's raw counts.
type Scores struct {
	// Values holds a score in [0, 10] per axis, or nil for coach-only axes.
	Values map[string]*float64
	// CoachOnly flags axes that carry no automatic data.
	CoachOnly map[string]bool
}

// Clamp rounds raw to one decimal and caps it at MaxScore. Negative input
// is floored at MinScore.
func Clamp(raw float64) float64 {
	if math.IsNaN(raw) || raw <= MinScore {
		return MinScore
	}
	return math.Min(MaxScore, math.Round(raw*10)/10)
}

// Normalize scores every declared axis. Counts for undeclared keys are
// ignored and missing keys score 0.
func Normalize(counts map[string]int, axes []pillar.Axis) Scores {
	s := Scores{
		Values:    make(map[string]*float64, len(axes)),
		CoachOnly: make(map[string]bool, len(axes)),
	}
	for _, a := range axes {
		s.CoachOnly[a.Key] = a.CoachOnly
		if a.CoachOnly {
			s.Values[a.Key] = nil
			continue
		}
		v := Clamp(float64(counts[a.Key]))
		s.Values[a.Key] = &v
	}
	return s
}

// Plot returns the value used when drawing axis key: the score, or 0 when
// there is none.
func (s Scores) Plot(key string) float64 {
	v := s.Values[key]
	if v == nil {
		return MinScore
	}
	return Clamp(*v)
}
