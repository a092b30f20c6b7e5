// Package pillar declares the four training pillars and the ordered radar
// axes each one owns.
package pillar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPillar is returned by Parse for names outside the closed set.
var ErrUnknownPillar = errors.New("unknown pillar")

// Pillar is one of the four training categories.
type Pillar uint8

// The zero value is Invalid.
const (
	Invalid Pillar = iota
	Tactical
	Technical
	Physical
	Mental
)

// All lists the valid pillars in display order.
var All = []Pillar{Tactical, Technical, Physical, Mental}

// String returns the lower-case wire name of p.
func (p Pillar) String() string {
	switch p {
	case Tactical:
		return "tactical"
	case Technical:
		return "technical"
	case Physical:
		return "physical"
	case Mental:
		return "mental"
	default:
		return "invalid"
	}
}

// Valid reports whether p is one of the four declared pillars.
func (p Pillar) Valid() bool {
	return p >= Tactical && p <= Mental
}

// Parse maps a wire name (case-insensitive) to a Pillar.
func Parse(s string) (Pillar, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tactical":
		return Tactical, nil
	case "technical":
		return Technical, nil
	case "physical":
		return Physical, nil
	case "mental":
		return Mental, nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownPillar, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pillar) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pillar) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Axis is one named performance dimension of a pillar's radar.
type Axis struct {
	Key       string
	Label     string
	CoachOnly bool
}

// Axis keys shared with the classification tables.
const (
	AxisBuildOut    = "build-out"
	AxisMiddleThird = "middle-third"
	AxisFinalThird  = "final-third"
	AxisWidePlay    = "wide-play"
	AxisDefending   = "defending-shape"

	AxisBallMastery = "ball-mastery"
	AxisFirstTouch  = "first-touch"
	AxisPassing     = "passing"
	AxisDribbling   = "dribbling"
	AxisFinishing   = "finishing"
	AxisTurning     = "turning"
	AxisWeakFoot    = "weak-foot"

	AxisSpeed        = "speed"
	AxisAgility      = "agility"
	AxisStrength     = "strength"
	AxisConditioning = "conditioning"
	AxisMobility     = "mobility"
	AxisCoordination = "coordination"

	AxisSolo       = "solo"
	AxisResilience = "resilience"
	AxisFocus      = "focus"
	AxisLeadership = "leadership"
	AxisMaturity   = "maturity"
	AxisSocially   = "socially"
	AxisWorkEthic  = "work-ethic"
)

// Axis order is the clockwise angular order on the radar, starting at 12 o'clock.
var axes = map[Pillar][]Axis{
	Tactical: {
		{Key: AxisBuildOut, Label: "Build Out"},
		{Key: AxisMiddleThird, Label: "Middle Third"},
		{Key: AxisFinalThird, Label: "Final Third"},
		{Key: AxisWidePlay, Label: "Wide Play"},
		{Key: AxisDefending, Label: "Defensive Shape", CoachOnly: true},
	},
	Technical: {
		{Key: AxisBallMastery, Label: "Ball Mastery"},
		{Key: AxisFirstTouch, Label: "First Touch"},
		{Key: AxisPassing, Label: "Passing"},
		{Key: AxisDribbling, Label: "Dribbling"},
		{Key: AxisFinishing, Label: "Finishing"},
		{Key: AxisTurning, Label: "Turning"},
		{Key: AxisWeakFoot, Label: "Weak Foot", CoachOnly: true},
	},
	Physical: {
		{Key: AxisSpeed, Label: "Speed"},
		{Key: AxisAgility, Label: "Agility"},
		{Key: AxisStrength, Label: "Strength"},
		{Key: AxisConditioning, Label: "Conditioning"},
		{Key: AxisMobility, Label: "Mobility"},
		{Key: AxisCoordination, Label: "Coordination", CoachOnly: true},
	},
	Mental: {
		{Key: AxisSolo, Label: "Solo Work"},
		{Key: AxisResilience, Label: "Resilience"},
		{Key: AxisFocus, Label: "Focus"},
		{Key: AxisLeadership, Label: "Leadership"},
		{Key: AxisMaturity, Label: "Maturity", CoachOnly: true},
		{Key: AxisSocially, Label: "Socially", CoachOnly: true},
		{Key: AxisWorkEthic, Label: "Work Ethic", CoachOnly: true},
	},
}

// Axes returns a copy of p's ordered axis definitions, or nil for an invalid pillar.
func (p Pillar) Axes() []Axis {
	defs, ok := axes[p]
	if !ok {
		return nil
	}
	out := make([]Axis, len(defs))
	copy(out, defs)
	return out
}

// Declares reports whether key is an axis of p.
func (p Pillar) Declares(key string) bool {
	for _, a := range axes[p] {
		if a.Key == key {
			return true
		}
	}
	return false
}
