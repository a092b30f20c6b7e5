package radar

import (
	"fmt"
	"math"

	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// Layout defaults.
const (
	DefaultRadius     = 100.0
	DefaultMaxScale   = 10.0
	DefaultGridLevels = 5
	MinAxes           = 2

	// NoScore is shown in the legend for an axis without a score.
	NoScore = "—"

	coordPrecision = 1e6
)

// Point is a position relative to the chart centre. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AxisView is one axis as the presentation layer draws it.
type AxisView struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	CoachOnly  bool     `json:"coach_only"`
	Score      *float64 `json:"score"`
	Display    string   `json:"display"`
	Angle      float64  `json:"angle"`
	End        Point    `json:"end"`
	BarPercent float64  `json:"bar_percent"`
}

// Chart is the drawable description of one pillar for one player.
type Chart struct {
	Pillar       pillar.Pillar      `json:"pillar"`
	PlayerID     string             `json:"player_id"`
	Quarter      curriculum.Quarter `json:"quarter"`
	Axes         []AxisView         `json:"axes"`
	Grid         [][]Point          `json:"grid,omitempty"`
	Polygon      []Point            `json:"polygon,omitempty"`
	Renderable   bool               `json:"renderable"`
	Unclassified int                `json:"unclassified"`
	MaxScale     float64            `json:"max_scale"`
	Radius       float64            `json:"radius"`
}

// Layout places axes on a circle and computes grid, polygon and legend.
type Layout struct {
	radius   float64
	maxScale float64
	levels   int
}

// NewLayout returns a Layout with the given options applied.
func NewLayout(opts ...Option) *Layout {
	l := &Layout{
		radius:   DefaultRadius,
		maxScale: DefaultMaxScale,
		levels:   DefaultGridLevels,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxScale returns the legend ceiling.
func (l *Layout) MaxScale() float64 { return l.maxScale }

// Radius returns the outer radius.
func (l *Layout) Radius() float64 { return l.radius }

// Angle returns the angle of axis i of n in radians. Axis 0 sits at
// 12 o'clock and the rest follow clockwise.
func Angle(i, n int) float64 {
	if n <= 0 {
		return -math.Pi / 2
	}
	return -math.Pi/2 + float64(i)*2*math.Pi/float64(n)
}

// Build lays out axes with their scores. Fewer than MinAxes axes produce a
// legend but no geometry and Renderable false.
func (l *Layout) Build(axes []pillar.Axis, scores Scores) Chart {
	n := len(axes)
	c := Chart{
		Axes:       make([]AxisView, 0, n),
		Renderable: n >= MinAxes,
		MaxScale:   l.maxScale,
		Radius:     l.radius,
	}

	for i, a := range axes {
		angle := Angle(i, n)
		v := AxisView{
			Key:       a.Key,
			Label:     a.Label,
			CoachOnly: scores.CoachOnly[a.Key] || a.CoachOnly,
			Angle:     angle,
			End:       polar(l.radius, angle),
			Display:   NoScore,
		}
		if s := scores.Values[a.Key]; s != nil && !v.CoachOnly {
			score := Clamp(*s)
			v.Score = &score
			v.Display = fmt.Sprintf("%.1f", score)
			v.BarPercent = l.barPercent(score)
		}
		c.Axes = append(c.Axes, v)
	}

	if !c.Renderable {
		return c
	}

	c.Grid = make([][]Point, 0, l.levels)
	for level := 1; level <= l.levels; level++ {
		r := l.radius * float64(level) / float64(l.levels)
		ring := make([]Point, n)
		for i := range axes {
			ring[i] = polar(r, Angle(i, n))
		}
		c.Grid = append(c.Grid, ring)
	}

	c.Polygon = make([]Point, n)
	for i, v := range c.Axes {
		plot := 0.0
		if v.Score != nil {
			plot = *v.Score
		}
		c.Polygon[i] = polar(l.radius*plot/MaxScore, v.Angle)
	}
	return c
}

// barPercent is the legend fill for score against the configured ceiling.
func (l *Layout) barPercent(score float64) float64 {
	return math.Min(100, math.Max(0, score/l.maxScale*100))
}

func polar(r, angle float64) Point {
	return Point{X: round(r * math.Cos(angle)), Y: round(r * math.Sin(angle))}
}

// round trims float noise so 12 o'clock is exactly X=0.
func round(v float64) float64 {
	v = math.Round(v*coordPrecision) / coordPrecision
	if v == 0 {
		return 0
	}
	return v
}
