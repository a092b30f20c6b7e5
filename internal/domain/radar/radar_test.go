package radar_test

import (
	"math"
	"testing"

	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Clamp bounds and rounds raw values", t, func() {
		So(radar.Clamp(0), ShouldEqual, 0)
		So(radar.Clamp(3), ShouldEqual, 3)
		So(radar.Clamp(4.26), ShouldEqual, 4.3)
		So(radar.Clamp(10), ShouldEqual, 10)
		So(radar.Clamp(47), ShouldEqual, 10)
		So(radar.Clamp(-2), ShouldEqual, 0)
		So(radar.Clamp(math.NaN()), ShouldEqual, 0)

		Convey("And it is idempotent", func() {
			for _, raw := range []float64{0, 0.05, 1.44, 9.96, 12, 365} {
				once := radar.Clamp(raw)
				So(radar.Clamp(once), ShouldEqual, once)
			}
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw counts for every pillar", t, func() {
		counts := map[string]int{}
		for _, p := range pillar.All {
			for i, a := range p.Axes() {
				counts[a.Key] = i * 4
			}
		}

		Convey("Every score is in [0,10], or nil exactly when the axis is coach-only", func() {
			for _, p := range pillar.All {
				s := radar.Normalize(counts, p.Axes())
				So(len(s.Values), ShouldEqual, len(p.Axes()))
				for _, a := range p.Axes() {
					So(s.CoachOnly[a.Key], ShouldEqual, a.CoachOnly)
					v := s.Values[a.Key]
					if a.CoachOnly {
						So(v, ShouldBeNil)
						continue
					}
					So(v, ShouldNotBeNil)
					So(*v, ShouldBeBetweenOrEqual, 0, 10)
				}
			}
		})

		Convey("Normalizing twice with the same counts yields the same scores", func() {
			a := radar.Normalize(counts, pillar.Physical.Axes())
			b := radar.Normalize(counts, pillar.Physical.Axes())
			So(a, ShouldResemble, b)
		})

		Convey("Mental coach-only axes stay unrated whatever the data says", func() {
			counts := map[string]int{"maturity": 7, "socially": 3, "work-ethic": 9, "solo": 2}
			s := radar.Normalize(counts, pillar.Mental.Axes())
			So(s.Values["maturity"], ShouldBeNil)
			So(s.Values["socially"], ShouldBeNil)
			So(s.Values["work-ethic"], ShouldBeNil)
			So(*s.Values["solo"], ShouldEqual, 2)
			So(s.Plot("maturity"), ShouldEqual, 0)
		})

		Convey("Three Strength & Conditioning sessions score 3.0 on both axes", func() {
			s := radar.Normalize(map[string]int{"strength": 3, "conditioning": 3}, pillar.Physical.Axes())
			So(*s.Values["strength"], ShouldEqual, 3.0)
			So(*s.Values["conditioning"], ShouldEqual, 3.0)
			So(*s.Values["speed"], ShouldEqual, 0)
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Given the default layout", t, func() {
		layout := radar.NewLayout()
		axes := pillar.Physical.Axes()
		scores := radar.Normalize(map[string]int{"speed": 5, "agility": 20}, axes)
		chart := layout.Build(axes, scores)

		Convey("The chart is renderable with one vertex per axis", func() {
			So(chart.Renderable, ShouldBeTrue)
			So(len(chart.Axes), ShouldEqual, len(axes))
			So(len(chart.Polygon), ShouldEqual, len(axes))
			So(chart.MaxScale, ShouldEqual, radar.DefaultMaxScale)
		})

		Convey("The first axis points to 12 o'clock and the next sits clockwise", func() {
			So(chart.Axes[0].End, ShouldResemble, radar.Point{X: 0, Y: -100})
			So(chart.Axes[1].End.X, ShouldBeGreaterThan, 0)
			So(chart.Axes[0].Angle, ShouldAlmostEqual, -math.Pi/2)
		})

		Convey("Vertices are scaled by score over ten", func() {
			So(chart.Polygon[0], ShouldResemble, radar.Point{X: 0, Y: -50})
			d := math.Hypot(chart.Polygon[1].X, chart.Polygon[1].Y)
			So(d, ShouldAlmostEqual, 100, 1e-5)
		})

		Convey("The grid has five rings at radius * level / 5", func() {
			So(len(chart.Grid), ShouldEqual, radar.DefaultGridLevels)
			for i, ring := range chart.Grid {
				So(len(ring), ShouldEqual, len(axes))
				So(math.Hypot(ring[0].X, ring[0].Y), ShouldAlmostEqual, 100*float64(i+1)/5, 1e-5)
			}
		})

		Convey("Legend rows show one decimal, or a dash for coach-only axes", func() {
			So(chart.Axes[0].Display, ShouldEqual, "5.0")
			So(chart.Axes[0].BarPercent, ShouldEqual, 50)
			So(chart.Axes[1].BarPercent, ShouldEqual, 100)
			last := chart.Axes[len(chart.Axes)-1]
			So(last.CoachOnly, ShouldBeTrue)
			So(last.Display, ShouldEqual, radar.NoScore)
			So(last.Score, ShouldBeNil)
			So(last.BarPercent, ShouldEqual, 0)
		})
	})

	Convey("Given a layout with a 365 legend ceiling and a custom radius", t, func() {
		layout := radar.NewLayout(radar.WithMaxScale(365), radar.WithRadius(50), radar.WithGridLevels(0))
		axes := pillar.Tactical.Axes()
		chart := layout.Build(axes, radar.Normalize(map[string]int{"build-out": 10}, axes))

		Convey("Bars are measured against the ceiling while vertices still use ten", func() {
			So(chart.Axes[0].BarPercent, ShouldAlmostEqual, 10.0/365*100, 1e-9)
			So(chart.Polygon[0], ShouldResemble, radar.Point{X: 0, Y: -50})
			So(len(chart.Grid), ShouldEqual, radar.DefaultGridLevels)
		})
	})

	Convey("Fewer than two axes is not renderable", t, func() {
		layout := radar.NewLayout()
		one := []pillar.Axis{{Key: "solo", Label: "Solo"}}
		chart := layout.Build(one, radar.Normalize(map[string]int{"solo": 1}, one))
		So(chart.Renderable, ShouldBeFalse)
		So(chart.Polygon, ShouldBeNil)
		So(chart.Grid, ShouldBeNil)
		So(len(chart.Axes), ShouldEqual, 1)

		empty := layout.Build(nil, radar.Scores{})
		So(empty.Renderable, ShouldBeFalse)
		So(empty.Axes, ShouldBeEmpty)
	})
}
