package curriculum_test

import (
	"testing"
	"time"

	"github.com/okian/pitchside/internal/domain/curriculum"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuarterOf(t *testing.T) {
	Convey("Given dates across the year", t, func() {
		So(curriculum.QuarterOf(date(2026, time.January, 1)), ShouldResemble, curriculum.Quarter{Year: 2026, Number: 1})
		So(curriculum.QuarterOf(date(2026, time.March, 31)), ShouldResemble, curriculum.Quarter{Year: 2026, Number: 1})
		So(curriculum.QuarterOf(date(2026, time.April, 1)), ShouldResemble, curriculum.Quarter{Year: 2026, Number: 2})
		So(curriculum.QuarterOf(date(2026, time.October, 14)), ShouldResemble, curriculum.Quarter{Year: 2026, Number: 4})
		So(curriculum.Quarter{Year: 2026, Number: 4}.String(), ShouldEqual, "2026-Q4")
		So(curriculum.Quarter{Year: 2026, Number: 5}.Valid(), ShouldBeFalse)
	})
}

func TestWindowOf(t *testing.T) {
	Convey("Given the fourth quarter of 2026", t, func() {
		w := curriculum.WindowOf(curriculum.Quarter{Year: 2026, Number: 4}, time.UTC)

		Convey("Then it spans Oct 1 through the last instant of Dec 31", func() {
			So(w.Start.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(w.End.Equal(time.Date(2026, time.December, 31, 23, 59, 59, 999999999, time.UTC)), ShouldBeTrue)
		})

		Convey("And containment is inclusive on both bounds", func() {
			So(w.Contains(w.Start), ShouldBeTrue)
			So(w.Contains(w.End), ShouldBeTrue)
			So(w.Contains(w.End.Add(time.Nanosecond)), ShouldBeFalse)
			So(w.Contains(w.Start.Add(-time.Nanosecond)), ShouldBeFalse)
		})
	})

	Convey("Given the first quarter of a leap year", t, func() {
		w := curriculum.WindowOf(curriculum.Quarter{Year: 2024, Number: 1}, time.UTC)
		So(w.End.Equal(time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC)), ShouldBeTrue)
	})
}

func TestCurrentWindow(t *testing.T) {
	Convey("Given now at a quarter boundary in a zone ahead of UTC", t, func() {
		east := time.FixedZone("UTC+5", 5*60*60)
		now := time.Date(2026, time.September, 30, 21, 0, 0, 0, time.UTC)

		Convey("Then the quarter is read in that zone", func() {
			So(curriculum.CurrentWindow(now, time.UTC).Quarter.Number, ShouldEqual, 3)
			So(curriculum.CurrentWindow(now, east).Quarter.Number, ShouldEqual, 4)
		})
	})
}
