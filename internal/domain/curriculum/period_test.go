package curriculum_test

import (
	"testing"
	"time"

	"github.com/okian/pitchside/internal/domain/curriculum"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestResolvePeriod_IsTotal(t *testing.T) {
	Convey("Given every day of a leap year", t, func() {
		known := map[curriculum.Period]bool{}
		for _, p := range curriculum.Periods {
			known[p] = true
		}

		Convey("Then each date resolves to one of the six period keys", func() {
			day := date(2024, time.January, 1)
			count := 0
			for day.Year() == 2024 {
				p := curriculum.ResolvePeriod(day)
				So(known[p], ShouldBeTrue)
				day = day.AddDate(0, 0, 1)
				count++
			}
			So(count, ShouldEqual, 366)
		})

		Convey("And Feb 29 resolves inside the Feb 15 range", func() {
			So(curriculum.ResolvePeriod(date(2024, time.February, 29)), ShouldEqual, curriculum.FinalThird)
		})
	})
}

func TestResolvePeriod_December(t *testing.T) {
	Convey("Given December dates", t, func() {
		cases := []struct {
			first, last int
			want        curriculum.Period
		}{
			{1, 7, curriculum.BuildOut},
			{8, 14, curriculum.FinalThird},
			{15, 21, curriculum.MiddleThird},
			{22, 31, curriculum.WidePlay},
		}

		Convey("Then weeks rotate through the four spider periods", func() {
			for _, c := range cases {
				for d := c.first; d <= c.last; d++ {
					So(curriculum.ResolvePeriod(date(2025, time.December, d)), ShouldEqual, c.want)
				}
			}
		})

		Convey("And DecemberWeek partitions by day of month", func() {
			So(curriculum.DecemberWeek(1), ShouldEqual, 1)
			So(curriculum.DecemberWeek(7), ShouldEqual, 1)
			So(curriculum.DecemberWeek(8), ShouldEqual, 2)
			So(curriculum.DecemberWeek(21), ShouldEqual, 3)
			So(curriculum.DecemberWeek(22), ShouldEqual, 4)
			So(curriculum.DecemberWeek(31), ShouldEqual, 4)
		})
	})
}

func TestResolvePeriod_Schedule(t *testing.T) {
	Convey("Given dates on range boundaries", t, func() {
		So(curriculum.ResolvePeriod(date(2026, time.February, 14)), ShouldEqual, curriculum.BuildOut)
		So(curriculum.ResolvePeriod(date(2026, time.February, 15)), ShouldEqual, curriculum.FinalThird)
		So(curriculum.ResolvePeriod(date(2026, time.March, 31)), ShouldEqual, curriculum.FinalThird)
		So(curriculum.ResolvePeriod(date(2026, time.April, 1)), ShouldEqual, curriculum.MiddleThird)
		So(curriculum.ResolvePeriod(date(2026, time.July, 4)), ShouldEqual, curriculum.Formations11v11)
		So(curriculum.ResolvePeriod(date(2026, time.August, 20)), ShouldEqual, curriculum.SetPieces)
		So(curriculum.ResolvePeriod(date(2026, time.November, 16)), ShouldEqual, curriculum.WidePlay)
	})
}

func TestRange_Contains(t *testing.T) {
	Convey("Given a range that wraps the new year", t, func() {
		r := curriculum.Range{StartMonth: time.November, StartDay: 20, EndMonth: time.February, EndDay: 10}

		Convey("Then dates on either side of the wrap are contained", func() {
			So(r.Contains(time.November, 20), ShouldBeTrue)
			So(r.Contains(time.December, 31), ShouldBeTrue)
			So(r.Contains(time.January, 15), ShouldBeTrue)
			So(r.Contains(time.February, 10), ShouldBeTrue)
		})

		Convey("And dates between end and start are not", func() {
			So(r.Contains(time.February, 11), ShouldBeFalse)
			So(r.Contains(time.June, 1), ShouldBeFalse)
			So(r.Contains(time.November, 19), ShouldBeFalse)
		})
	})
}

func TestResolver_UsesItsLocation(t *testing.T) {
	Convey("Given an instant that is Nov 30 in UTC but Dec 1 east of UTC", t, func() {
		instant := time.Date(2025, time.November, 30, 22, 0, 0, 0, time.UTC)
		east := time.FixedZone("UTC+5", 5*60*60)

		Convey("Then the resolver reads the calendar date in its own zone", func() {
			So(curriculum.NewResolver(time.UTC).Resolve(instant), ShouldEqual, curriculum.WidePlay)
			So(curriculum.NewResolver(east).Resolve(instant), ShouldEqual, curriculum.BuildOut)
		})

		Convey("And a nil location falls back to UTC", func() {
			So(curriculum.NewResolver(nil).Location(), ShouldEqual, time.UTC)
		})
	})
}
