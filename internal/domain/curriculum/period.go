// Package curriculum resolves calendar dates to curriculum periods and
// derives the quarter window used to scope aggregation.
package curriculum

import "time"

// Period is a curriculum-period key such as "build-out".
type Period string

// The finite period set. Only the first four feed the tactical radar.
const (
	BuildOut        Period = "build-out"
	FinalThird      Period = "final-third"
	MiddleThird     Period = "middle-third"
	WidePlay        Period = "wide-play"
	Formations11v11 Period = "11v11-formations"
	SetPieces       Period = "set-pieces"
)

// DefaultPeriod is returned when no range matches a date.
const DefaultPeriod = BuildOut

// Periods lists every key ResolvePeriod can return.
var Periods = []Period{BuildOut, FinalThird, MiddleThird, WidePlay, Formations11v11, SetPieces}

// decemberWeeks rotates the four spider periods through December, one per week.
var decemberWeeks = [4]Period{BuildOut, FinalThird, MiddleThird, WidePlay}

// Range is an inclusive month/day span. A range whose end precedes its
// start wraps across the new year.
type Range struct {
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
	Period     Period
}

// Schedule is the yearly curriculum calendar outside December.
var Schedule = []Range{
	{StartMonth: time.January, StartDay: 1, EndMonth: time.February, EndDay: 14, Period: BuildOut},
	{StartMonth: time.February, StartDay: 15, EndMonth: time.March, EndDay: 31, Period: FinalThird},
	{StartMonth: time.April, StartDay: 1, EndMonth: time.May, EndDay: 15, Period: MiddleThird},
	{StartMonth: time.May, StartDay: 16, EndMonth: time.June, EndDay: 30, Period: WidePlay},
	{StartMonth: time.July, StartDay: 1, EndMonth: time.July, EndDay: 31, Period: Formations11v11},
	{StartMonth: time.August, StartDay: 1, EndMonth: time.August, EndDay: 31, Period: SetPieces},
	{StartMonth: time.September, StartDay: 1, EndMonth: time.September, EndDay: 30, Period: BuildOut},
	{StartMonth: time.October, StartDay: 1, EndMonth: time.October, EndDay: 31, Period: FinalThird},
	{StartMonth: time.November, StartDay: 1, EndMonth: time.November, EndDay: 15, Period: MiddleThird},
	{StartMonth: time.November, StartDay: 16, EndMonth: time.November, EndDay: 30, Period: WidePlay},
}

// monthDay packs a calendar date into a sortable integer.
func monthDay(m time.Month, d int) int {
	return int(m)*100 + d
}

// Contains reports whether month m, day d lies in r.
func (r Range) Contains(m time.Month, d int) bool {
	md := monthDay(m, d)
	start := monthDay(r.StartMonth, r.StartDay)
	end := monthDay(r.EndMonth, r.EndDay)
	if end < start {
		return md >= start || md <= end
	}
	return md >= start && md <= end
}

// DecemberWeek returns the 1-based December week for a day of month.
func DecemberWeek(day int) int {
	switch {
	case day <= 7:
		return 1
	case day <= 14:
		return 2
	case day <= 21:
		return 3
	default:
		return 4
	}
}

// ResolvePeriod maps the calendar date of t, read in t's own location,
// to a period key. It is total over every date.
func ResolvePeriod(t time.Time) Period {
	_, m, d := t.Date()
	if m == time.December {
		return decemberWeeks[DecemberWeek(d)-1]
	}
	for _, r := range Schedule {
		if r.Contains(m, d) {
			return r.Period
		}
	}
	return DefaultPeriod
}

// Resolver resolves periods in a fixed location so every caller shares
// one calendar-date policy.
type Resolver struct {
	loc *time.Location
}

// NewResolver returns a Resolver reading dates in loc (UTC when nil).
func NewResolver(loc *time.Location) Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return Resolver{loc: loc}
}

// Location returns the calendar location of r.
func (r Resolver) Location() *time.Location {
	if r.loc == nil {
		return time.UTC
	}
	return r.loc
}

// Resolve converts t into r's location and resolves its period.
func (r Resolver) Resolve(t time.Time) Period {
	return ResolvePeriod(t.In(r.Location()))
}
