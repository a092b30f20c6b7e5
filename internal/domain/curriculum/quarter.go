package curriculum

import (
	"fmt"
	"time"
)

// Quarter identifies a 3-month accounting period.
type Quarter struct {
	Year   int `json:"year"`
	Number int `json:"number"`
}

// QuarterOf returns the quarter containing the calendar date of t in t's location.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Number: (int(t.Month())-1)/3 + 1}
}

// String formats q as e.g. "2026-Q4".
func (q Quarter) String() string {
	return fmt.Sprintf("%d-Q%d", q.Year, q.Number)
}

// Valid reports whether q has a quarter number in 1..4.
func (q Quarter) Valid() bool {
	return q.Number >= 1 && q.Number <= 4
}

// Window is the inclusive time span of a quarter.
type Window struct {
	Quarter Quarter
	Start   time.Time
	End     time.Time
}

// WindowOf returns the window of q, with bounds in loc.
// End is the last nanosecond of the quarter's last month.
func WindowOf(q Quarter, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	firstMonth := time.Month((q.Number-1)*3 + 1)
	start := time.Date(q.Year, firstMonth, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 3, 0).Add(-time.Nanosecond)
	return Window{Quarter: q, Start: start, End: end}
}

// CurrentWindow returns the window of the quarter containing now, read in loc.
func CurrentWindow(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	return WindowOf(QuarterOf(now.In(loc)), loc)
}

// Contains reports whether t falls inside w.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
