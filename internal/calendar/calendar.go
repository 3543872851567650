// Package calendar holds the day arithmetic shared by the delivery calendar
// grid and the billing calculator. All values are calendar dates represented
// as UTC midnights carrying the wall-clock date of their source location, so
// dates read from a DATE column and "today" in the vendor's timezone compare
// directly.
package calendar

import (
	"fmt"
	"time"

	"github.com/sjperalta/dairydash-api/internal/models"
)

const day = 24 * time.Hour

// Day truncates t to its calendar date in t's own location
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now as seen in loc
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(now.In(loc))
}

// Parse reads a YYYY-MM-DD date
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseMonth reads a YYYY-MM month and returns its first and last day
func ParseMonth(s string) (time.Time, time.Time, error) {
	t, err := time.Parse(models.MonthLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	first, last := MonthBounds(t)
	return first, last, nil
}

// MonthBounds returns the first and last calendar day of t's month
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// DaysInclusive counts calendar days from start to end, both included.
// It is 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start)/day) + 1
}

// Window is an inclusive range of calendar days
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow truncates both bounds to calendar days
func NewWindow(start, end time.Time) Window {
	return Window{Start: Day(start), End: Day(end)}
}

// Days is the inclusive day count of the window, 0 when End < Start
func (w Window) Days() int {
	return DaysInclusive(w.Start, w.End)
}

// Empty reports whether the window holds no day
func (w Window) Empty() bool {
	return w.End.Before(w.Start)
}

// Contains reports whether d falls inside the window
func (w Window) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Clamp narrows w to the days it shares with other
func (w Window) Clamp(other Window) Window {
	out := w
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out
}
