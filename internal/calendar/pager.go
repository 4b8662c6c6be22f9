// Package calendar is the minimal calendar widget behind navigation.Port: a
// pager over the focused date plus the grid of days each view shows.
package calendar

import (
	"time"

	"lunaday/internal/activity"
	"lunaday/internal/navigation"
)

// Pager tracks the focused date and active view.
type Pager struct {
	now     func() time.Time
	focused time.Time
	view    navigation.View
}

var _ navigation.Port = (*Pager)(nil)

// NewPager focuses today in the given view.
func NewPager(now func() time.Time, view navigation.View) *Pager {
	if now == nil {
		now = time.Now
	}
	p := &Pager{now: now, view: view}
	p.Today()
	return p
}

func (p *Pager) Next() { p.step(1) }

func (p *Pager) Prev() { p.step(-1) }

func (p *Pager) Today() {
	p.focused = activity.DateOf(p.now()).Time()
}

func (p *Pager) ChangeView(v navigation.View) { p.view = v }

func (p *Pager) FocusedDate() time.Time { return p.focused }

func (p *Pager) View() navigation.View { return p.view }

// Focus jumps to d without changing the view.
func (p *Pager) Focus(d activity.Date) { p.focused = d.Time() }

func (p *Pager) step(dir int) {
	switch p.view {
	case navigation.Week:
		p.focused = p.focused.AddDate(0, 0, 7*dir)
	case navigation.Day:
		p.focused = p.focused.AddDate(0, 0, dir)
	default:
		p.focused = addMonths(p.focused, dir)
	}
}

// addMonths moves by whole months, clamping the day so Jan 31 + 1 lands on
// the last day of February instead of spilling into March.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := DaysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Time) int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return first.AddDate(0, 1, -1).Day()
}

// MonthGrid returns the Sunday-first week rows covering focused's month,
// padded with the neighbouring months' days.
func MonthGrid(focused time.Time) [][]activity.Date {
	first := time.Date(focused.Year(), focused.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	rows := (offset + DaysIn(first) + 6) / 7

	start := first.AddDate(0, 0, -offset)
	grid := make([][]activity.Date, rows)
	for r := range grid {
		week := make([]activity.Date, 7)
		for c := range week {
			week[c] = activity.DateOf(start.AddDate(0, 0, r*7+c))
		}
		grid[r] = week
	}
	return grid
}

// WeekOf returns the Sunday-first week containing focused.
func WeekOf(focused time.Time) []activity.Date {
	d := activity.DateOf(focused).Time()
	start := d.AddDate(0, 0, -int(d.Weekday()))
	week := make([]activity.Date, 7)
	for i := range week {
		week[i] = activity.DateOf(start.AddDate(0, 0, i))
	}
	return week
}

// Visible returns the rows of days a view shows.
func Visible(focused time.Time, view navigation.View) [][]activity.Date {
	switch view {
	case navigation.Week:
		return [][]activity.Date{WeekOf(focused)}
	case navigation.Day:
		return [][]activity.Date{{activity.DateOf(focused)}}
	default:
		return MonthGrid(focused)
	}
}
