// Package lunar annotates Gregorian dates with their Chinese lunisolar date.
// The arithmetic lives in github.com/6tail/lunar-go; this package only adapts
// it to the planner's Info value.
package lunar

import (
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"
)

// Info is the lunar annotation of one Gregorian day.
type Info struct {
	Day        int    `json:"day"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Leap       bool   `json:"leap"`
	YearCycle  string `json:"year_cycle"`
	MonthCycle string `json:"month_cycle"`
	DayCycle   string `json:"day_cycle"`
}

// Special reports whether the day is a new or full moon day (lunar 1 or 15).
func (i Info) Special() bool { return i.Day == 1 || i.Day == 15 }

// Short renders the compact cell label, e.g. "3/1" or "闰4/15".
func (i Info) Short() string {
	if i.Leap {
		return fmt.Sprintf("闰%d/%d", i.Month, i.Day)
	}
	return fmt.Sprintf("%d/%d", i.Month, i.Day)
}

// Long renders the cycle labels for detail views.
func (i Info) Long() string {
	return fmt.Sprintf("%s year, %s month, %s day (%s)", i.YearCycle, i.MonthCycle, i.DayCycle, i.Short())
}

// Converter maps a Gregorian day to its lunar annotation.
type Converter interface {
	Convert(day, month, year int) (Info, error)
}

// ConvertDate is a convenience over Converter for time values.
func ConvertDate(c Converter, t time.Time) (Info, error) {
	return c.Convert(t.Day(), int(t.Month()), t.Year())
}

// Chinese is the lunar-go backed Converter.
type Chinese struct{}

func (Chinese) Convert(day, month, year int) (Info, error) {
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, month) {
		return Info{}, fmt.Errorf("lunar: invalid date %04d-%02d-%02d", year, month, day)
	}
	l := calendar.NewSolarFromYmd(year, month, day).GetLunar()
	m := l.GetMonth()
	info := Info{
		Day:        l.GetDay(),
		Month:      m,
		Year:       l.GetYear(),
		YearCycle:  l.GetYearInGanZhi(),
		MonthCycle: l.GetMonthInGanZhi(),
		DayCycle:   l.GetDayInGanZhi(),
	}
	// lunar-go reports leap months as negative numbers.
	if m < 0 {
		info.Month = -m
		info.Leap = true
	}
	return info, nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
