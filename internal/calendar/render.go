package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lunaday/internal/activity"
)

// CellLines is the height of one day cell: the solar day and its lunar label.
const CellLines = 2

// Cell describes one day as the planner wants it drawn.
type Cell struct {
	Date           activity.Date
	Day            int
	Lunar          string
	HasActivities  bool
	Highlight      bool
	Selected       bool
	InFocusedMonth bool
	Today          bool
}

// Options controls the styling of the rendered grid.
type Options struct {
	CellWidth      int
	ShowHeader     bool
	HeaderStyle    lipgloss.Style
	DayStyle       lipgloss.Style
	OutsideStyle   lipgloss.Style
	EntryStyle     lipgloss.Style
	HighlightStyle lipgloss.Style
	TodayStyle     lipgloss.Style
	SelectedStyle  lipgloss.Style
}

func DefaultOptions() Options {
	return Options{
		CellWidth:      7,
		ShowHeader:     true,
		HeaderStyle:    lipgloss.NewStyle().Bold(true),
		DayStyle:       lipgloss.NewStyle(),
		OutsideStyle:   lipgloss.NewStyle().Faint(true),
		EntryStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		HighlightStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		TodayStyle:     lipgloss.NewStyle().Bold(true).Underline(true),
		SelectedStyle:  lipgloss.NewStyle().Reverse(true),
	}
}

// Render draws rows of days, asking cell for each day's content.
func Render(rows [][]activity.Date, cell func(activity.Date) Cell, opts Options) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	width := opts.CellWidth
	if width < 4 {
		width = 4
	}

	var lines []string
	if opts.ShowHeader {
		names := make([]string, len(rows[0]))
		for i, d := range rows[0] {
			names[i] = opts.HeaderStyle.Width(width).Render(d.Time().Weekday().String()[:2])
		}
		lines = append(lines, strings.Join(names, " "))
	}

	for _, week := range rows {
		top := make([]string, len(week))
		bottom := make([]string, len(week))
		for i, d := range week {
			c := cell(d)
			style := cellStyle(c, opts).Width(width).MaxWidth(width)
			top[i] = style.Render(dayLabel(c))
			bottom[i] = style.Render(c.Lunar)
		}
		lines = append(lines, strings.Join(top, " "), strings.Join(bottom, " "))
	}
	return strings.Join(lines, "\n")
}

// HitTest maps a position relative to the top-left of the rendered grid to the
// day under it. Gaps between columns and the header miss.
func HitTest(rows [][]activity.Date, opts Options, x, y int) (activity.Date, bool) {
	width := opts.CellWidth
	if width < 4 {
		width = 4
	}
	if opts.ShowHeader {
		y--
	}
	if x < 0 || y < 0 {
		return activity.Date{}, false
	}
	row := y / CellLines
	col := x / (width + 1)
	if x%(width+1) == width {
		return activity.Date{}, false
	}
	if row >= len(rows) || col >= len(rows[row]) {
		return activity.Date{}, false
	}
	return rows[row][col], true
}

// Height is the number of lines Render produces for rows.
func Height(rows [][]activity.Date, opts Options) int {
	h := len(rows) * CellLines
	if opts.ShowHeader {
		h++
	}
	return h
}

func dayLabel(c Cell) string {
	if c.HasActivities {
		return fmt.Sprintf("%2d •", c.Day)
	}
	return fmt.Sprintf("%2d", c.Day)
}

func cellStyle(c Cell, opts Options) lipgloss.Style {
	style := opts.DayStyle
	if !c.InFocusedMonth {
		style = opts.OutsideStyle
	}
	// Inherit never overrides, so the strongest marker goes first.
	if c.Selected {
		style = style.Inherit(opts.SelectedStyle)
	}
	if c.Today {
		style = style.Inherit(opts.TodayStyle)
	}
	if c.Highlight {
		style = style.Inherit(opts.HighlightStyle)
	}
	if c.HasActivities {
		style = style.Inherit(opts.EntryStyle)
	}
	return style
}
