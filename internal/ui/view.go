package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lunaday/internal/calendar"
	"lunaday/internal/config"
	"lunaday/internal/navigation"
)

var (
	buttonStyle = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = buttonStyle.Reverse(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func buttonWidth(b button) int {
	return lipgloss.Width(b.label) + buttonStyle.GetHorizontalPadding()
}

func (m Model) View() string {
	var lines []string
	lines = append(lines, m.renderToolbar()...)
	lines = append(lines, "")
	lines = append(lines, calendar.Render(m.planner.Visible(), m.planner.Cell, m.gridOptions()))
	lines = append(lines, "")

	switch m.mode {
	case modeAdd:
		lines = append(lines, m.renderAddModal())
	case modeDetail:
		lines = append(lines, m.renderDetailModal())
	default:
		lines = append(lines, m.renderAgenda()...)
	}

	lines = append(lines, "", m.status, renderHelp(m.cfg.Keys))
	return strings.Join(lines, "\n")
}

func (m Model) renderToolbar() []string {
	view := m.planner.ViewState().View
	rows := m.toolbarRows()
	out := make([]string, len(rows))
	for i, row := range rows {
		parts := make([]string, len(row))
		for j, b := range row {
			style := buttonStyle
			if isActiveView(b.action, view) {
				style = activeStyle
			}
			parts[j] = style.Render(b.label)
		}
		out[i] = strings.Join(parts, " ")
	}
	out[0] += "  " + titleStyle.Render(m.planner.Title())
	return out
}

func isActiveView(a action, v navigation.View) bool {
	switch a {
	case actMonth:
		return v == navigation.Month
	case actWeek:
		return v == navigation.Week
	case actDay:
		return v == navigation.Day
	}
	return false
}

func (m Model) gridOptions() calendar.Options {
	opts := calendar.DefaultOptions()
	if m.planner.ViewState().View == navigation.Day {
		opts.CellWidth = 30
		if m.width > 0 {
			opts.CellWidth = max(4, min(30, m.width))
		}
		return opts
	}
	if m.width > 0 {
		opts.CellWidth = max(4, min(12, (m.width-6)/7))
	}
	return opts
}

// agendaCapacity is the number of activity lines the day panel shows at the
// current height level.
func (m Model) agendaCapacity() int {
	return max(1, m.planner.Height().Rows()-1)
}

// agendaVisible is how many of n activities get their own line; when they
// overflow, the last line summarises the rest.
func (m Model) agendaVisible(n int) int {
	capacity := m.agendaCapacity()
	if n > capacity {
		return capacity - 1
	}
	return n
}

func (m Model) renderAgenda() []string {
	day, items := m.planner.Agenda()
	header := day.Time().Format("Mon Jan 2")
	if info, ok := m.planner.Lunar(day); ok {
		header += " · " + info.Long()
	}
	lines := []string{titleStyle.Render(header)}

	capacity := m.agendaCapacity()
	shown := m.agendaVisible(len(items))
	cursor := clampCursor(m.cursor, len(items))
	for i := 0; i < capacity; i++ {
		switch {
		case i < shown:
			a := items[i]
			marker := " "
			if i == cursor {
				marker = ">"
			}
			when := "     "
			if a.Time != "" {
				when = a.Time
			}
			lines = append(lines, fmt.Sprintf("%s %s %s", marker, when, a.Title))
		case i == shown && len(items) > shown:
			lines = append(lines, faintStyle.Render(fmt.Sprintf("  … and %d more", len(items)-shown)))
		case i == 0 && len(items) == 0:
			lines = append(lines, faintStyle.Render("  No activities."))
		default:
			lines = append(lines, "")
		}
	}
	return lines
}

func (m Model) renderAddModal() string {
	panel := m.planner.Panel()
	target := panel.Target().String()
	if info, ok := panel.TargetLunar(); ok {
		target += " · " + info.Short()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New activity on " + target))
	b.WriteString("\n\n")
	labels := [fieldCount]string{"Title", "Time", "Notes"}
	for i := range m.inputs {
		fmt.Fprintf(&b, "%-6s %s\n", labels[i], m.inputs[i].View())
	}
	b.WriteString("\n")
	if panel.CanSubmit() {
		fmt.Fprintf(&b, "%s save • %s cancel • tab next field", m.cfg.Keys.Confirm, m.cfg.Keys.Cancel)
	} else {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%s save (needs a title) • %s cancel", m.cfg.Keys.Confirm, m.cfg.Keys.Cancel)))
	}
	return modalStyle.Render(b.String())
}

func (m Model) renderDetailModal() string {
	a, ok := m.planner.Panel().Viewing()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.Title))
	b.WriteString("\n")
	b.WriteString(a.Date.String())
	if a.Time != "" {
		b.WriteString(" · " + a.Time)
	}
	if info, ok := m.planner.Lunar(a.Date); ok {
		b.WriteString("\n" + info.Long())
	}
	if a.Description != "" {
		b.WriteString("\n\n" + a.Description)
	}
	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%s delete • %s close", m.cfg.Keys.Delete, m.cfg.Keys.Cancel)))
	return modalStyle.Render(b.String())
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s page • %s/%s resize • %s%s%s%s move • %s/%s/%s view • %s today • %s add • %s detail • %s quit",
		k.Prev, k.Next, k.Expand, k.Collapse, k.Left, k.Down, k.Up, k.Right,
		k.Month, k.Week, k.Day, k.Today, k.Add, k.Detail, k.Quit)
}
