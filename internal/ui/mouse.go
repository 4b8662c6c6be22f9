package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lunaday/internal/calendar"
	"lunaday/internal/gesture"
	"lunaday/internal/navigation"
)

// action is what a toolbar button does.
type action int

const (
	actPrev action = iota
	actNext
	actToday
	actMonth
	actWeek
	actDay
	actAdd
	actMenu
)

type button struct {
	label  string
	action action
}

// handleMouse feeds the gesture classifier. Presses on the toolbar or inside a
// modal are interactive: they act directly and never start a gesture.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sample := gesture.Sample{X: float64(msg.X), Y: float64(msg.Y), At: m.now()}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.mode != modeCalendar {
			sample.Interactive = true
			m.classifier.Begin(sample)
			return m, nil
		}
		if msg.Y < m.toolbarLines() {
			sample.Interactive = true
			m.classifier.Begin(sample)
			if b, ok := m.buttonAt(msg.X, msg.Y); ok {
				return m.press(b.action)
			}
			return m, nil
		}
		m.classifier.Begin(sample)
		m.pressAt(msg.X, msg.Y)
	case tea.MouseActionMotion:
		m.classifier.Move(sample)
	case tea.MouseActionRelease:
		if !m.classifier.Active() {
			return m, nil
		}
		intent := m.classifier.End(sample)
		m.log.Debug("gesture", zap.Stringer("intent", intent),
			zap.Int("x", msg.X), zap.Int("y", msg.Y))
		if intent == gesture.Tap {
			m.tap(m.pressed.x, m.pressed.y)
			return m, nil
		}
		return m.apply(intent)
	}
	return m, nil
}

func (m *Model) pressAt(x, y int) {
	m.pressed.x, m.pressed.y = x, y
}

// tap resolves a click on the grid or the agenda.
func (m *Model) tap(x, y int) {
	top := m.gridTop()
	rows := m.planner.Visible()
	opts := m.gridOptions()
	if d, ok := calendar.HitTest(rows, opts, x, y-top); ok {
		m.selectDay(d)
		return
	}

	// Agenda lines start below the grid, the blank spacer and the day header.
	line := y - (top + calendar.Height(rows, opts) + 2)
	if line < 0 {
		return
	}
	_, items := m.planner.Agenda()
	if line < m.agendaVisible(len(items)) {
		m.cursor = line
		m.openDetail(items[line])
	}
}

func (m Model) press(a action) (tea.Model, tea.Cmd) {
	switch a {
	case actPrev:
		return m.apply(gesture.NavigatePrev)
	case actNext:
		return m.apply(gesture.NavigateNext)
	case actToday:
		m.planner.GoToToday()
		m.menuOpen = false
		m.status = "Today"
	case actMonth:
		m.changeView(navigation.Month)
	case actWeek:
		m.changeView(navigation.Week)
	case actDay:
		m.changeView(navigation.Day)
	case actAdd:
		return m.openAdd()
	case actMenu:
		m.menuOpen = !m.menuOpen
	}
	return m, nil
}

func (m Model) compact() bool {
	return m.width > 0 && m.width < compactWidth
}

// toolbarRows lists the clickable buttons of each toolbar line.
func (m Model) toolbarRows() [][]button {
	if !m.compact() {
		return [][]button{{
			{"‹ Prev", actPrev}, {"Today", actToday}, {"Next ›", actNext},
			{"Month", actMonth}, {"Week", actWeek}, {"Day", actDay},
			{"+ Add", actAdd},
		}}
	}
	rows := [][]button{{{"‹", actPrev}, {"›", actNext}, {"Menu", actMenu}}}
	if m.menuOpen {
		rows = append(rows, []button{
			{"Month", actMonth}, {"Week", actWeek}, {"Day", actDay},
			{"Today", actToday}, {"+ Add", actAdd},
		})
	}
	return rows
}

func (m Model) toolbarLines() int { return len(m.toolbarRows()) }

// gridTop is the first screen line of the calendar grid: the toolbar plus one
// blank line.
func (m Model) gridTop() int { return m.toolbarLines() + 1 }

func (m Model) buttonAt(x, y int) (button, bool) {
	rows := m.toolbarRows()
	if y < 0 || y >= len(rows) {
		return button{}, false
	}
	pos := 0
	for _, b := range rows[y] {
		w := buttonWidth(b)
		if x >= pos && x < pos+w {
			return b, true
		}
		pos += w + 1
	}
	return button{}, false
}
