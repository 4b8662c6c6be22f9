package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lunaday/internal/activity"
	"lunaday/internal/config"
	"lunaday/internal/gesture"
	"lunaday/internal/navigation"
	"lunaday/internal/planner"
)

type mode int

const (
	modeCalendar mode = iota
	modeAdd
	modeDetail
)

// compactWidth is the terminal width below which the toolbar collapses into a
// menu.
const compactWidth = 60

const (
	fieldTitle = iota
	fieldTime
	fieldDescription
	fieldCount
)

type settledMsg struct{}

type configMsg config.Config

type Model struct {
	planner    *planner.Planner
	cfg        config.Config
	classifier *gesture.Classifier
	reload     <-chan config.Config
	log        *zap.Logger
	now        func() time.Time

	mode     mode
	inputs   [fieldCount]textinput.Model
	focus    int
	cursor   int
	status   string
	width    int
	height   int
	menuOpen bool
	pressed  struct{ x, y int }
}

// Option configures a Model.
type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithReload subscribes the model to reloaded configs.
func WithReload(ch <-chan config.Config) Option {
	return func(m *Model) { m.reload = ch }
}

func New(p *planner.Planner, cfg config.Config, opts ...Option) Model {
	m := Model{
		planner:    p,
		cfg:        cfg,
		classifier: gesture.New(cfg.Profile()),
		log:        zap.NewNop(),
		now:        time.Now,
		status:     fmt.Sprintf("Drag to page or resize, click a day. '%s' adds an activity.", cfg.Keys.Add),
	}
	for _, opt := range opts {
		opt(&m)
	}

	placeholders := [fieldCount]string{"Title", "HH:MM (optional)", "Description (optional)"}
	limits := [fieldCount]int{120, 5, 512}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		m.inputs[i] = ti
	}
	return m
}

func Run(ctx context.Context, p *planner.Planner, cfg config.Config, opts ...Option) error {
	m := New(p, cfg, opts...)
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return waitForConfig(m.reload)
}

func waitForConfig(ch <-chan config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg(cfg)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = max(10, min(60, msg.Width-16))
		}
		if msg.Width >= compactWidth {
			m.menuOpen = false
		}
	case settledMsg:
		// Redraw only; the settle lock releases on its own clock.
	case configMsg:
		m.applyConfig(config.Config(msg))
		return m, waitForConfig(m.reload)
	}
	return m, nil
}

func (m *Model) applyConfig(cfg config.Config) {
	m.classifier.SetProfile(cfg.Profile())
	m.planner.SetSettleDelay(cfg.SettleDelay.Duration)
	m.cfg.Keys = cfg.Keys
	m.cfg.GestureProfile = cfg.GestureProfile
	m.cfg.Gestures = cfg.Gestures
	m.cfg.SettleDelay = cfg.SettleDelay
	m.status = "Config reloaded"
	m.log.Info("config applied", zap.String("gesture_profile", cfg.GestureProfile),
		zap.Duration("settle_delay", cfg.SettleDelay.Duration))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeDetail:
		return m.updateDetailMode(key)
	}
	return m.updateCalendarMode(key)
}

func (m Model) updateCalendarMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Next, "pgdown":
		return m.apply(gesture.NavigateNext)
	case k.Prev, "pgup":
		return m.apply(gesture.NavigatePrev)
	case k.Expand:
		return m.apply(gesture.ExpandPanel)
	case k.Collapse:
		return m.apply(gesture.CollapsePanel)
	case k.Today:
		m.planner.GoToToday()
		m.status = "Today"
	case k.Month:
		m.changeView(navigation.Month)
	case k.Week:
		m.changeView(navigation.Week)
	case k.Day:
		m.changeView(navigation.Day)
	case k.Left, "left":
		m.moveSelection(-1)
	case k.Right, "right":
		m.moveSelection(1)
	case k.Up, "up":
		m.moveSelection(-7)
	case k.Down, "down":
		m.moveSelection(7)
	case "tab":
		_, items := m.planner.Agenda()
		if len(items) > 0 {
			m.cursor = (m.cursor + 1) % len(items)
		}
	case k.Add:
		return m.openAdd()
	case k.Detail:
		_, items := m.planner.Agenda()
		if len(items) == 0 {
			m.status = "No activities on this day"
			return m, nil
		}
		m.openDetail(items[clampCursor(m.cursor, len(items))])
	}
	return m, nil
}

// apply routes an intent and schedules a redraw for when paging settles.
func (m Model) apply(intent gesture.Intent) (tea.Model, tea.Cmd) {
	if !m.planner.HandleIntent(intent) {
		if intent.Navigates() {
			m.log.Debug("intent dropped", zap.Stringer("intent", intent))
		}
		return m, nil
	}
	m.status = ""
	if intent.Navigates() {
		m.cursor = 0
		delay := m.planner.Navigation().SettleDelay()
		return m, tea.Tick(delay, func(time.Time) tea.Msg { return settledMsg{} })
	}
	return m, nil
}

func (m *Model) changeView(v navigation.View) {
	m.planner.ChangeView(v)
	m.menuOpen = false
	m.status = strings.ToUpper(v.String()[:1]) + v.String()[1:] + " view"
}

func (m *Model) moveSelection(days int) {
	m.planner.MoveSelection(days)
	m.cursor = 0
}

func (m *Model) selectDay(d activity.Date) {
	if !m.planner.Click(d) {
		m.status = fmt.Sprintf("%s is outside %s", d, m.planner.Title())
		return
	}
	m.cursor = 0
	m.status = ""
}

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	panel := m.planner.Panel()
	panel.OpenAdd(m.now())
	m.mode = modeAdd
	m.menuOpen = false
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldTitle
	m.status = fmt.Sprintf("New activity on %s", panel.Target())
	cmd := m.inputs[fieldTitle].Focus()
	return m, cmd
}

func (m *Model) openDetail(a activity.Activity) {
	m.planner.Panel().OpenDetail(a)
	m.mode = modeDetail
	m.status = ""
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	panel := m.planner.Panel()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		panel.CancelAdd()
		m.mode = modeCalendar
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		return m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m.focusField(m.focus - 1)
	case m.cfg.Keys.Confirm:
		if err := panel.Validate(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		a, err := panel.Submit()
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.mode = modeCalendar
		m.status = fmt.Sprintf("Added %q on %s", a.Title, a.Date)
		return m, nil
	default:
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.syncDraft()
		return m, cmd
	}
}

func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = wrapIndex(i, fieldCount)
	cmd := m.inputs[m.focus].Focus()
	return m, cmd
}

func (m Model) syncDraft() {
	m.planner.Panel().SetDraft(planner.Draft{
		Title:       m.inputs[fieldTitle].Value(),
		Time:        m.inputs[fieldTime].Value(),
		Description: m.inputs[fieldDescription].Value(),
	})
}

func (m Model) updateDetailMode(key string) (tea.Model, tea.Cmd) {
	panel := m.planner.Panel()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel, m.cfg.Keys.Quit:
		panel.CloseDetail()
		m.mode = modeCalendar
	case m.cfg.Keys.Delete:
		a, ok := panel.Viewing()
		if !ok {
			m.mode = modeCalendar
			return m, nil
		}
		panel.Delete(a)
		m.mode = modeCalendar
		m.cursor = 0
		m.status = fmt.Sprintf("Deleted %q", a.Title)
	}
	return m, nil
}

func wrapIndex(idx, n int) int {
	if n == 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n == 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
