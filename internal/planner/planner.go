// Package planner wires the controllers into one day planner: it routes
// gesture intents, answers the per-cell rendering callback and owns the modal
// panel.
package planner

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"lunaday/internal/activity"
	"lunaday/internal/calendar"
	"lunaday/internal/gesture"
	"lunaday/internal/layout"
	"lunaday/internal/lunar"
	"lunaday/internal/navigation"
)

// Settings are the tunables a planner starts with.
type Settings struct {
	SettleDelay time.Duration
	PanelRows   []int
	View        navigation.View
}

// ViewState is the read-only snapshot the renderer draws from.
type ViewState struct {
	View        navigation.View
	Focused     activity.Date
	Selected    activity.Date
	HasSelected bool
	HeightLevel int
}

type Option func(*Planner)

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(p *Planner) { p.log = log }
}

// WithLunar replaces the lunar-go converter.
func WithLunar(conv lunar.Converter) Option {
	return func(p *Planner) { p.lunar = conv }
}

type Planner struct {
	store  *activity.Store
	pager  *calendar.Pager
	nav    *navigation.Controller
	height *layout.Height
	panel  *Panel
	lunar  lunar.Converter
	log    *zap.Logger
	now    func() time.Time

	lunarCache map[activity.Date]lunarEntry
}

type lunarEntry struct {
	info lunar.Info
	ok   bool
}

func New(store *activity.Store, s Settings, opts ...Option) (*Planner, error) {
	p := &Planner{
		store:      store,
		lunar:      lunar.Chinese{},
		log:        zap.NewNop(),
		now:        time.Now,
		lunarCache: make(map[activity.Date]lunarEntry),
	}
	for _, opt := range opts {
		opt(p)
	}

	height, err := layout.NewHeight(s.PanelRows, 1)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	p.height = height
	p.pager = calendar.NewPager(p.now, s.View)
	p.nav = navigation.New(p.pager, s.SettleDelay,
		navigation.WithClock(p.now),
		navigation.WithLogger(p.log.Named("navigation")),
		navigation.WithLunar(p.lunar))
	p.nav.ChangeView(s.View)
	p.panel = NewPanel(store, p.nav, p.lunar, p.log.Named("panel"))
	return p, nil
}

func (p *Planner) Store() *activity.Store { return p.store }

func (p *Planner) Navigation() *navigation.Controller { return p.nav }

func (p *Planner) Height() *layout.Height { return p.height }

func (p *Planner) Panel() *Panel { return p.panel }

// HandleIntent routes a classified gesture to navigation or the panel height.
// Taps are resolved by the caller as clicks. It reports whether anything
// changed.
func (p *Planner) HandleIntent(intent gesture.Intent) bool {
	switch {
	case intent.Navigates():
		return p.nav.HandleIntent(intent)
	case intent.Resizes():
		changed := p.height.Apply(intent)
		if changed {
			p.log.Debug("panel resized", zap.Int("level", p.height.Level()))
		}
		return changed
	default:
		return false
	}
}

// Click selects d when it belongs to the focused month.
func (p *Planner) Click(d activity.Date) bool {
	return p.nav.HandleDateClick(d)
}

// MoveSelection selects the day offset days from the current selection (or
// the focused day), bringing it into focus first so the move never gets
// swallowed at a month edge.
func (p *Planner) MoveSelection(days int) {
	base, ok := p.nav.Selected()
	if !ok {
		base = activity.DateOf(p.pager.FocusedDate())
	}
	target := activity.DateOf(base.Time().AddDate(0, 0, days))
	p.pager.Focus(target)
	p.nav.HandleDateClick(target)
}

func (p *Planner) ChangeView(v navigation.View) { p.nav.ChangeView(v) }

func (p *Planner) GoToToday() { p.nav.GoToToday() }

// Visible returns the day rows of the current view.
func (p *Planner) Visible() [][]activity.Date {
	return calendar.Visible(p.pager.FocusedDate(), p.pager.View())
}

func (p *Planner) ViewState() ViewState {
	sel, ok := p.nav.Selected()
	return ViewState{
		View:        p.nav.View(),
		Focused:     activity.DateOf(p.pager.FocusedDate()),
		Selected:    sel,
		HasSelected: ok,
		HeightLevel: p.height.Level(),
	}
}

// Cell is the per-cell rendering callback.
func (p *Planner) Cell(d activity.Date) calendar.Cell {
	focused := activity.DateOf(p.pager.FocusedDate())
	sel, hasSel := p.nav.Selected()
	c := calendar.Cell{
		Date:           d,
		Day:            d.Day,
		HasActivities:  p.store.Has(d),
		Selected:       hasSel && sel == d,
		InFocusedMonth: d.SameMonth(focused),
		Today:          d == activity.DateOf(p.now()),
	}
	if info, ok := p.Lunar(d); ok {
		c.Lunar = info.Short()
		c.Highlight = info.Special()
	}
	c.Highlight = c.Highlight || c.Selected
	return c
}

// Lunar converts d, caching the result.
func (p *Planner) Lunar(d activity.Date) (lunar.Info, bool) {
	if e, ok := p.lunarCache[d]; ok {
		return e.info, e.ok
	}
	info, err := lunar.ConvertDate(p.lunar, d.Time())
	if err != nil {
		p.log.Debug("lunar lookup failed", zap.Stringer("date", d), zap.Error(err))
	}
	p.lunarCache[d] = lunarEntry{info: info, ok: err == nil}
	return info, err == nil
}

// Agenda lists the activities of the selected day, or of the focused day.
func (p *Planner) Agenda() (activity.Date, []activity.Activity) {
	d, ok := p.nav.Selected()
	if !ok {
		d = activity.DateOf(p.pager.FocusedDate())
	}
	return d, p.store.ActivitiesFor(d)
}

// Title names the focused period for the toolbar.
func (p *Planner) Title() string {
	focused := p.pager.FocusedDate()
	switch p.pager.View() {
	case navigation.Week:
		week := calendar.WeekOf(focused)
		first, last := week[0].Time(), week[len(week)-1].Time()
		return fmt.Sprintf("%s - %s", first.Format("Jan 2"), last.Format("Jan 2, 2006"))
	case navigation.Day:
		return focused.Format("Monday, January 2, 2006")
	default:
		return focused.Format("January 2006")
	}
}

// SetSettleDelay applies a reloaded settle delay.
func (p *Planner) SetSettleDelay(d time.Duration) { p.nav.SetSettleDelay(d) }
