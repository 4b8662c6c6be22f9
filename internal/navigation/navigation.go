// Package navigation drives the calendar widget: it pages on swipe intents,
// holds the selected day, and guards against paging twice while the widget is
// still settling from the previous transition.
package navigation

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lunaday/internal/activity"
	"lunaday/internal/gesture"
	"lunaday/internal/lunar"
)

// View is the calendar layout currently shown.
type View int

const (
	Month View = iota
	Week
	Day
)

func (v View) String() string {
	switch v {
	case Week:
		return "week"
	case Day:
		return "day"
	default:
		return "month"
	}
}

func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month":
		return Month, nil
	case "week":
		return Week, nil
	case "day":
		return Day, nil
	}
	return Month, fmt.Errorf("navigation: unknown view %q", s)
}

// Port is the control surface of the calendar widget.
type Port interface {
	Next()
	Prev()
	Today()
	ChangeView(View)
	FocusedDate() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithLunar resolves the lunar annotation of each selected day.
func WithLunar(conv lunar.Converter) Option {
	return func(c *Controller) { c.lunar = conv }
}

type Controller struct {
	port   Port
	lunar  lunar.Converter
	log    *zap.Logger
	now    func() time.Time
	settle time.Duration

	busyUntil time.Time
	view      View

	selected      activity.Date
	selectedLunar *lunar.Info
}

func New(port Port, settle time.Duration, opts ...Option) *Controller {
	c := &Controller{
		port:   port,
		log:    zap.NewNop(),
		now:    time.Now,
		settle: settle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleDateClick selects d when it belongs to the focused month. Clicks on
// leading or trailing cells of neighbouring months are swallowed: nothing is
// selected and the widget is not paged. It reports whether d was selected.
func (c *Controller) HandleDateClick(d activity.Date) bool {
	focused := activity.DateOf(c.port.FocusedDate())
	if !d.SameMonth(focused) {
		c.log.Debug("click outside focused month ignored",
			zap.Stringer("date", d), zap.Stringer("focused", focused))
		return false
	}
	c.selected = d
	c.selectedLunar = nil
	if c.lunar != nil {
		info, err := lunar.ConvertDate(c.lunar, d.Time())
		if err != nil {
			c.log.Warn("lunar lookup failed", zap.Stringer("date", d), zap.Error(err))
		} else {
			c.selectedLunar = &info
		}
	}
	c.log.Debug("date selected", zap.Stringer("date", d))
	return true
}

// HandleIntent pages the widget for navigation intents. While a previous
// transition is settling the intent is dropped, not queued. It reports
// whether the widget was paged.
func (c *Controller) HandleIntent(intent gesture.Intent) bool {
	if !intent.Navigates() {
		return false
	}
	now := c.now()
	if now.Before(c.busyUntil) {
		c.log.Debug("navigation dropped while settling", zap.Stringer("intent", intent))
		return false
	}
	c.busyUntil = now.Add(c.settle)
	if intent == gesture.NavigateNext {
		c.port.Next()
	} else {
		c.port.Prev()
	}
	c.log.Debug("navigated", zap.Stringer("intent", intent),
		zap.Time("focused", c.port.FocusedDate()))
	return true
}

// Transitioning reports whether a paging transition is still settling.
func (c *Controller) Transitioning() bool {
	return c.now().Before(c.busyUntil)
}

// SettleDelay is the fixed pause applied after each page.
func (c *Controller) SettleDelay() time.Duration { return c.settle }

func (c *Controller) SetSettleDelay(d time.Duration) { c.settle = d }

func (c *Controller) ChangeView(v View) {
	c.view = v
	c.port.ChangeView(v)
}

func (c *Controller) GoToToday() {
	c.port.Today()
}

func (c *Controller) View() View { return c.view }

func (c *Controller) FocusedDate() time.Time { return c.port.FocusedDate() }

// Selected returns the selected day, if any.
func (c *Controller) Selected() (activity.Date, bool) {
	return c.selected, !c.selected.IsZero()
}

// SelectedLunar returns the lunar annotation resolved for the selected day.
func (c *Controller) SelectedLunar() (lunar.Info, bool) {
	if c.selectedLunar == nil {
		return lunar.Info{}, false
	}
	return *c.selectedLunar, true
}

func (c *Controller) ClearSelection() {
	c.selected = activity.Date{}
	c.selectedLunar = nil
}
