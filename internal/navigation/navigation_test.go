package navigation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lunaday/internal/activity"
	"lunaday/internal/gesture"
	"lunaday/internal/lunar"
)

type fakePort struct {
	focused time.Time
	view    View
	calls   []string
}

func (p *fakePort) Next() {
	p.calls = append(p.calls, "next")
	p.focused = p.focused.AddDate(0, 1, 0)
}

func (p *fakePort) Prev() {
	p.calls = append(p.calls, "prev")
	p.focused = p.focused.AddDate(0, -1, 0)
}

func (p *fakePort) Today() { p.calls = append(p.calls, "today") }

func (p *fakePort) ChangeView(v View) {
	p.calls = append(p.calls, "view:"+v.String())
	p.view = v
}

func (p *fakePort) FocusedDate() time.Time { return p.focused }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type stubLunar struct {
	info lunar.Info
	err  error
}

func (s stubLunar) Convert(day, month, year int) (lunar.Info, error) {
	return s.info, s.err
}

func newController(opts ...Option) (*Controller, *fakePort, *fakeClock) {
	port := &fakePort{focused: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	clock := &fakeClock{t: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(port, 300*time.Millisecond, opts...), port, clock
}

func TestDoubleSwipeAdvancesOnce(t *testing.T) {
	c, port, clock := newController()
	swipe := func() gesture.Intent {
		return gesture.Classify(gesture.TouchProfile(),
			gesture.Sample{X: 200, Y: 100, At: clock.Now()},
			gesture.Sample{X: 80, Y: 100, At: clock.Now().Add(100 * time.Millisecond)})
	}

	require.True(t, c.HandleIntent(swipe()))
	clock.Advance(120 * time.Millisecond)
	require.True(t, c.Transitioning())
	require.False(t, c.HandleIntent(swipe()))

	require.Equal(t, []string{"next"}, port.calls)
	require.Equal(t, time.April, port.focused.Month())
}

func TestNavigationReleasesAfterSettle(t *testing.T) {
	c, port, clock := newController()

	require.True(t, c.HandleIntent(gesture.NavigatePrev))
	clock.Advance(300 * time.Millisecond)
	require.False(t, c.Transitioning())
	require.True(t, c.HandleIntent(gesture.NavigatePrev))

	require.Equal(t, []string{"prev", "prev"}, port.calls)
	require.Equal(t, time.January, port.focused.Month())
}

func TestDroppedIntentDoesNotExtendLock(t *testing.T) {
	c, port, clock := newController()

	c.HandleIntent(gesture.NavigateNext)
	clock.Advance(200 * time.Millisecond)
	c.HandleIntent(gesture.NavigateNext)
	clock.Advance(100 * time.Millisecond)

	require.True(t, c.HandleIntent(gesture.NavigateNext))
	require.Equal(t, []string{"next", "next"}, port.calls)
}

func TestNonNavigationIntentsIgnored(t *testing.T) {
	c, port, _ := newController()
	for _, in := range []gesture.Intent{gesture.None, gesture.Tap, gesture.ExpandPanel, gesture.CollapsePanel} {
		require.False(t, c.HandleIntent(in))
	}
	require.Empty(t, port.calls)
	require.False(t, c.Transitioning())
}

func TestTrailingCellClickIsSwallowed(t *testing.T) {
	c, port, _ := newController()

	ok := c.HandleDateClick(activity.Date{Year: 2024, Month: time.April, Day: 1})
	require.False(t, ok)
	_, selected := c.Selected()
	require.False(t, selected)
	require.Equal(t, time.March, port.focused.Month())
	require.Empty(t, port.calls)
}

func TestClickSameMonthOtherYearIsSwallowed(t *testing.T) {
	c, _, _ := newController()
	require.False(t, c.HandleDateClick(activity.Date{Year: 2023, Month: time.March, Day: 10}))
}

func TestClickInFocusedMonthSelects(t *testing.T) {
	info := lunar.Info{Day: 6, Month: 2, Year: 2024}
	c, _, _ := newController(WithLunar(stubLunar{info: info}))

	d := activity.Date{Year: 2024, Month: time.March, Day: 15}
	require.True(t, c.HandleDateClick(d))

	got, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, d, got)

	li, ok := c.SelectedLunar()
	require.True(t, ok)
	require.Equal(t, info, li)

	c.ClearSelection()
	_, ok = c.Selected()
	require.False(t, ok)
}

func TestSwallowedClickKeepsPreviousSelection(t *testing.T) {
	c, _, _ := newController()
	d := activity.Date{Year: 2024, Month: time.March, Day: 2}
	require.True(t, c.HandleDateClick(d))
	require.False(t, c.HandleDateClick(activity.Date{Year: 2024, Month: time.February, Day: 28}))

	got, _ := c.Selected()
	require.Equal(t, d, got)
}

func TestLunarFailureStillSelects(t *testing.T) {
	c, _, _ := newController(WithLunar(stubLunar{err: errors.New("out of range")}))
	require.True(t, c.HandleDateClick(activity.Date{Year: 2024, Month: time.March, Day: 3}))
	_, ok := c.SelectedLunar()
	require.False(t, ok)
}

func TestChangeViewAndToday(t *testing.T) {
	c, port, _ := newController()

	c.ChangeView(Week)
	require.Equal(t, Week, c.View())
	c.GoToToday()
	require.Equal(t, []string{"view:week", "today"}, port.calls)
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"": Month, "Month": Month, "week": Week, " day ": Day} {
		got, err := ParseView(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseView("year")
	require.Error(t, err)
}
