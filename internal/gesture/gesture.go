// Package gesture turns one pointer interaction (press, drags, release) into a
// single Intent: a tap, a horizontal swipe that pages the calendar, or a
// vertical swipe that resizes the day panel.
package gesture

import (
	"math"
	"time"
)

// Intent is the classified outcome of one interaction.
type Intent int

const (
	None Intent = iota
	Tap
	NavigateNext
	NavigatePrev
	ExpandPanel
	CollapsePanel
)

func (i Intent) String() string {
	switch i {
	case Tap:
		return "tap"
	case NavigateNext:
		return "navigate-next"
	case NavigatePrev:
		return "navigate-prev"
	case ExpandPanel:
		return "expand-panel"
	case CollapsePanel:
		return "collapse-panel"
	default:
		return "none"
	}
}

// Navigates reports whether the intent pages the calendar.
func (i Intent) Navigates() bool { return i == NavigateNext || i == NavigatePrev }

// Resizes reports whether the intent changes the panel height.
func (i Intent) Resizes() bool { return i == ExpandPanel || i == CollapsePanel }

// Sample is one recorded pointer position. Interactive marks samples whose
// origin is a control (button, text input) that handles its own clicks.
type Sample struct {
	X, Y        float64
	At          time.Time
	Interactive bool
}

// Profile holds the classification thresholds. Distances are in whatever
// unit the samples use (pixels for touch surfaces, cells in a terminal).
type Profile struct {
	TapMovement     float64
	TapDuration     time.Duration
	HorizontalSwipe float64
	VerticalSwipe   float64
}

func TouchProfile() Profile {
	return Profile{TapMovement: 12, TapDuration: 300 * time.Millisecond, HorizontalSwipe: 50, VerticalSwipe: 50}
}

func DesktopProfile() Profile {
	return Profile{TapMovement: 10, TapDuration: 300 * time.Millisecond, HorizontalSwipe: 100, VerticalSwipe: 100}
}

func TerminalProfile() Profile {
	return Profile{TapMovement: 1, TapDuration: 300 * time.Millisecond, HorizontalSwipe: 6, VerticalSwipe: 2}
}

// Classify applies the thresholds to a start and end sample. Ties never swipe:
// every comparison is strict.
func Classify(p Profile, start, end Sample) Intent {
	dx := start.X - end.X
	dy := start.Y - end.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	duration := end.At.Sub(start.At)

	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case distance < p.TapMovement && duration < p.TapDuration:
		return Tap
	case adx > ady && adx > p.HorizontalSwipe:
		if dx > 0 {
			return NavigateNext
		}
		return NavigatePrev
	case ady > adx && ady > p.VerticalSwipe:
		if dy > 0 {
			return CollapsePanel
		}
		return ExpandPanel
	default:
		return None
	}
}

// Classifier tracks a single in-flight interaction.
type Classifier struct {
	profile Profile
	active  bool
	start   Sample
	last    Sample
}

func New(p Profile) *Classifier {
	return &Classifier{profile: p}
}

func (c *Classifier) Profile() Profile { return c.profile }

// SetProfile swaps thresholds; an interaction in flight is classified with
// the new values.
func (c *Classifier) SetProfile(p Profile) { c.profile = p }

// Active reports whether an interaction is being tracked.
func (c *Classifier) Active() bool { return c.active }

// Begin starts tracking. Interactions that start on an interactive control are
// not tracked and Begin returns false.
func (c *Classifier) Begin(s Sample) bool {
	c.reset()
	if s.Interactive {
		return false
	}
	c.active = true
	c.start = s
	c.last = s
	return true
}

func (c *Classifier) Move(s Sample) {
	if !c.active {
		return
	}
	c.last.X, c.last.Y = s.X, s.Y
}

// End classifies the interaction and forgets it. The end sample supplies the
// release time and final position.
func (c *Classifier) End(s Sample) Intent {
	if !c.active {
		c.reset()
		return None
	}
	c.Move(s)
	end := c.last
	end.At = s.At
	intent := Classify(c.profile, c.start, end)
	c.reset()
	return intent
}

// Cancel drops the interaction without classifying it.
func (c *Classifier) Cancel() { c.reset() }

func (c *Classifier) reset() {
	c.active = false
	c.start = Sample{}
	c.last = Sample{}
}
