package planner

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"lunaday/internal/activity"
	"lunaday/internal/lunar"
	"lunaday/internal/navigation"
)

var errAddClosed = errors.New("planner: add panel is not open")

// Draft holds the add form while it is being filled in.
type Draft struct {
	Title       string
	Time        string
	Description string
}

// Panel owns the add and detail modals and writes to the store on their
// behalf.
type Panel struct {
	store *activity.Store
	nav   *navigation.Controller
	lunar lunar.Converter
	log   *zap.Logger

	addOpen     bool
	detailOpen  bool
	draft       Draft
	target      activity.Date
	targetLunar *lunar.Info
	viewing     activity.Activity
}

func NewPanel(store *activity.Store, nav *navigation.Controller, conv lunar.Converter, log *zap.Logger) *Panel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Panel{store: store, nav: nav, lunar: conv, log: log}
}

// OpenAdd opens the add modal for the selected day, or for now's day when
// nothing is selected.
func (p *Panel) OpenAdd(now time.Time) {
	target, ok := p.nav.Selected()
	if !ok {
		target = activity.DateOf(now)
	}
	p.target = target
	p.targetLunar = nil
	if p.lunar != nil {
		if info, err := lunar.ConvertDate(p.lunar, target.Time()); err == nil {
			p.targetLunar = &info
		} else {
			p.log.Warn("lunar lookup failed", zap.Stringer("date", target), zap.Error(err))
		}
	}
	p.draft = Draft{}
	p.detailOpen = false
	p.addOpen = true
}

func (p *Panel) AddOpen() bool { return p.addOpen }

func (p *Panel) DetailOpen() bool { return p.detailOpen }

func (p *Panel) Draft() Draft { return p.draft }

func (p *Panel) SetDraft(d Draft) { p.draft = d }

// Target is the day the add modal writes to.
func (p *Panel) Target() activity.Date { return p.target }

func (p *Panel) TargetLunar() (lunar.Info, bool) {
	if p.targetLunar == nil {
		return lunar.Info{}, false
	}
	return *p.targetLunar, true
}

// Validate reports why the draft cannot be submitted, or nil.
func (p *Panel) Validate() error {
	return activity.ValidateDraft(p.draft.Title, p.draft.Time)
}

// CanSubmit drives the enabled state of the submit action.
func (p *Panel) CanSubmit() bool {
	return p.addOpen && p.Validate() == nil
}

// Submit stores the draft and closes the modal. On a validation error the
// modal stays open with the draft intact.
func (p *Panel) Submit() (activity.Activity, error) {
	if !p.addOpen {
		return activity.Activity{}, errAddClosed
	}
	a, err := p.store.Add(p.target, p.draft.Title, p.draft.Time, p.draft.Description)
	if err != nil {
		return activity.Activity{}, err
	}
	p.closeAdd()
	return a, nil
}

// CancelAdd discards the draft without writing.
func (p *Panel) CancelAdd() { p.closeAdd() }

func (p *Panel) closeAdd() {
	p.addOpen = false
	p.draft = Draft{}
	p.targetLunar = nil
}

func (p *Panel) OpenDetail(a activity.Activity) {
	p.viewing = a
	p.detailOpen = true
}

func (p *Panel) CloseDetail() {
	p.detailOpen = false
	p.viewing = activity.Activity{}
}

// Viewing returns the activity shown in the detail modal.
func (p *Panel) Viewing() (activity.Activity, bool) {
	return p.viewing, p.detailOpen
}

// Delete removes a from the store and closes the detail modal.
func (p *Panel) Delete(a activity.Activity) {
	p.store.Remove(a.Date, a.ID)
	p.CloseDetail()
}
