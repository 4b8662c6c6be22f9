// Package layout sizes the calendar surface from vertical swipe intents.
package layout

import (
	"fmt"

	"lunaday/internal/gesture"
)

// Levels is the number of discrete panel heights.
const Levels = 3

// Height is the panel-height state machine. The zero level is the smallest.
type Height struct {
	rows  [Levels]int
	level int
}

// NewHeight validates rows (one size per level, strictly ascending) and
// starts at level.
func NewHeight(rows []int, level int) (*Height, error) {
	if len(rows) != Levels {
		return nil, fmt.Errorf("layout: need %d panel sizes, got %d", Levels, len(rows))
	}
	h := &Height{}
	for i, r := range rows {
		if r <= 0 || (i > 0 && r <= rows[i-1]) {
			return nil, fmt.Errorf("layout: panel sizes must be positive and ascending: %v", rows)
		}
		h.rows[i] = r
	}
	h.level = clamp(level)
	return h, nil
}

// Apply consumes resize intents; other intents are ignored. It reports
// whether the level changed.
func (h *Height) Apply(intent gesture.Intent) bool {
	before := h.level
	switch intent {
	case gesture.ExpandPanel:
		h.level = clamp(h.level + 1)
	case gesture.CollapsePanel:
		h.level = clamp(h.level - 1)
	}
	return h.level != before
}

func (h *Height) Level() int { return h.level }

// Rows is the size of the current level.
func (h *Height) Rows() int { return h.rows[h.level] }

func clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level >= Levels {
		return Levels - 1
	}
	return level
}
