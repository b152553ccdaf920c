package forestfire

import (
	"errors"
	"fmt"
)

// ErrStepOutOfOrder is returned when a snapshot is not recorded under the next
// free step index.
var ErrStepOutOfOrder = errors.New("step recorded out of order")

// History maps step indexes to grid snapshots. Entries are only ever appended.
type History struct {
	steps []*Grid
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

// Record appends g under step, which must equal Len.
func (h *History) Record(step int, g *Grid) error {
	if step != len(h.steps) {
		return fmt.Errorf("%w: got %d, want %d", ErrStepOutOfOrder, step, len(h.steps))
	}
	h.add(g)
	return nil
}

// add appends g under the next step index.
func (h *History) add(g *Grid) { h.steps = append(h.steps, g) }

// At returns the snapshot recorded for step.
func (h *History) At(step int) (*Grid, bool) {
	if step < 0 || step >= len(h.steps) {
		return nil, false
	}
	return h.steps[step], true
}

// Len returns the number of recorded steps.
func (h *History) Len() int { return len(h.steps) }
