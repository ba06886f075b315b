package selection

import (
	"github.com/sgostarter/libchart/curve"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseSnapping
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSnapping:
		return "snapping"
	case PhaseSettled:
		return "settled"
	}

	return "unknown"
}

// Chart is the immutable input the controller and its control routine work on.
type Chart struct {
	Samples  []curve.Sample
	Size     curve.Size
	XPadding float64
	YPadding float64
}

func (c Chart) GridWidth() float64 {
	return curve.GridWidth(c.Size.Width, c.XPadding, len(c.Samples))
}

// State is a snapshot of the selection. X is measured from the first sample column.
type State struct {
	X     float64
	Valid bool
	Phase Phase

	GridWidth float64

	SelectedIndex      float64
	SelectedIndexValid bool
}

func (s State) Dragging() bool {
	return s.Phase == PhaseDragging
}

// IndexListener receives changes of the rounded selected index. ok is false when the selection is cleared.
type IndexListener func(index int, ok bool)

type SnapCompleteHandler func(index int)
