package anim

import "time"

// Value is a scalar that is either set directly or driven by a Transition.
// It may also be undefined. Value is not safe for concurrent use; its owner serializes access.
type Value struct {
	v     float64
	valid bool

	trans  Transition
	onDone func(v float64)
}

func (av *Value) Get() (float64, bool) {
	return av.v, av.valid
}

// Set jumps to v and drops any running transition.
func (av *Value) Set(v float64) {
	av.v = v
	av.valid = true
	av.trans = nil
	av.onDone = nil
}

func (av *Value) Clear() {
	av.v = 0
	av.valid = false
	av.trans = nil
	av.onDone = nil
}

// Animate replaces any running transition. An undefined value starts from the transition's first step.
func (av *Value) Animate(tr Transition, now time.Time, onDone func(v float64)) {
	av.trans = tr
	av.onDone = onDone

	if !av.valid {
		av.v, _ = tr.Step(now)
		av.valid = true
	}
}

func (av *Value) Animating() bool {
	return av.trans != nil
}

func (av *Value) Target() (float64, bool) {
	if av.trans != nil {
		return av.trans.Target(), true
	}

	return av.v, av.valid
}

// Tick advances the running transition and reports whether the value changed.
func (av *Value) Tick(now time.Time) (changed bool) {
	if av.trans == nil {
		return
	}

	v, done := av.trans.Step(now)

	changed = v != av.v
	av.v = v

	if done {
		onDone := av.onDone

		av.trans = nil
		av.onDone = nil

		if onDone != nil {
			onDone(v)
		}
	}

	return
}
