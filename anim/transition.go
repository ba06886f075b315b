package anim

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Transition moves a value toward a target over time.
type Transition interface {
	// Step returns the value at now and whether the target has been reached.
	Step(now time.Time) (v float64, done bool)
	Target() float64
}

// Animator starts transitions. Implementations are stateless and safe to share.
type Animator interface {
	To(from, to float64, now time.Time) Transition
}

type TimingAnimator struct {
	Duration time.Duration
	Easing   Easing
}

func (a TimingAnimator) To(from, to float64, now time.Time) Transition {
	return NewTiming(from, to, now, a.Duration, a.Easing)
}

func NewTiming(from, to float64, start time.Time, duration time.Duration, easing Easing) *Timing {
	if easing == nil {
		easing = EaseInOut
	}

	return &Timing{
		from:     from,
		to:       to,
		start:    start,
		duration: duration,
		easing:   easing,
	}
}

type Timing struct {
	from, to float64
	start    time.Time
	duration time.Duration
	easing   Easing
}

func (tr *Timing) Target() float64 {
	return tr.to
}

func (tr *Timing) Step(now time.Time) (float64, bool) {
	elapsed := now.Sub(tr.start)
	if tr.duration <= 0 || elapsed >= tr.duration {
		return tr.to, true
	}

	if elapsed <= 0 {
		return tr.from, false
	}

	progress := float64(elapsed) / float64(tr.duration)

	return tr.from + (tr.to-tr.from)*tr.easing(progress), false
}

const (
	springRestDelta   = 0.01
	springMaxCatchUp  = 10 * time.Second
	defaultSpringFPS  = 60
	defaultSpringFreq = 8.0
	defaultSpringDamp = 1.0
)

type SpringAnimator struct {
	FPS              int
	AngularFrequency float64
	DampingRatio     float64
}

func (a SpringAnimator) To(from, to float64, now time.Time) Transition {
	fps := a.FPS
	if fps <= 0 {
		fps = defaultSpringFPS
	}

	freq := a.AngularFrequency
	if freq <= 0 {
		freq = defaultSpringFreq
	}

	damp := a.DampingRatio
	if damp <= 0 {
		damp = defaultSpringDamp
	}

	return &Spring{
		spring: harmonica.NewSpring(harmonica.FPS(fps), freq, damp),
		frame:  time.Second / time.Duration(fps),
		pos:    from,
		target: to,
		last:   now,
	}
}

// Spring integrates a damped spring at a fixed frame step, catching up with wall time on each Step.
type Spring struct {
	spring harmonica.Spring
	frame  time.Duration

	pos, vel float64
	target   float64
	last     time.Time
}

func (tr *Spring) Target() float64 {
	return tr.target
}

func (tr *Spring) Step(now time.Time) (float64, bool) {
	elapsed := now.Sub(tr.last)
	if elapsed > springMaxCatchUp {
		elapsed = springMaxCatchUp
	}

	for ; elapsed >= tr.frame; elapsed -= tr.frame {
		tr.pos, tr.vel = tr.spring.Update(tr.pos, tr.vel, tr.target)
		tr.last = tr.last.Add(tr.frame)

		if tr.settled() {
			tr.pos, tr.vel = tr.target, 0

			return tr.pos, true
		}
	}

	if now.Sub(tr.last) > springMaxCatchUp {
		tr.last = now
	}

	return tr.pos, tr.settled()
}

func (tr *Spring) settled() bool {
	return math.Abs(tr.pos-tr.target) < springRestDelta && math.Abs(tr.vel) < springRestDelta
}
