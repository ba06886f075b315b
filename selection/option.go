package selection

import (
	"time"

	"github.com/sgostarter/libchart/anim"
)

type Options struct {
	clock         func() time.Time
	animator      anim.Animator
	onSnapped     []SnapCompleteHandler
	indexListener []IndexListener
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{}
	for _, o := range option {
		o(opts)
	}

	return opts
}

// ClockOption replaces time.Now; gesture calls and the frame loop read time from it.
func ClockOption(clock func() time.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}

func AnimatorOption(animator anim.Animator) Option {
	return func(o *Options) {
		o.animator = animator
	}
}

func SnapCompleteOption(handler SnapCompleteHandler) Option {
	return func(o *Options) {
		o.onSnapped = append(o.onSnapped, handler)
	}
}

func IndexListenerOption(listener IndexListener) Option {
	return func(o *Options) {
		o.indexListener = append(o.indexListener, listener)
	}
}
