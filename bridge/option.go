package bridge

type Options struct {
	onStall []func(name string)
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{}
	for _, o := range option {
		o(opts)
	}

	return opts
}

// StallOption is called from the watchdog routine when dispatched work stays unserved too long.
func StallOption(fn func(name string)) Option {
	return func(o *Options) {
		o.onStall = append(o.onStall, fn)
	}
}
