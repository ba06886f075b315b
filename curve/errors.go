package curve

import "errors"

var (
	ErrBadSample = errors.New("bad sample")
	ErrNoSamples = errors.New("no samples")
)
