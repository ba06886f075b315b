package curve

import (
	"github.com/sgostarter/libchart/scale"
)

// YForX returns the pixel y of the value curve under pixel x.
//
// It interpolates the raw value sequence (not the rendered path) with the basis
// interpolator, falling back to a straight line between the first and last value
// when there are fewer than three samples. The result is kept inside the plot band.
// Allocates; keep it off the frame loop.
func YForX(x float64, samples []Sample, size Size, xPadding, yPadding float64) float64 {
	if !size.Measured() || len(samples) == 0 {
		return 0
	}

	yScale := ValueScale(samples, size, yPadding)

	x = scale.Clamp(x, xPadding, size.Width-xPadding)

	var t float64

	if span := size.Width - 2*xPadding; span > 0 {
		t = scale.Clamp((x-xPadding)/span, 0, 1)
	}

	var interpolate Interpolator

	if len(samples) < 3 {
		interpolate = NewLinearInterpolator(samples[0].Value, samples[len(samples)-1].Value)
	} else {
		interpolate = NewBasisInterpolator(Values(samples))
	}

	lo, hi := yScale.Range()
	if lo > hi {
		lo, hi = hi, lo
	}

	return scale.Clamp(yScale.Map(interpolate(t)), lo, hi)
}
