package curve

import (
	"github.com/sgostarter/libchart/scale"
)

// IndexScale maps sample indexes onto [xPadding, width-xPadding].
func IndexScale(n int, size Size, xPadding float64) scale.Linear {
	return scale.NewLinear(0, float64(n-1), xPadding, size.Width-xPadding)
}

// ValueScale maps sample values onto [height-yPadding, yPadding]; pixel y grows downward.
func ValueScale(samples []Sample, size Size, yPadding float64) scale.Linear {
	lo, hi := valueBounds(samples)

	return scale.NewLinear(lo, hi, size.Height-yPadding, yPadding)
}

// Fit builds the smoothed chart path for samples ordered by index.
// Nothing is produced until the size is measured and at least one sample exists.
func Fit(samples []Sample, size Size, xPadding, yPadding float64) (cp CurvePath) {
	if !size.Measured() || len(samples) == 0 {
		return
	}

	xScale := IndexScale(len(samples), size, xPadding)
	yScale := ValueScale(samples, size, yPadding)

	b := newBasisBuilder()

	var last Point

	for _, sample := range samples {
		last = Point{
			X: xScale.Map(float64(sample.Index)),
			Y: yScale.Map(sample.Value),
		}

		b.push(last.X, last.Y)
	}

	cp.Path = b.finish()
	cp.LastPoint = &last

	return
}

// SamplePoint returns the pixel position of the sample at idx.
func SamplePoint(samples []Sample, idx int, size Size, xPadding, yPadding float64) (pt Point, ok bool) {
	if !size.Measured() || idx < 0 || idx >= len(samples) {
		return
	}

	pt.X = IndexScale(len(samples), size, xPadding).Map(float64(samples[idx].Index))
	pt.Y = ValueScale(samples, size, yPadding).Map(samples[idx].Value)
	ok = true

	return
}
