package curve

import "math"

type Sample struct {
	Index int     `yaml:"index" json:"index"`
	Value float64 `yaml:"value" json:"value"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"`
}

type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Measured reports whether a layout pass has produced a usable size.
func (s Size) Measured() bool {
	return s.Width > 0 && s.Height > 0
}

type Point struct {
	X float64
	Y float64
}

type CurvePath struct {
	Path      *Path
	LastPoint *Point
}

func (cp CurvePath) Empty() bool {
	return cp.Path == nil
}

type Storage interface {
	Load(key string) ([]Sample, error)
	Save(key string, samples []Sample) error
}

// GridWidth is the pixel distance between two adjacent sample columns.
// It is zero while the size is unmeasured or there are fewer than two samples.
func GridWidth(width, inset float64, n int) float64 {
	if n <= 1 || width <= 0 {
		return 0
	}

	gw := (width - 2*inset) / float64(n-1)
	if gw <= 0 || math.IsNaN(gw) || math.IsInf(gw, 0) {
		return 0
	}

	return gw
}

func Values(samples []Sample) []float64 {
	vs := make([]float64, len(samples))
	for idx, sample := range samples {
		vs[idx] = sample.Value
	}

	return vs
}

func valueBounds(samples []Sample) (lo, hi float64) {
	if len(samples) == 0 {
		return
	}

	lo, hi = samples[0].Value, samples[0].Value

	for _, sample := range samples[1:] {
		if sample.Value < lo {
			lo = sample.Value
		}

		if sample.Value > hi {
			hi = sample.Value
		}
	}

	return
}
