package curve

import "math"

// Interpolator maps t in [0, 1] onto a value.
type Interpolator func(t float64) float64

// NewBasisInterpolator returns a uniform cubic B-spline through the control values.
// The ends are extended with mirrored phantom values so that t=0 and t=1 hit the first and last value.
// At least two values are required; callers fall back to Linear below three.
func NewBasisInterpolator(values []float64) Interpolator {
	vs := make([]float64, len(values))
	copy(vs, values)

	n := len(vs) - 1

	return func(t float64) float64 {
		var i int

		switch {
		case t <= 0:
			t = 0
			i = 0
		case t >= 1:
			t = 1
			i = n - 1
		default:
			i = int(math.Floor(t * float64(n)))
		}

		if i > n-1 {
			i = n - 1
		}

		v1 := vs[i]
		v2 := vs[i+1]

		v0 := 2*v1 - v2
		if i > 0 {
			v0 = vs[i-1]
		}

		v3 := 2*v2 - v1
		if i < n-1 {
			v3 = vs[i+2]
		}

		return basis((t-float64(i)/float64(n))*float64(n), v0, v1, v2, v3)
	}
}

func NewLinearInterpolator(a, b float64) Interpolator {
	return func(t float64) float64 {
		return a + (b-a)*t
	}
}

func basis(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1

	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}
