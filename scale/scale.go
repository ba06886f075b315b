package scale

// Linear is an affine mapping from a numeric domain onto a pixel range.
//
// A collapsed domain (d0 == d1) maps every input onto the midpoint of the range,
// so a single sample or a constant series lands in the centre of the plot.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{
		d0: d0,
		d1: d1,
		r0: r0,
		r1: r1,
	}
}

func (s Linear) Collapsed() bool {
	return s.d0 == s.d1
}

func (s Linear) Domain() (float64, float64) {
	return s.d0, s.d1
}

func (s Linear) Range() (float64, float64) {
	return s.r0, s.r1
}

func (s Linear) Map(v float64) float64 {
	if s.Collapsed() {
		return (s.r0 + s.r1) / 2
	}

	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Invert maps a range value back into the domain. A collapsed range yields the domain start.
func (s Linear) Invert(px float64) float64 {
	if s.r0 == s.r1 {
		return s.d0
	}

	return s.d0 + (px-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}

	if v < lo {
		v = lo
	}

	return v
}
