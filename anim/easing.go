package anim

type Easing func(t float64) float64

func Linear(t float64) float64 {
	return t
}

// EaseInOut is the quadratic in-out curve used for snapping and fades.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}

	u := -2*t + 2

	return 1 - u*u/2
}

func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}

	u := -2*t + 2

	return 1 - u*u*u/2
}

func EaseOut(t float64) float64 {
	u := 1 - t

	return 1 - u*u
}
