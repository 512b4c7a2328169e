package sim

// Easing curves map normalized time t in [0,1] to normalized progress.
// Inputs outside the range are clamped so callers can feed raw ratios.

// EaseOutCubic decelerates toward the end; used for the wheel spin-down.
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutQuad accelerates then decelerates; used for lane traversal.
func EaseInOutQuad(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
