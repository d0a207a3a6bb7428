package mathutil

import "time"

// Clamp01 limits v to [0, 1] (search: clamp-math).
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp limits v to [lo, hi] (search: clamp-math).
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampDuration floors a countdown at zero so readiness never banks (search: clamp-math).
func ClampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// IntMin returns the smaller of two ints (search: int-math).
func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IntMax returns the larger of two ints (search: int-math).
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
