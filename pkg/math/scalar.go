package math

import "golang.org/x/exp/constraints"

// Epsilon is the length below which a vector is treated as degenerate.
const Epsilon = 1e-6

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01[T constraints.Float](v T) T {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates from a to b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + t*(b-a)
}

// InverseLerp returns where v lies between a and b, clamped to [0,1].
// Returns 0 when a == b.
func InverseLerp[T constraints.Float](a, b, v T) T {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// Smoothstep is the Hermite step between edge0 and edge1.
// When the edges coincide it degenerates to a hard step at edge0.
func Smoothstep[T constraints.Float](edge0, edge1, x T) T {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
