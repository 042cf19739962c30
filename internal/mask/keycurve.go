package mask

import (
	"slices"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// Key is one point of a KeyCurve with cubic Hermite tangents.
type Key struct {
	Time       float32 `yaml:"time"`
	Value      float32 `yaml:"value"`
	InTangent  float32 `yaml:"in_tangent,omitempty"`
	OutTangent float32 `yaml:"out_tangent,omitempty"`
}

// KeyCurve is a 1D curve of keys sorted by time. It holds its first and
// last value outside the key range.
type KeyCurve []Key

// Flat returns a curve with constant value v.
func Flat(v float32) KeyCurve {
	return KeyCurve{{Time: -1, Value: v}, {Time: 1, Value: v}}
}

// Linear returns a straight curve from (t0, v0) to (t1, v1).
// Equal times give a step with flat tangents.
func Linear(t0, v0, t1, v1 float32) KeyCurve {
	var slope float32
	if t1 != t0 {
		slope = (v1 - v0) / (t1 - t0)
	}
	return KeyCurve{
		{Time: t0, Value: v0, OutTangent: slope},
		{Time: t1, Value: v1, InTangent: slope},
	}
}

// Sorted returns a copy of the curve ordered by time.
func (c KeyCurve) Sorted() KeyCurve {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b Key) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Eval returns the curve value at t. An empty curve evaluates to 0.
func (c KeyCurve) Eval(t float32) float32 {
	switch len(c) {
	case 0:
		return 0
	case 1:
		return c[0].Value
	}
	if t <= c[0].Time {
		return c[0].Value
	}
	last := c[len(c)-1]
	if t >= last.Time {
		return last.Value
	}

	i, _ := slices.BinarySearchFunc(c, t, func(k Key, t float32) int {
		switch {
		case k.Time < t:
			return -1
		case k.Time > t:
			return 1
		default:
			return 0
		}
	})
	if c[i].Time == t {
		return c[i].Value
	}
	k0, k1 := c[i-1], c[i]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := math.InverseLerp(k0.Time, k1.Time, t)
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}
