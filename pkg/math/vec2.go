package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector. For ground-plane math X maps to world X and Y to world Z.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// ProjectOnSegment projects p onto the segment a-b.
// Returns the clamped parameter t in [0,1] and the squared distance from p
// to the projected point. A zero-length segment projects to a with t = 0.
func ProjectOnSegment(p, a, b Vec2) (t, distSq float32) {
	ab := b.Sub(a)
	abLen2 := ab.Dot(ab)
	if abLen2 > Epsilon*Epsilon {
		t = Clamp(p.Sub(a).Dot(ab)/abLen2, 0, 1)
	}
	d := p.Sub(a.Add(ab.Scale(t)))
	return t, d.Dot(d)
}
