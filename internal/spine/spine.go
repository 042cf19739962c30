// Package spine samples a curve into a dense centerline and answers
// nearest-point queries against it.
package spine

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// Sample is one point of the centerline.
type Sample struct {
	Position math.Vec3
	Tangent  math.Vec3 // unit, along the path
	Up       math.Vec3 // unit, terrain surface normal
	Param    float32   // curve parameter in segment units, non-decreasing
}

// Right returns the lateral direction at the sample.
func (s Sample) Right() math.Vec3 {
	return RightOf(s.Tangent, s.Up)
}

// RightOf returns normalize(tangent x up). When tangent is parallel to up
// it falls back to normalize(tangent x worldRight), then to world right.
func RightOf(tangent, up math.Vec3) math.Vec3 {
	r := tangent.Cross(up)
	if r.LengthSq() > math.Epsilon*math.Epsilon {
		return r.Normalize()
	}
	return tangent.Cross(math.Right).NormalizeOr(math.Right)
}

// Spine is the ordered sample sequence of one synthesis pass.
type Spine []Sample

// BoundsXZ returns the ground-plane bounding box of the sample positions.
// ok is false for an empty spine.
func (s Spine) BoundsXZ() (lo, hi math.Vec2, ok bool) {
	if len(s) == 0 {
		return lo, hi, false
	}
	lo = s[0].Position.XZ()
	hi = lo
	for _, smp := range s[1:] {
		p := smp.Position.XZ()
		lo = math.Vec2{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = math.Vec2{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	return lo, hi, true
}

// Hit is the result of a nearest-segment query.
type Hit struct {
	Segment int     // index of the first sample of the bracketing pair
	T       float32 // projection parameter within the pair, in [0,1]
	DistSq  float32 // squared XZ distance to the projected point
}

// Dist returns the XZ distance to the projected point.
func (h Hit) Dist() float32 {
	return math32.Sqrt(h.DistSq)
}

// Nearest finds the consecutive sample pair closest to p in the XZ plane.
// It scans every pair; ok is false when the spine has fewer than two samples.
func (s Spine) Nearest(p math.Vec2) (hit Hit, ok bool) {
	if len(s) < 2 {
		return Hit{}, false
	}
	hit.DistSq = -1
	a := s[0].Position.XZ()
	for i := 1; i < len(s); i++ {
		b := s[i].Position.XZ()
		t, d := math.ProjectOnSegment(p, a, b)
		if hit.DistSq < 0 || d < hit.DistSq {
			hit = Hit{Segment: i - 1, T: t, DistSq: d}
		}
		a = b
	}
	return hit, true
}

// Frame is the interpolated centerline frame at a hit.
type Frame struct {
	Position math.Vec3
	Tangent  math.Vec3
	Up       math.Vec3
	Right    math.Vec3
}

// FrameAt interpolates position linearly and tangent/up spherically
// between the two samples bracketing h.
func (s Spine) FrameAt(h Hit) Frame {
	a, b := s[h.Segment], s[h.Segment+1]
	tangent := a.Tangent.Slerp(b.Tangent, h.T).NormalizeOr(a.Tangent)
	up := a.Up.Slerp(b.Up, h.T).NormalizeOr(math.Up)
	return Frame{
		Position: a.Position.Lerp(b.Position, h.T),
		Tangent:  tangent,
		Up:       up,
		Right:    RightOf(tangent, up),
	}
}

// Lateral returns the signed offset of p from the frame along its right vector.
func (f Frame) Lateral(p math.Vec3) float32 {
	return p.Sub(f.Position).Dot(f.Right)
}
