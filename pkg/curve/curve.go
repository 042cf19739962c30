// Package curve evaluates parametric paths defined by ordered control points.
//
// A path is governed by exactly one CurveType. The set of curve types is
// closed: every operation switches over the tag, so adding a variant means
// extending each switch in this package.
package curve

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// Curve errors.
var (
	ErrKnotCount   = errors.New("knot count does not match curve type")
	ErrIndexRange  = errors.New("knot index out of range")
	ErrUnknownType = errors.New("unknown curve type")
)

// CurveType selects the evaluation strategy for a path.
type CurveType uint8

// Curve types.
const (
	Bezier CurveType = iota
	CatmullRom
)

// String returns the curve type name as used in path documents.
func (c CurveType) String() string {
	switch c {
	case Bezier:
		return "bezier"
	case CatmullRom:
		return "catmull-rom"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCurveType parses a curve type name.
func ParseCurveType(s string) (CurveType, error) {
	switch s {
	case "bezier", "Bezier":
		return Bezier, nil
	case "catmull-rom", "catmullrom", "CatmullRom":
		return CatmullRom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// MinKnots returns the minimum number of control points for one segment.
func (c CurveType) MinKnots() int {
	switch c {
	case Bezier:
		return 4
	case CatmullRom:
		return 2
	default:
		return 0
	}
}

// SegmentCount returns the number of curve segments formed by n control points.
// Bezier uses (n-1)/3 full segments; trailing points that do not complete
// a segment are ignored.
func (c CurveType) SegmentCount(n int) int {
	if n < 2 {
		return 0
	}
	switch c {
	case Bezier:
		return (n - 1) / 3
	case CatmullRom:
		return n - 1
	default:
		return 0
	}
}

// ValidateCount reports whether n control points form a well-shaped curve.
// A single Catmull-Rom point is accepted as a degenerate single-point path.
func (c CurveType) ValidateCount(n int) error {
	switch c {
	case Bezier:
		if n < 4 || (n-1)%3 != 0 {
			return fmt.Errorf("%w: bezier needs 3k+1 points (k >= 1), got %d", ErrKnotCount, n)
		}
	case CatmullRom:
		if n < 1 {
			return fmt.Errorf("%w: catmull-rom needs at least 1 point", ErrKnotCount)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, uint8(c))
	}
	return nil
}

// Evaluate returns the point at parameter t over the control points.
// t spans [0, SegmentCount]; its integer part selects the segment and the
// fractional part is the local parameter. Out-of-range t is clamped.
func (c CurveType) Evaluate(t float32, points []math.Vec3) math.Vec3 {
	if len(points) == 0 {
		return math.Vec3{}
	}
	segments := c.SegmentCount(len(points))
	if segments == 0 {
		return points[0]
	}
	seg, u := locate(t, segments)
	switch c {
	case Bezier:
		return bezierPoint(points, seg, u)
	case CatmullRom:
		return catmullRomPoint(points, seg, u)
	default:
		return points[0]
	}
}

// Derivative returns the first derivative with respect to t at parameter t.
// It is zero for degenerate curves.
func (c CurveType) Derivative(t float32, points []math.Vec3) math.Vec3 {
	segments := c.SegmentCount(len(points))
	if segments == 0 {
		return math.Vec3{}
	}
	seg, u := locate(t, segments)
	switch c {
	case Bezier:
		return bezierDerivative(points, seg, u)
	case CatmullRom:
		return catmullRomDerivative(points, seg, u)
	default:
		return math.Vec3{}
	}
}

// AnchorIndex returns the control point index of anchor i.
func (c CurveType) AnchorIndex(i int) int {
	if c == Bezier {
		return i * 3
	}
	return i
}

// IsAnchor reports whether control point index i is an anchor (as opposed to a handle).
func (c CurveType) IsAnchor(i int) bool {
	if c == Bezier {
		return i%3 == 0
	}
	return true
}

// locate splits t into a segment index in [0, segments-1] and a local
// parameter in [0,1]. t == segments maps to the end of the last segment.
func locate(t float32, segments int) (int, float32) {
	if math32.IsNaN(t) || t <= 0 {
		return 0, 0
	}
	last := float32(segments)
	if t >= last {
		return segments - 1, 1
	}
	seg := int(math32.Floor(t))
	if seg > segments-1 {
		seg = segments - 1
	}
	return seg, t - float32(seg)
}

// Path is a curve type with its control points.
type Path struct {
	Type   CurveType
	Points []math.Vec3
}

// Segments returns the number of segments of the path.
func (p Path) Segments() int {
	return p.Type.SegmentCount(len(p.Points))
}

// At evaluates the path at t.
func (p Path) At(t float32) math.Vec3 {
	return p.Type.Evaluate(t, p.Points)
}

// TangentAt returns the derivative of the path at t.
func (p Path) TangentAt(t float32) math.Vec3 {
	return p.Type.Derivative(t, p.Points)
}

// Validate checks the control point count against the curve type.
func (p Path) Validate() error {
	return p.Type.ValidateCount(len(p.Points))
}

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	points := make([]math.Vec3, len(p.Points))
	copy(points, p.Points)
	return Path{Type: p.Type, Points: points}
}

// ChordLength returns the summed straight-line distance between consecutive anchors.
func (p Path) ChordLength() float32 {
	segments := p.Segments()
	var total float32
	for i := range segments {
		a := p.Points[p.Type.AnchorIndex(i)]
		b := p.Points[p.Type.AnchorIndex(i+1)]
		total += a.Distance(b)
	}
	return total
}
