package curve

import "github.com/Faultbox/pathcarve/pkg/math"

// bezierPoint evaluates segment seg using points [3seg, 3seg+3] as the
// cubic Bernstein control polygon.
func bezierPoint(points []math.Vec3, seg int, u float32) math.Vec3 {
	i := seg * 3
	p0, p1, p2, p3 := points[i], points[i+1], points[i+2], points[i+3]

	v := 1 - u
	b0 := v * v * v
	b1 := 3 * v * v * u
	b2 := 3 * v * u * u
	b3 := u * u * u

	return p0.Scale(b0).Add(p1.Scale(b1)).Add(p2.Scale(b2)).Add(p3.Scale(b3))
}

func bezierDerivative(points []math.Vec3, seg int, u float32) math.Vec3 {
	i := seg * 3
	p0, p1, p2, p3 := points[i], points[i+1], points[i+2], points[i+3]

	v := 1 - u
	d0 := p1.Sub(p0).Scale(3 * v * v)
	d1 := p2.Sub(p1).Scale(6 * v * u)
	d2 := p3.Sub(p2).Scale(3 * u * u)
	return d0.Add(d1).Add(d2)
}

// handleFraction is the share of the anchor-to-anchor vector used for
// generated Bezier handles.
const handleFraction = 0.25
