package curve

import "github.com/Faultbox/pathcarve/pkg/math"

// catmullRomWindow returns the four points around segment seg, duplicating
// the first and last point at the ends instead of wrapping.
func catmullRomWindow(points []math.Vec3, seg int) (p0, p1, p2, p3 math.Vec3) {
	last := len(points) - 1
	at := func(i int) math.Vec3 {
		return points[max(0, min(last, i))]
	}
	return at(seg - 1), at(seg), at(seg + 1), at(seg + 2)
}

// catmullRomPoint evaluates the uniform Catmull-Rom blend:
// 0.5 * (2p1 + (-p0+p2)u + (2p0-5p1+4p2-p3)u^2 + (-p0+3p1-3p2+p3)u^3)
func catmullRomPoint(points []math.Vec3, seg int, u float32) math.Vec3 {
	p0, p1, p2, p3 := catmullRomWindow(points, seg)
	u2 := u * u
	u3 := u2 * u

	a := p1.Scale(2)
	b := p2.Sub(p0).Scale(u)
	c := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(u2)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(u3)
	return a.Add(b).Add(c).Add(d).Scale(0.5)
}

func catmullRomDerivative(points []math.Vec3, seg int, u float32) math.Vec3 {
	p0, p1, p2, p3 := catmullRomWindow(points, seg)

	b := p2.Sub(p0)
	c := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(2 * u)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(3 * u * u)
	return b.Add(c).Add(d).Scale(0.5)
}
