package curve

import "github.com/Faultbox/pathcarve/pkg/math"

// Knot is an authored anchor with entry and exit handle offsets.
// Handle offsets are relative to Position and only shape Bezier paths.
// A nil handle is generated automatically; a zero offset is a real handle
// sitting on its anchor.
type Knot struct {
	Position  math.Vec3
	HandleIn  *math.Vec3
	HandleOut *math.Vec3
}

// ControlPoints flattens anchors into the control point list for c.
// Catmull-Rom uses anchor positions directly. Bezier emits
// anchor, out-handle, in-handle, anchor, ... with missing handles placed at
// 25% of the anchor-to-anchor vector.
func ControlPoints(c CurveType, knots []Knot) []math.Vec3 {
	if len(knots) == 0 {
		return nil
	}
	if c != Bezier {
		points := make([]math.Vec3, len(knots))
		for i, k := range knots {
			points[i] = k.Position
		}
		return points
	}

	points := make([]math.Vec3, 0, (len(knots)-1)*3+1)
	points = append(points, knots[0].Position)
	for i := 1; i < len(knots); i++ {
		prev, cur := knots[i-1], knots[i]
		d := cur.Position.Sub(prev.Position).Scale(handleFraction)

		out, in := d, d.Scale(-1)
		if prev.HandleOut != nil {
			out = *prev.HandleOut
		}
		if cur.HandleIn != nil {
			in = *cur.HandleIn
		}
		points = append(points, prev.Position.Add(out), cur.Position.Add(in), cur.Position)
	}
	return points
}

// Knots recovers anchors from a control point list.
func Knots(c CurveType, points []math.Vec3) []Knot {
	if c != Bezier {
		knots := make([]Knot, len(points))
		for i, p := range points {
			knots[i] = Knot{Position: p}
		}
		return knots
	}

	var knots []Knot
	for i := 0; i < len(points); i += 3 {
		k := Knot{Position: points[i]}
		if i > 0 {
			in := points[i-1].Sub(points[i])
			k.HandleIn = &in
		}
		if i+1 < len(points) {
			out := points[i+1].Sub(points[i])
			k.HandleOut = &out
		}
		knots = append(knots, k)
	}
	return knots
}

// Convert re-expresses a path under another curve type, keeping its anchors.
// Handles are regenerated when converting to Bezier.
func Convert(p Path, to CurveType) Path {
	if p.Type == to {
		return p.Clone()
	}
	anchors := Knots(p.Type, p.Points)
	for i := range anchors {
		anchors[i].HandleIn = nil
		anchors[i].HandleOut = nil
	}
	return Path{Type: to, Points: ControlPoints(to, anchors)}
}
