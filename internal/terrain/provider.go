package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// Height returns the bilinearly interpolated world height of the source
// terrain at world (x, z). ok is false outside the grid.
func (g *Grid) Height(x, z float32) (float32, bool) {
	fx, fz, ok := g.cellCoords(x, z)
	if !ok {
		return 0, false
	}
	return g.WorldHeight(g.sample(fx, fz)), true
}

// Normal returns the surface normal at world (x, z) from central differences
// one cell apart. ok is false outside the grid.
func (g *Grid) Normal(x, z float32) (math.Vec3, bool) {
	fx, fz, ok := g.cellCoords(x, z)
	if !ok {
		return math.Vec3{}, false
	}
	n := float32(g.Resolution - 1)
	x0, x1 := max(0, fx-1), min(n, fx+1)
	z0, z1 := max(0, fz-1), min(n, fz+1)

	cs := g.CellSize()
	dx := (g.sample(x1, fz) - g.sample(x0, fz)) * g.Size.Y / ((x1 - x0) * cs.X)
	dz := (g.sample(fx, z1) - g.sample(fx, z0)) * g.Size.Y / ((z1 - z0) * cs.Y)

	return math.Vec3{X: -dx, Y: 1, Z: -dz}.NormalizeOr(math.Up), true
}

// sample bilinearly interpolates source heights at fractional cell coordinates.
func (g *Grid) sample(fx, fz float32) float32 {
	last := g.Resolution - 1
	x0 := min(int(math32.Floor(fx)), last)
	z0 := min(int(math32.Floor(fz)), last)
	x1 := min(x0+1, last)
	z1 := min(z0+1, last)
	sx := fx - float32(x0)
	sz := fz - float32(z0)

	src := g.source()
	h00 := src[g.Index(x0, z0)]
	h10 := src[g.Index(x1, z0)]
	h01 := src[g.Index(x0, z1)]
	h11 := src[g.Index(x1, z1)]

	h0 := h00*(1-sx) + h10*sx
	h1 := h01*(1-sx) + h11*sx
	return h0*(1-sz) + h1*sz
}
