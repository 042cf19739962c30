// Package terrain holds the height grid a path is carved into, answers
// height queries against it and paints per-layer blend weights.
package terrain

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// ErrResolution is returned for grids smaller than 2x2.
var ErrResolution = errors.New("grid resolution must be at least 2")

// Grid is a square array of normalized heights (0..1) placed in the world.
//
// Cell (x, z) sits at world X = Position.X + x/(Resolution-1)*Size.X and
// Z = Position.Z + z/(Resolution-1)*Size.Z; its world height is
// Position.Y + h*Size.Y.
//
// Once a baseline is captured the grid keeps two layers: the baseline is the
// source terrain that height queries read and carving blends from, Heights is
// the carved output. Writing Heights directly before the first carve edits
// the source; call Touch afterwards.
//
// Thread safety: a Grid is not locked. One stage may write it at a time and
// nothing may read it while that happens; the pipeline driver enforces this.
type Grid struct {
	Resolution int
	Heights    []float32 // row-major, index z*Resolution + x
	Position   math.Vec3
	Size       math.Vec3

	baseline   []float32
	generation atomic.Uint64
}

// NewGrid creates a flat grid of the given resolution at height 0.
func NewGrid(resolution int, position, size math.Vec3) (*Grid, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrResolution, resolution)
	}
	return &Grid{
		Resolution: resolution,
		Heights:    make([]float32, resolution*resolution),
		Position:   position,
		Size:       size,
	}, nil
}

// Index returns the flat index of cell (x, z).
func (g *Grid) Index(x, z int) int {
	return z*g.Resolution + x
}

// At returns the normalized height of cell (x, z).
func (g *Grid) At(x, z int) float32 {
	return g.Heights[g.Index(x, z)]
}

// Set edits the source terrain at cell (x, z).
func (g *Grid) Set(x, z int, h float32) {
	i := g.Index(x, z)
	h = math.Clamp01(h)
	g.Heights[i] = h
	if g.baseline != nil {
		g.baseline[i] = h
	}
	g.Touch()
}

// source returns the heights height queries read.
func (g *Grid) source() []float32 {
	if g.baseline != nil {
		return g.baseline
	}
	return g.Heights
}

// CellSize returns the world distance between neighbouring cells on X and Z.
func (g *Grid) CellSize() math.Vec2 {
	n := float32(g.Resolution - 1)
	return math.Vec2{X: g.Size.X / n, Y: g.Size.Z / n}
}

// CellWorld returns the world XZ position of cell (x, z).
func (g *Grid) CellWorld(x, z int) math.Vec2 {
	cs := g.CellSize()
	return math.Vec2{
		X: g.Position.X + float32(x)*cs.X,
		Y: g.Position.Z + float32(z)*cs.Y,
	}
}

// WorldHeight converts a normalized height to world Y.
func (g *Grid) WorldHeight(h float32) float32 {
	return g.Position.Y + h*g.Size.Y
}

// NormalizedHeight converts world Y to a normalized height clamped to [0,1].
func (g *Grid) NormalizedHeight(y float32) float32 {
	if g.Size.Y == 0 {
		return 0
	}
	return math.Clamp01((y - g.Position.Y) / g.Size.Y)
}

// cellCoords maps world XZ to fractional cell coordinates.
func (g *Grid) cellCoords(x, z float32) (fx, fz float32, ok bool) {
	if g.Size.X <= 0 || g.Size.Z <= 0 {
		return 0, 0, false
	}
	n := float32(g.Resolution - 1)
	fx = (x - g.Position.X) / g.Size.X * n
	fz = (z - g.Position.Z) / g.Size.Z * n
	if math32.IsNaN(fx) || math32.IsNaN(fz) || fx < 0 || fz < 0 || fx > n || fz > n {
		return 0, 0, false
	}
	return fx, fz, true
}

// CaptureBaseline records the current heights, carving included, as the
// new source terrain.
func (g *Grid) CaptureBaseline() {
	g.copyBaseline()
	g.Touch()
}

func (g *Grid) copyBaseline() {
	if g.baseline == nil {
		g.baseline = make([]float32, len(g.Heights))
	}
	copy(g.baseline, g.Heights)
}

// Baseline returns the source heights, capturing them on first use.
func (g *Grid) Baseline() []float32 {
	if g.baseline == nil {
		g.copyBaseline()
	}
	return g.baseline
}

// Restore discards all carving by copying the baseline back into Heights.
func (g *Grid) Restore() {
	if g.baseline == nil {
		return
	}
	copy(g.Heights, g.baseline)
}

// Touch marks the source terrain changed.
func (g *Grid) Touch() {
	g.generation.Add(1)
}

// Generation returns a counter that increases whenever the source terrain
// changes. Carving does not advance it.
func (g *Grid) Generation() uint64 {
	return g.generation.Load()
}
