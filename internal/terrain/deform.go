package terrain

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/spine"
	"github.com/Faultbox/pathcarve/pkg/math"
)

// DefaultFalloffRatio is the share of the total half-width used as the edge blend band.
const DefaultFalloffRatio = 0.25

// DeformSettings tunes the heightfield carve.
type DeformSettings struct {
	FalloffRatio float32
}

// DefaultDeformSettings returns the standard carve settings.
func DefaultDeformSettings() DeformSettings {
	return DeformSettings{FalloffRatio: DefaultFalloffRatio}
}

// DeformStats summarises one carve.
type DeformStats struct {
	Scanned int // cells inside the spine's reach
	Covered int // cells written
}

// Deform carves the path profile into the grid.
//
// Every cell is blended from the grid's baseline toward the highest profile
// layer covering it, so calling Deform again with the same inputs leaves the
// grid unchanged. Cells no layer covers keep their current height. Coverage
// uses the signed lateral offset from the interpolated frame; the edge falloff
// uses the plain XZ distance to the nearest spine segment.
//
// Deform writes each cell from exactly one worker; the caller must not read
// the grid or run a HeightProvider query against it concurrently.
func Deform(g *Grid, sp spine.Spine, prof profile.Profile, settings DeformSettings, pool *parallel.Pool) DeformStats {
	if g == nil || len(sp) < 2 {
		logger.Debug("deform skipped: spine too short", zap.Int("samples", len(sp)))
		return DeformStats{}
	}
	maxHalf := prof.MaxHalfWidth()
	if maxHalf <= 0 {
		logger.Warn("deform skipped: profile has no active segments")
		return DeformStats{}
	}

	x0, z0, x1, z1, ok := g.reachRect(sp, maxHalf)
	if !ok {
		logger.Debug("deform skipped: spine outside grid")
		return DeformStats{}
	}

	ratio := math.Clamp01(settings.FalloffRatio)
	fadeStart := maxHalf * (1 - ratio)
	base := g.Baseline()

	var covered atomic.Int64
	rows := z1 - z0 + 1
	pool.For(rows, func(lo, hi int) {
		n := 0
		for r := lo; r < hi; r++ {
			z := z0 + r
			for x := x0; x <= x1; x++ {
				idx := g.Index(x, z)
				h, ok := carveCell(g, sp, prof, g.CellWorld(x, z), base[idx], fadeStart, maxHalf)
				if !ok {
					continue
				}
				g.Heights[idx] = h
				n++
			}
		}
		covered.Add(int64(n))
	})

	stats := DeformStats{Scanned: rows * (x1 - x0 + 1), Covered: int(covered.Load())}
	logger.Debug("deform complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("covered", stats.Covered),
		zap.Float32("max_half_width", maxHalf))
	return stats
}

// carveCell returns the new normalized height of a cell, or ok false when no
// profile layer covers it.
func carveCell(g *Grid, sp spine.Spine, prof profile.Profile, cell math.Vec2, orig, fadeStart, maxHalf float32) (float32, bool) {
	hit, ok := sp.Nearest(cell)
	if !ok {
		return 0, false
	}
	f := sp.FrameAt(hit)
	lateral := f.Lateral(math.Vec3{X: cell.X, Y: g.WorldHeight(orig), Z: cell.Y})

	target := math32.Inf(-1)
	for _, seg := range prof {
		if seg.Contains(lateral) {
			target = max(target, f.Position.Y+seg.VerticalOffset)
		}
	}
	if math32.IsInf(target, -1) {
		return 0, false
	}

	blend := falloff(hit.Dist(), fadeStart, maxHalf)
	return math.Lerp(orig, g.NormalizedHeight(target), blend), true
}

// falloff is 1 up to start, 0 from end outward and linear in between.
func falloff(dist, start, end float32) float32 {
	if dist >= end {
		return 0
	}
	if dist <= start {
		return 1
	}
	return 1 - math.InverseLerp(start, end, dist)
}

// reachRect returns the inclusive cell rectangle that can lie within reach
// of the spine. Cells outside it are never covered.
func (g *Grid) reachRect(sp spine.Spine, reach float32) (x0, z0, x1, z1 int, ok bool) {
	lo, hi, ok := sp.BoundsXZ()
	if !ok || g.Size.X <= 0 || g.Size.Z <= 0 {
		return 0, 0, 0, 0, false
	}
	cs := g.CellSize()
	last := g.Resolution - 1

	toCell := func(w, origin, size float32) float32 {
		return (w - origin) / size
	}
	fx0 := math32.Floor(toCell(lo.X-reach, g.Position.X, cs.X))
	fz0 := math32.Floor(toCell(lo.Y-reach, g.Position.Z, cs.Y))
	fx1 := math32.Ceil(toCell(hi.X+reach, g.Position.X, cs.X))
	fz1 := math32.Ceil(toCell(hi.Y+reach, g.Position.Z, cs.Y))

	if fx1 < 0 || fz1 < 0 || fx0 > float32(last) || fz0 > float32(last) {
		return 0, 0, 0, 0, false
	}
	x0 = max(0, int(fx0))
	z0 = max(0, int(fz0))
	x1 = min(last, int(fx1))
	z1 = min(last, int(fz1))
	return x0, z0, x1, z1, true
}
