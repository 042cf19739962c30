package terrain

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/mask"
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/spine"
	"github.com/Faultbox/pathcarve/pkg/math"
)

// SplatLayer is a named texture layer driven by a lateral mask.
type SplatLayer struct {
	Name string
	Mask mask.Evaluator
}

// WeightMap holds one layer's blend weights in grid cell order.
type WeightMap struct {
	Name    string
	Weights []float32
}

// PaintWeights evaluates every layer's mask for the cells within the path's
// width. Lateral offsets are normalized by the profile's total half-width;
// cells beyond it get weight 0. The grid is only read.
func PaintWeights(g *Grid, sp spine.Spine, prof profile.Profile, layers []SplatLayer, pool *parallel.Pool) []WeightMap {
	maps := make([]WeightMap, len(layers))
	for i, l := range layers {
		maps[i] = WeightMap{Name: l.Name, Weights: make([]float32, len(g.Heights))}
	}
	if len(layers) == 0 || len(sp) < 2 {
		return maps
	}
	maxHalf := prof.MaxHalfWidth()
	if maxHalf <= 0 {
		logger.Warn("splat skipped: profile has no active segments")
		return maps
	}
	x0, z0, x1, z1, ok := g.reachRect(sp, maxHalf)
	if !ok {
		return maps
	}

	width := maxHalf * 2
	src := g.source()
	pool.For(z1-z0+1, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			z := z0 + r
			for x := x0; x <= x1; x++ {
				cell := g.CellWorld(x, z)
				hit, ok := sp.Nearest(cell)
				if !ok {
					continue
				}
				idx := g.Index(x, z)
				f := sp.FrameAt(hit)
				lateral := f.Lateral(math.Vec3{X: cell.X, Y: g.WorldHeight(src[idx]), Z: cell.Y})
				if math32.Abs(lateral) > maxHalf {
					continue
				}
				u := lateral / maxHalf
				for i, l := range layers {
					maps[i].Weights[idx] = l.Mask.Evaluate(u, width)
				}
			}
		}
	})

	logger.Debug("splat weights painted", zap.Int("layers", len(layers)), zap.Float32("width", width))
	return maps
}
