package spine

import (
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/pkg/math"
)

// HeightProvider answers terrain queries at world XZ positions.
// ok is false outside the provider's valid bounds.
type HeightProvider interface {
	Height(x, z float32) (h float32, ok bool)
	Normal(x, z float32) (n math.Vec3, ok bool)
}

// Invalidator is implemented by providers whose terrain can change.
// Generation increases whenever previously returned heights may be stale.
type Invalidator interface {
	Generation() uint64
}

// Conform blends every sample's height toward the terrain and sets its up
// vector to the surface normal. strength is clamped to [0,1]: 0 keeps the
// curve height, 1 puts the sample on the terrain. Samples outside the
// provider's bounds are left unchanged.
func Conform(sp Spine, provider HeightProvider, strength float32, pool *parallel.Pool) {
	strength = math.Clamp01(strength)
	pool.For(len(sp), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := sp[i].Position
			h, ok := provider.Height(p.X, p.Z)
			if !ok {
				continue
			}
			sp[i].Position.Y = math.Lerp(p.Y, h, strength)
			if n, ok := provider.Normal(p.X, p.Z); ok {
				sp[i].Up = n.NormalizeOr(math.Up)
			}
		}
	})
}
