package mask

import (
	"github.com/ojrac/opensimplex-go"
)

// Noise samples 2D coherent noise across the path. The lateral axis is
// scaled by worldWidth/TileSize so one noise tile covers the same world
// distance whatever the path width.
type Noise struct {
	TileSize float32 `yaml:"tile_size"`
	Offset   float32 `yaml:"offset,omitempty"`
	Seed     int64   `yaml:"seed"`
	Smooth   float32 `yaml:"smooth,omitempty"`

	gen opensimplex.Noise32
}

// DefaultNoise returns a noise mask with 4 world unit tiles.
func DefaultNoise() Noise {
	return Noise{TileSize: 4, Seed: 1}
}

// NewNoise prepares the noise generator for n.
func NewNoise(n Noise) *Noise {
	if n.TileSize <= 0 {
		n.TileSize = DefaultNoise().TileSize
	}
	n.gen = opensimplex.NewNormalized32(n.Seed)
	return &n
}

// Coord maps a lateral position to the noise sample coordinate.
func (n *Noise) Coord(lateral, worldWidth float32) (x, y float32) {
	u := (clampLateral(lateral) + 1) * 0.5
	x = u*worldWidth/n.TileSize + n.Offset
	y = float32(n.Seed % 1024)
	return x, y
}

// Evaluate implements Evaluator. A Noise not built by NewNoise returns 0.
func (n *Noise) Evaluate(lateral, worldWidth float32) float32 {
	if n.gen == nil {
		return 0
	}
	return finish(n.gen.Eval2(n.Coord(lateral, worldWidth)), n.Smooth)
}
