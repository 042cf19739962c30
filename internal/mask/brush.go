package mask

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// BrushStroke imitates overlapping paint strokes. Lateral space is cut into
// Scale cells; each cell holds one stroke whose width, strength and centre
// offset come from a seeded hash of the cell index. Overlapping strokes keep
// the strongest value.
type BrushStroke struct {
	Scale       float32 `yaml:"scale"`
	Jitter      float32 `yaml:"jitter"`       // centre displacement, share of a cell
	MinWidth    float32 `yaml:"min_width"`    // stroke radius in cells
	MaxWidth    float32 `yaml:"max_width"`
	MinStrength float32 `yaml:"min_strength"`
	MaxStrength float32 `yaml:"max_strength"`
	Softness    float32 `yaml:"softness"` // faded share of the radius
	Seed        float32 `yaml:"seed"`
	Smooth      float32 `yaml:"smooth,omitempty"`
}

// DefaultBrushStroke returns a medium density brush.
func DefaultBrushStroke() BrushStroke {
	return BrushStroke{
		Scale:       8,
		Jitter:      0.5,
		MinWidth:    0.3,
		MaxWidth:    0.8,
		MinStrength: 0.5,
		MaxStrength: 1,
		Softness:    0.5,
		Seed:        1,
	}
}

// Hash salts keep the per-stroke properties independent.
const (
	saltOffset   = 17.31
	saltWidth    = 41.07
	saltStrength = 73.93
)

// hash returns a pseudo-random value in [0,1) for a cell index.
func hash(cell, seed, salt float32) float32 {
	v := math32.Sin(cell*12.9898+seed*78.233+salt) * 43758.5453
	return v - math32.Floor(v)
}

// Center returns the stroke centre of cell c in cell units.
func (b BrushStroke) Center(c float32) float32 {
	return c + 0.5 + (hash(c, b.Seed, saltOffset)-0.5)*math.Clamp01(b.Jitter)
}

// Evaluate implements Evaluator.
func (b BrushStroke) Evaluate(lateral, _ float32) float32 {
	if b.Scale <= 0 {
		return 0
	}
	x := (clampLateral(lateral) + 1) * 0.5 * b.Scale
	cell := math32.Floor(x)
	soft := math.Clamp01(b.Softness)

	var v float32
	for c := cell - 1; c <= cell+1; c++ {
		radius := math.Lerp(b.MinWidth, b.MaxWidth, hash(c, b.Seed, saltWidth))
		if radius <= 0 {
			continue
		}
		strength := math.Lerp(b.MinStrength, b.MaxStrength, hash(c, b.Seed, saltStrength))
		d := math32.Abs(x - b.Center(c))
		stroke := strength * (1 - math.Smoothstep(radius*(1-soft), radius, d))
		v = max(v, stroke)
	}
	return finish(v, b.Smooth)
}
