package mask

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// Shoulder weights the path edges. Width is the band measured inward from
// each edge in lateral units; Softness is the faded inner share of it.
type Shoulder struct {
	Left     bool    `yaml:"left"`
	Right    bool    `yaml:"right"`
	Width    float32 `yaml:"width"`
	Softness float32 `yaml:"softness"`
	Smooth   float32 `yaml:"smooth,omitempty"`
}

// DefaultShoulder returns a two-sided shoulder over the outer fifth.
func DefaultShoulder() Shoulder {
	return Shoulder{Left: true, Right: true, Width: 0.2, Softness: 0.5}
}

// Evaluate implements Evaluator. Negative lateral positions are the left side.
func (s Shoulder) Evaluate(lateral, _ float32) float32 {
	lateral = clampLateral(lateral)
	if (lateral < 0 && !s.Left) || (lateral >= 0 && !s.Right) || s.Width <= 0 {
		return 0
	}
	fromEdge := 1 - math32.Abs(lateral)
	soft := math.Clamp01(s.Softness)
	v := 1 - math.Smoothstep(s.Width*(1-soft), s.Width, fromEdge)
	return finish(v, s.Smooth)
}
