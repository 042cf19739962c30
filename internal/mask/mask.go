// Package mask maps a position across a path's width to a blend weight.
//
// Lateral positions are normalized to [-1,1] from the left edge to the right
// edge; world width is the path's full width in world units. Every evaluator
// returns a value in [0,1] and is safe for concurrent use once built.
package mask

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// ErrUnknownType is returned for an unrecognised mask type name.
var ErrUnknownType = errors.New("unknown mask type")

// Evaluator returns the blend weight at a lateral position.
type Evaluator interface {
	Evaluate(lateral, worldWidth float32) float32
}

// Mask type names used in path documents.
const (
	TypeGradient = "gradient"
	TypeNoise    = "noise"
	TypeBrush    = "brush"
	TypeShoulder = "shoulder"
	TypeRoad     = "road"
)

// Config selects and parameterises one mask. Only the section matching Type
// is read; a missing section uses that mask's defaults.
type Config struct {
	Name     string       `yaml:"name"`
	Type     string       `yaml:"type"`
	Gradient *Gradient    `yaml:"gradient,omitempty"`
	Noise    *Noise       `yaml:"noise,omitempty"`
	Brush    *BrushStroke `yaml:"brush,omitempty"`
	Shoulder *Shoulder    `yaml:"shoulder,omitempty"`
	Road     *RoadSurface `yaml:"road,omitempty"`
}

// New builds the evaluator described by c.
func New(c Config) (Evaluator, error) {
	switch c.Type {
	case TypeGradient:
		g := Gradient{Curve: Flat(1)}
		if c.Gradient != nil {
			g = *c.Gradient
			g.Curve = g.Curve.Sorted()
		}
		return g, nil
	case TypeNoise:
		n := DefaultNoise()
		if c.Noise != nil {
			n = *c.Noise
		}
		return NewNoise(n), nil
	case TypeBrush:
		if c.Brush == nil {
			return DefaultBrushStroke(), nil
		}
		return *c.Brush, nil
	case TypeShoulder:
		if c.Shoulder == nil {
			return DefaultShoulder(), nil
		}
		return *c.Shoulder, nil
	case TypeRoad:
		r := DefaultRoadSurface()
		if c.Road != nil {
			r = *c.Road
			r.Shape = r.Shape.Sorted()
			r.FalloffCurve = r.FalloffCurve.Sorted()
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
}

// finish applies the shared edge softening: values below smooth/2 drop to 0,
// values above 1-smooth/2 rise to 1, and values between are smoothstepped.
func finish(v, smooth float32) float32 {
	if v != v {
		return 0
	}
	v = math.Clamp01(v)
	if smooth <= 0 {
		return v
	}
	smooth = math.Clamp01(smooth)
	lo := smooth * 0.5
	hi := 1 - lo
	switch {
	case v < lo:
		return 0
	case v > hi:
		return 1
	default:
		return math.Smoothstep(lo, hi, v)
	}
}

// clampLateral keeps lateral inside [-1,1] and maps NaN to the centerline.
func clampLateral(lateral float32) float32 {
	if lateral != lateral {
		return 0
	}
	return math.Clamp(lateral, -1, 1)
}
