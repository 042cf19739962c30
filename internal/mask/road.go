package mask

import (
	"fmt"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// FalloffMode shapes the edge of a RoadSurface band.
type FalloffMode uint8

// Falloff modes.
const (
	FalloffLinear FalloffMode = iota
	FalloffSmoothstep
	FalloffExponential
	FalloffCustom
)

var falloffNames = [...]string{"linear", "smoothstep", "exponential", "custom"}

// String returns the falloff name.
func (f FalloffMode) String() string {
	if int(f) < len(falloffNames) {
		return falloffNames[f]
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// ParseFalloffMode parses a falloff name.
func ParseFalloffMode(s string) (FalloffMode, error) {
	for i, name := range falloffNames {
		if name == s {
			return FalloffMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown falloff mode %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (f FalloffMode) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FalloffMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	m, err := ParseFalloffMode(s)
	if err != nil {
		return err
	}
	*f = m
	return nil
}

// RoadSurface weights a band around CenterOffset.
//
// Inside the band (|lateral-CenterOffset| <= WidthRatio) Shape is evaluated
// over the distance ratio 0 (centre) .. 1 (band edge). Outside it the value
// fades to 0 over EdgeWidth lateral units using Falloff.
type RoadSurface struct {
	CenterOffset float32     `yaml:"center_offset"`
	WidthRatio   float32     `yaml:"width_ratio"`
	EdgeWidth    float32     `yaml:"edge_width"`
	Shape        KeyCurve    `yaml:"shape,omitempty"`
	Falloff      FalloffMode `yaml:"falloff"`
	Exponent     float32     `yaml:"exponent,omitempty"`
	FalloffCurve KeyCurve    `yaml:"falloff_curve,omitempty"`
	Smooth       float32     `yaml:"smooth,omitempty"`
}

// DefaultRoadSurface returns a centred band over 60% of the width.
func DefaultRoadSurface() RoadSurface {
	return RoadSurface{WidthRatio: 0.6, EdgeWidth: 0.2, Falloff: FalloffSmoothstep}
}

func (r RoadSurface) shape(u float32) float32 {
	if len(r.Shape) == 0 {
		return 1
	}
	return r.Shape.Eval(u)
}

// edge maps u (1 at the band edge, 0 at the outer limit) through the falloff.
func (r RoadSurface) edge(u float32) float32 {
	switch r.Falloff {
	case FalloffSmoothstep:
		return math.Smoothstep(0, 1, u)
	case FalloffExponential:
		k := r.Exponent
		if k <= 0 {
			k = 2
		}
		return math32.Pow(u, k)
	case FalloffCustom:
		if len(r.FalloffCurve) == 0 {
			return u
		}
		return r.FalloffCurve.Eval(u)
	default:
		return u
	}
}

// Evaluate implements Evaluator.
func (r RoadSurface) Evaluate(lateral, _ float32) float32 {
	d := math32.Abs(clampLateral(lateral) - r.CenterOffset)
	half := max(r.WidthRatio, 0)
	if d <= half {
		if half == 0 {
			return finish(r.shape(0), r.Smooth)
		}
		return finish(r.shape(d/half), r.Smooth)
	}
	if r.EdgeWidth <= 0 {
		return 0
	}
	e := (d - half) / r.EdgeWidth
	if e >= 1 {
		return 0
	}
	return finish(r.edge(1-e)*r.shape(1), r.Smooth)
}
