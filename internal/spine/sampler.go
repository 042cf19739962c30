package spine

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/pkg/curve"
	"github.com/Faultbox/pathcarve/pkg/math"
)

// Settings controls sample density.
type Settings struct {
	// Precision is the target world-space spacing between samples.
	Precision float32
	// MinSteps and MaxSteps bound the samples per curve segment.
	MinSteps int
	MaxSteps int
}

// DefaultSettings returns the default sampling density.
func DefaultSettings() Settings {
	return Settings{
		Precision: 1,
		MinSteps:  4,
		MaxSteps:  128,
	}
}

// StepsPerSegment picks the number of samples per segment for p from the
// average anchor spacing. Smaller precision gives more steps.
func (s Settings) StepsPerSegment(p curve.Path) int {
	lo := max(1, s.MinSteps)
	hi := max(lo, s.MaxSteps)
	segments := p.Segments()
	if segments == 0 {
		return lo
	}
	if s.Precision <= 0 {
		return hi
	}
	avg := p.ChordLength() / float32(segments)
	steps := int(math32.Ceil(avg / s.Precision))
	return max(lo, min(hi, steps))
}

// Sampler walks a curve at fixed parametric resolution.
type Sampler struct {
	Settings Settings
	Pool     *parallel.Pool
}

// NewSampler creates a sampler. pool may be nil.
func NewSampler(settings Settings, pool *parallel.Pool) *Sampler {
	return &Sampler{Settings: settings, Pool: pool}
}

// Sample produces the spine of p conformed to provider by snapStrength.
// provider may be nil. An invalid path yields an empty spine.
func (s *Sampler) Sample(p curve.Path, provider HeightProvider, snapStrength float32) Spine {
	steps := s.Settings.StepsPerSegment(p)
	sp := s.SampleRaw(p, steps)
	if provider != nil {
		Conform(sp, provider, snapStrength, s.Pool)
	}
	return sp
}

// SampleRaw evaluates p at steps samples per segment without terrain.
// Every sample starts with world up as its up vector.
func (s *Sampler) SampleRaw(p curve.Path, steps int) Spine {
	if err := p.Validate(); err != nil {
		logger.Warn("skipping spine sampling", zap.Error(err))
		return nil
	}
	segments := p.Segments()
	if segments == 0 {
		return Spine{{Position: p.Points[0], Tangent: math.Forward, Up: math.Up}}
	}
	steps = max(1, steps)

	count := segments*steps + 1
	sp := make(Spine, count)
	s.Pool.For(count, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			t := float32(i) / float32(steps)
			if i == count-1 {
				t = float32(segments)
			}
			sp[i] = Sample{
				Position: p.At(t),
				Tangent:  p.TangentAt(t),
				Up:       math.Up,
				Param:    t,
			}
		}
	})

	fixTangents(sp)
	return sp
}

// fixTangents normalizes tangents and replaces near-zero ones (cusps,
// coincident handles) with the previous sample's tangent. Leading zero
// tangents take the first valid one, or the chord direction, or world forward.
func fixTangents(sp Spine) {
	first := -1
	for i := range sp {
		if sp[i].Tangent.LengthSq() > math.Epsilon*math.Epsilon {
			first = i
			break
		}
	}

	var fallback math.Vec3
	switch {
	case first >= 0:
		fallback = sp[first].Tangent.Normalize()
	case len(sp) > 1:
		fallback = sp[len(sp)-1].Position.Sub(sp[0].Position).NormalizeOr(math.Forward)
	default:
		fallback = math.Forward
	}

	degenerate := 0
	for i := range sp {
		t := sp[i].Tangent
		if t.LengthSq() <= math.Epsilon*math.Epsilon {
			sp[i].Tangent = fallback
			degenerate++
			continue
		}
		sp[i].Tangent = t.Normalize()
		fallback = sp[i].Tangent
	}
	if degenerate > 0 {
		logger.Debug("replaced degenerate tangents", zap.Int("count", degenerate))
	}
}
