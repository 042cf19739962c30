// Package pipeline drives one synthesis pass: sample the spine, extrude the
// mesh and carve the terrain, with a barrier after every stage.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/mesh"
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/spine"
	"github.com/Faultbox/pathcarve/internal/terrain"
	"github.com/Faultbox/pathcarve/pkg/curve"
)

// Settings tunes a synthesis pass.
type Settings struct {
	Sampling     spine.Settings
	SnapStrength float32
	Deform       terrain.DeformSettings

	// RestoreBeforeCarve clears earlier carving so cells the path has moved
	// away from return to the source terrain.
	RestoreBeforeCarve bool
}

// DefaultSettings returns the standard pass settings.
func DefaultSettings() Settings {
	return Settings{
		Sampling:           spine.DefaultSettings(),
		SnapStrength:       1,
		Deform:             terrain.DefaultDeformSettings(),
		RestoreBeforeCarve: true,
	}
}

// Input is everything one pass reads. Terrain and Layers are optional.
type Input struct {
	Path    curve.Path
	Profile profile.Profile
	Terrain *terrain.Grid
	Layers  []terrain.SplatLayer
}

// Output is the published result of a completed pass.
type Output struct {
	Spine   spine.Spine
	Mesh    *mesh.Mesh
	Carve   terrain.DeformStats
	Weights []terrain.WeightMap
}

// Synthesizer runs passes on a shared worker pool.
type Synthesizer struct {
	settings Settings
	pool     *parallel.Pool
	sampler  *spine.Sampler
	log      *zap.Logger
}

// NewSynthesizer creates a synthesizer. pool may be nil to run serially.
func NewSynthesizer(settings Settings, pool *parallel.Pool) *Synthesizer {
	return &Synthesizer{
		settings: settings,
		pool:     pool,
		sampler:  spine.NewSampler(settings.Sampling, pool),
		log:      logger.Named("pipeline"),
	}
}

// Settings returns the pass settings.
func (s *Synthesizer) Settings() Settings {
	return s.settings
}

// Run executes one pass. It returns ctx.Err() if the context is cancelled
// between stages; nothing from an abandoned pass is returned and the terrain
// is only written by the final stage.
//
// The caller must not read or write in.Terrain while Run is in progress.
func (s *Synthesizer) Run(ctx context.Context, in Input) (*Output, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var provider spine.HeightProvider
	if in.Terrain != nil {
		provider = in.Terrain
	}
	sp := s.sampler.Sample(in.Path, provider, s.settings.SnapStrength)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m := mesh.Extrude(sp, in.Profile, s.pool)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	out := &Output{Spine: sp, Mesh: m}
	if in.Terrain != nil {
		if s.settings.RestoreBeforeCarve {
			in.Terrain.Restore()
		}
		out.Carve = terrain.Deform(in.Terrain, sp, in.Profile, s.settings.Deform, s.pool)
		if len(in.Layers) > 0 {
			out.Weights = terrain.PaintWeights(in.Terrain, sp, in.Profile, in.Layers, s.pool)
		}
	}

	s.log.Debug("synthesis pass complete",
		zap.Stringer("curve", in.Path.Type),
		zap.Int("samples", len(sp)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("cells", out.Carve.Covered),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
