package pipeline

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/terrain"
	"github.com/Faultbox/pathcarve/pkg/curve"
)

// Session re-synthesises a path when its knots, its profile or the terrain
// beneath it change, and keeps the last published output.
//
// Thread safety: Session is safe for concurrent use. Passes are serialised,
// which gives the terrain its single writer.
type Session struct {
	synth   *Synthesizer
	store   *curve.Store
	terrain *terrain.Grid

	mu        sync.Mutex
	profile   profile.Profile
	layers    []terrain.SplatLayer
	inputsRev uint64

	current *Output
	built   stamp
}

// stamp identifies the inputs an output was built from.
type stamp struct {
	valid      bool
	knots      uint64
	inputs     uint64
	generation uint64
}

// NewSession creates a session over a knot store and optional terrain.
func NewSession(synth *Synthesizer, store *curve.Store, grid *terrain.Grid, prof profile.Profile) *Session {
	return &Session{
		synth:   synth,
		store:   store,
		terrain: grid,
		profile: slices.Clone(prof),
	}
}

// SetProfile replaces the cross-section.
func (s *Session) SetProfile(prof profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = slices.Clone(prof)
	s.inputsRev++
}

// SetLayers replaces the splat layers painted after carving.
func (s *Session) SetLayers(layers []terrain.SplatLayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = slices.Clone(layers)
	s.inputsRev++
}

func (s *Session) stampLocked() stamp {
	st := stamp{valid: true, knots: s.store.Revision(), inputs: s.inputsRev}
	if s.terrain != nil {
		st.generation = s.terrain.Generation()
	}
	return st
}

// Stale reports whether the published output no longer matches the inputs.
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built != s.stampLocked()
}

// Update runs a pass if the output is stale and returns the current output.
// ran reports whether a pass happened. On error the previous output stays
// published.
func (s *Session) Update(ctx context.Context) (out *Output, ran bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stampLocked()
	if st == s.built {
		return s.current, false, nil
	}

	path, rev := s.store.Snapshot()
	st.knots = rev
	out, err = s.synth.Run(ctx, Input{
		Path:    path,
		Profile: s.profile,
		Terrain: s.terrain,
		Layers:  s.layers,
	})
	if err != nil {
		s.synth.log.Debug("synthesis pass abandoned", zap.Error(err))
		return s.current, false, err
	}

	s.current = out
	s.built = st
	return out, true, nil
}

// Current returns the last published output, or nil before the first pass.
func (s *Session) Current() *Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
