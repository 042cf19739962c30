// Package profile describes the transverse cross-section of a path.
package profile

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/logger"
)

// Profile errors.
var (
	ErrEmpty     = errors.New("profile has no segments with positive width")
	ErrNonFinite = errors.New("segment value is not finite")
)

// Segment is one layer of the cross-section.
// Offsets are measured along the path's right vector and up vector.
type Segment struct {
	Name             string  `yaml:"name,omitempty"`
	Width            float32 `yaml:"width"`
	HorizontalOffset float32 `yaml:"horizontal_offset"`
	VerticalOffset   float32 `yaml:"vertical_offset"`
}

// Active reports whether the segment contributes geometry.
func (s Segment) Active() bool {
	return s.Width > 0
}

// HalfWidth returns half the segment width.
func (s Segment) HalfWidth() float32 {
	return s.Width / 2
}

// Contains reports whether a signed lateral offset falls within the segment's band.
func (s Segment) Contains(lateral float32) bool {
	if !s.Active() {
		return false
	}
	h := s.HalfWidth()
	return lateral >= s.HorizontalOffset-h && lateral <= s.HorizontalOffset+h
}

// Reach returns how far the segment extends from the centerline.
func (s Segment) Reach() float32 {
	if !s.Active() {
		return 0
	}
	off := s.HorizontalOffset
	if off < 0 {
		off = -off
	}
	return s.HalfWidth() + off
}

// Profile is an ordered list of segments. Order decides layer indices in
// extruded meshes; height carving takes the highest covering segment.
type Profile []Segment

// MaxHalfWidth returns the total half-width affected by the profile.
func (p Profile) MaxHalfWidth() float32 {
	var m float32
	for _, s := range p {
		m = max(m, s.Reach())
	}
	return m
}

// ActiveCount returns the number of segments with positive width.
func (p Profile) ActiveCount() int {
	n := 0
	for _, s := range p {
		if s.Active() {
			n++
		}
	}
	return n
}

// Validate reports every problem with the profile. Segments without width
// are inert: they are logged and skipped by the geometry stages.
func (p Profile) Validate() error {
	var err error
	for i, s := range p {
		if !finite(s.Width) || !finite(s.HorizontalOffset) || !finite(s.VerticalOffset) {
			err = multierr.Append(err, fmt.Errorf("segment %d (%s): %w", i, s.Name, ErrNonFinite))
		}
	}
	if err != nil {
		return err
	}
	if p.ActiveCount() == 0 {
		return ErrEmpty
	}
	for i, s := range p {
		if !s.Active() {
			logger.Warn("profile segment has no width and contributes nothing",
				zap.Int("segment", i), zap.String("name", s.Name), zap.Float32("width", s.Width))
		}
	}
	return nil
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
