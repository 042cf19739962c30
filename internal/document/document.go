// Package document reads and writes path documents: the authored knots,
// cross-section, masks and terrain placement of one path.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pathcarve/internal/mask"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/terrain"
	"github.com/Faultbox/pathcarve/pkg/curve"
)

// Document errors.
var (
	ErrUnknownCurve = errors.New("unknown curve type")
	ErrNoTerrain    = errors.New("document has no terrain section")
)

// Document is one authored path.
type Document struct {
	Name       string          `yaml:"name,omitempty"`
	Curve      string          `yaml:"curve"`
	Knots      []Knot          `yaml:"knots"`
	Profile    profile.Profile `yaml:"profile"`
	Generation Generation      `yaml:"generation,omitempty"`
	Masks      []mask.Config   `yaml:"masks,omitempty"`
	Terrain    *Terrain        `yaml:"terrain,omitempty"`

	dir string // directory relative paths resolve against
}

// Knot is an anchor with optional Bezier handle offsets.
// An absent handle is generated from the neighbouring anchors.
type Knot struct {
	Position  Vec3  `yaml:"position,flow"`
	HandleIn  *Vec3 `yaml:"handle_in,omitempty,flow"`
	HandleOut *Vec3 `yaml:"handle_out,omitempty,flow"`
}

// Generation overrides the configured sampling settings for this path.
// Zero values and nil pointers fall back to the configuration.
type Generation struct {
	Precision    float32  `yaml:"precision,omitempty"`
	SnapStrength *float32 `yaml:"snap_strength,omitempty"`
}

// Terrain places the height grid the path is carved into.
// Heightmap is a grayscale image path; without it a flat grid of
// Resolution cells per side is used.
type Terrain struct {
	Heightmap  string `yaml:"heightmap,omitempty"`
	Resolution int    `yaml:"resolution,omitempty"`
	Position   Vec3   `yaml:"position,flow"`
	Size       Vec3   `yaml:"size,flow"`
}

// Load reads and validates a path document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.dir = filepath.Dir(path)
	return doc, nil
}

// Parse decodes and validates a path document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes the document as YAML.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	d.dir = filepath.Dir(path)
	return nil
}

// Validate reports every problem with the document.
func (d *Document) Validate() error {
	var err error
	ct, cerr := d.CurveType()
	if cerr != nil {
		err = multierr.Append(err, cerr)
	} else if perr := d.path(ct).Validate(); perr != nil {
		err = multierr.Append(err, fmt.Errorf("knots: %w", perr))
	}
	if perr := d.Profile.Validate(); perr != nil {
		err = multierr.Append(err, fmt.Errorf("profile: %w", perr))
	}
	if d.Generation.SnapStrength != nil {
		if s := *d.Generation.SnapStrength; s < 0 || s > 1 {
			err = multierr.Append(err, fmt.Errorf("generation: snap_strength %v outside [0,1]", s))
		}
	}
	if d.Generation.Precision < 0 {
		err = multierr.Append(err, fmt.Errorf("generation: precision %v must not be negative", d.Generation.Precision))
	}
	for i, mc := range d.Masks {
		if _, merr := mask.New(mc); merr != nil {
			err = multierr.Append(err, fmt.Errorf("mask %d (%s): %w", i, mc.Name, merr))
		}
	}
	if t := d.Terrain; t != nil {
		if t.Size.X <= 0 || t.Size.Z <= 0 {
			err = multierr.Append(err, fmt.Errorf("terrain: size %v must be positive on X and Z", t.Size))
		}
		if t.Heightmap == "" && t.Resolution < 2 {
			err = multierr.Append(err, fmt.Errorf("terrain: %w", terrain.ErrResolution))
		}
	}
	return err
}

// CurveType parses the document's curve name.
func (d *Document) CurveType() (curve.CurveType, error) {
	ct, err := curve.ParseCurveType(d.Curve)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurve, d.Curve)
	}
	return ct, nil
}

// Path returns the control point path of the document's knots.
func (d *Document) Path() (curve.Path, error) {
	ct, err := d.CurveType()
	if err != nil {
		return curve.Path{}, err
	}
	return d.path(ct), nil
}

func (d *Document) path(ct curve.CurveType) curve.Path {
	knots := make([]curve.Knot, len(d.Knots))
	for i, k := range d.Knots {
		knots[i] = curve.Knot{
			Position:  k.Position.Vec(),
			HandleIn:  vecPtr(k.HandleIn),
			HandleOut: vecPtr(k.HandleOut),
		}
	}
	return curve.Path{Type: ct, Points: curve.ControlPoints(ct, knots)}
}

// SetPath replaces the curve type and knots from a control point path.
func (d *Document) SetPath(p curve.Path) {
	d.Curve = p.Type.String()
	knots := curve.Knots(p.Type, p.Points)
	d.Knots = make([]Knot, len(knots))
	for i, k := range knots {
		d.Knots[i] = Knot{
			Position:  Vec3(k.Position),
			HandleIn:  docPtr(k.HandleIn),
			HandleOut: docPtr(k.HandleOut),
		}
	}
}

// Layers builds one splat layer per mask.
func (d *Document) Layers() ([]terrain.SplatLayer, error) {
	layers := make([]terrain.SplatLayer, 0, len(d.Masks))
	for i, mc := range d.Masks {
		ev, err := mask.New(mc)
		if err != nil {
			return nil, fmt.Errorf("mask %d (%s): %w", i, mc.Name, err)
		}
		name := mc.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", mc.Type, i)
		}
		layers = append(layers, terrain.SplatLayer{Name: name, Mask: ev})
	}
	return layers, nil
}

// Resolve returns p relative to the document's directory unless it is absolute.
func (d *Document) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || d.dir == "" {
		return p
	}
	return filepath.Join(d.dir, p)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	var out Document
	if err := copier.CopyWithOption(&out, d, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	out.dir = d.dir
	return &out, nil
}
