package document

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pathcarve/internal/mask"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/pkg/curve"
	"github.com/Faultbox/pathcarve/pkg/math"
)

const sample = `
name: forest road
curve: bezier
knots:
  - position: {x: 0, y: 0, z: 0}
  - position: {x: 0, y: 0, z: 12}
    handle_in: {x: -2, y: 0, z: -3}
  - position: {x: 8, y: 1, z: 20}
profile:
  - name: asphalt
    width: 4
  - name: verge
    width: 1
    horizontal_offset: 2.5
    vertical_offset: -0.2
generation:
  precision: 0.5
  snap_strength: 0.8
masks:
  - name: asphalt
    type: road
  - name: gravel
    type: brush
    brush:
      scale: 6
      jitter: 0
      min_width: 0.3
      max_width: 0.3
      min_strength: 1
      max_strength: 1
      softness: 0.5
terrain:
  heightmap: height.png
  position: {x: -50, y: 0, z: -50}
  size: {x: 100, y: 20, z: 100}
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Name != "forest road" || len(doc.Knots) != 3 || len(doc.Profile) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Generation.Precision != 0.5 || doc.Generation.SnapStrength == nil || *doc.Generation.SnapStrength != 0.8 {
		t.Errorf("generation = %+v", doc.Generation)
	}
	if doc.Profile[1].HorizontalOffset != 2.5 || doc.Profile[1].VerticalOffset != -0.2 {
		t.Errorf("verge segment = %+v", doc.Profile[1])
	}

	p, err := doc.Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if p.Type != curve.Bezier || len(p.Points) != 7 {
		t.Fatalf("path has type %v and %d points, want bezier with 7", p.Type, len(p.Points))
	}
	// Authored in-handle of the middle anchor is kept, the others are generated
	if want := (math.Vec3{X: -2, Y: 0, Z: 9}); p.Points[2] != want {
		t.Errorf("in-handle = %v, want %v", p.Points[2], want)
	}
	if want := (math.Vec3{X: 0, Y: 0, Z: 3}); p.Points[1] != want {
		t.Errorf("generated out-handle = %v, want %v", p.Points[1], want)
	}

	layers, err := doc.Layers()
	if err != nil {
		t.Fatalf("Layers: %v", err)
	}
	if len(layers) != 2 || layers[0].Name != "asphalt" || layers[1].Name != "gravel" {
		t.Errorf("layers = %+v", layers)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	doc := &Document{
		Curve:   "bezier",
		Knots:   []Knot{{Position: Vec3{}}},
		Profile: profile.Profile{{Width: 0}},
		Masks:   []mask.Config{{Name: "m", Type: "mud"}},
		Terrain: &Terrain{Size: Vec3{X: 10, Z: 10}},
	}
	err := doc.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"knots", "profile", "mask 0", "terrain"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
	if !errors.Is(err, mask.ErrUnknownType) {
		t.Error("error does not wrap mask.ErrUnknownType")
	}
}

func TestUnknownCurve(t *testing.T) {
	doc := &Document{Curve: "nurbs", Knots: []Knot{{}, {}}, Profile: profile.Profile{{Width: 1}}}
	if err := doc.Validate(); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("expected ErrUnknownCurve, got %v", err)
	}
	if _, err := doc.Path(); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("Path: expected ErrUnknownCurve, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "road.yaml")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want, _ := doc.Path()
	got, _ := loaded.Path()
	if len(got.Points) != len(want.Points) {
		t.Fatalf("points = %d, want %d", len(got.Points), len(want.Points))
	}
	for i := range want.Points {
		if got.Points[i] != want.Points[i] {
			t.Errorf("point %d = %v, want %v", i, got.Points[i], want.Points[i])
		}
	}
	if got := loaded.Resolve(loaded.Terrain.Heightmap); got != filepath.Join(dir, "height.png") {
		t.Errorf("Resolve = %q", got)
	}
	if got := loaded.Resolve("/abs/h.png"); got != "/abs/h.png" {
		t.Errorf("absolute Resolve = %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestSetPath(t *testing.T) {
	var doc Document
	doc.SetPath(curve.Path{
		Type:   curve.CatmullRom,
		Points: []math.Vec3{{X: 1}, {X: 2}, {X: 3}},
	})
	if doc.Curve != "catmull-rom" || len(doc.Knots) != 3 || doc.Knots[2].Position.X != 3 {
		t.Errorf("SetPath gave %+v", doc)
	}
	if _, err := doc.CurveType(); err != nil {
		t.Errorf("SetPath wrote an unparsable curve name: %v", err)
	}
}

func TestClone(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	c, err := doc.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}

	c.Knots[0].Position.X = 99
	c.Profile[0].Width = 99
	c.Terrain.Size.X = 99

	if doc.Knots[0].Position.X == 99 || doc.Profile[0].Width == 99 || doc.Terrain.Size.X == 99 {
		t.Error("clone shares memory with the original")
	}
	if c.Name != doc.Name || len(c.Masks) != len(doc.Masks) {
		t.Error("clone lost fields")
	}
}

func TestSaveLoadKeepsCoincidentHandle(t *testing.T) {
	want := []math.Vec3{{}, {}, {Z: 5}, {Z: 10}}
	doc := &Document{Profile: profile.Profile{{Width: 2}}}
	doc.SetPath(curve.Path{Type: curve.Bezier, Points: want})

	path := filepath.Join(t.TempDir(), "cusp.yaml")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := loaded.Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !slices.Equal(got.Points, want) {
		t.Errorf("points = %v, want %v", got.Points, want)
	}
}

func TestVec3Forms(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vec3
		wantErr bool
	}{
		{"sequence", "[1, 2.5, -3]", Vec3{X: 1, Y: 2.5, Z: -3}, false},
		{"mapping", "{x: 1, z: -3}", Vec3{X: 1, Z: -3}, false},
		{"short sequence", "[1, 2]", Vec3{}, true},
		{"scalar", "4", Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Vec3
			err := yaml.Unmarshal([]byte(tt.input), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestParseSequenceVectors(t *testing.T) {
	doc, err := Parse([]byte(`
curve: catmull-rom
knots:
  - position: [0, 0, 0]
  - position: [4, 1, 10]
profile:
  - width: 4
terrain:
  resolution: 8
  position: [-10, 0, -10]
  size: [20, 5, 20]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Knots[1].Position != (Vec3{X: 4, Y: 1, Z: 10}) || doc.Terrain.Size != (Vec3{X: 20, Y: 5, Z: 20}) {
		t.Errorf("vectors = %+v, %+v", doc.Knots, doc.Terrain)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "position: [4, 1, 10]") {
		t.Errorf("marshalled vectors are not in sequence form:\n%s", data)
	}
}

func TestParseInertProfileSegment(t *testing.T) {
	doc, err := Parse([]byte(`
curve: catmull-rom
knots:
  - position: [0, 0, 0]
  - position: [0, 0, 10]
profile:
  - width: 4
  - name: unused
    width: 0
`))
	if err != nil {
		t.Fatalf("a zero-width segment should not reject the document: %v", err)
	}
	if got := doc.Profile.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}
}
