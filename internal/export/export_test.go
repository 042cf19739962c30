package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/internal/mesh"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/spine"
	"github.com/Faultbox/pathcarve/internal/terrain"
	"github.com/Faultbox/pathcarve/pkg/math"
)

func twoSampleMesh() *mesh.Mesh {
	sp := spine.Spine{
		{Position: math.Vec3{}, Tangent: math.Forward, Up: math.Up, Param: 0},
		{Position: math.Vec3{Z: 1}, Tangent: math.Forward, Up: math.Up, Param: 1},
	}
	return mesh.Extrude(sp, profile.Profile{{Name: "asphalt", Width: 2}}, nil)
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, twoSampleMesh(), "road"); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	checks := []struct {
		prefix string
		want   int
	}{
		{"v ", 4},
		{"vt ", 4},
		{"vn ", 4},
		{"g ", 1},
		{"f ", 2},
		{"o road", 1},
	}
	for _, c := range checks {
		if got := countPrefix(lines, c.prefix); got != c.want {
			t.Errorf("%q lines = %d, want %d", c.prefix, got, c.want)
		}
	}

	out := buf.String()
	for _, want := range []string{"g asphalt\n", "f 1/1/1 2/2/2 3/3/3\n", "f 2/2/2 4/4/4 3/3/3\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteOBJEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, nil, ""); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	if strings.Contains(buf.String(), "f ") {
		t.Error("empty mesh produced faces")
	}
}

func TestHeightmapRoundTrip(t *testing.T) {
	g, err := terrain.NewGrid(8, math.Vec3{}, math.Vec3{X: 8, Y: 4, Z: 8})
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Heights {
		g.Heights[i] = float32(i) / float32(len(g.Heights)-1)
	}

	path := filepath.Join(t.TempDir(), "height.png")
	if err := SaveHeightmap(path, g); err != nil {
		t.Fatalf("SaveHeightmap: %v", err)
	}
	loaded, err := LoadHeightmap(path, 0, g.Position, g.Size)
	if err != nil {
		t.Fatalf("LoadHeightmap: %v", err)
	}
	if loaded.Resolution != 8 {
		t.Fatalf("resolution = %d, want 8", loaded.Resolution)
	}
	for i := range g.Heights {
		if math32.Abs(loaded.Heights[i]-g.Heights[i]) > 1.0/65535 {
			t.Fatalf("cell %d: got %v, want %v", i, loaded.Heights[i], g.Heights[i])
		}
	}

	// Loaded heights are the source terrain
	loaded.Heights[0] = 1
	loaded.Restore()
	if loaded.Heights[0] != 0 {
		t.Error("heightmap not captured as baseline")
	}
}

func TestGridFromImageResamples(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 6, 3))
	for y := range 3 {
		for x := range 6 {
			img.SetGray16(x, y, color.Gray16{Y: 0x8080})
		}
	}
	g, err := GridFromImage(img, 4, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	if err != nil {
		t.Fatalf("GridFromImage: %v", err)
	}
	if g.Resolution != 4 || len(g.Heights) != 16 {
		t.Fatalf("resolution = %d, want 4", g.Resolution)
	}
	for i, h := range g.Heights {
		if math32.Abs(h-0.502) > 0.01 {
			t.Errorf("cell %d = %v, want ~0.502", i, h)
		}
	}
}

func TestGridFromImageErrors(t *testing.T) {
	_, err := GridFromImage(image.NewGray(image.Rect(0, 0, 0, 0)), 0, math.Vec3{}, math.Vec3{X: 1, Z: 1})
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	_, err = GridFromImage(image.NewGray(image.Rect(0, 0, 1, 1)), 0, math.Vec3{}, math.Vec3{X: 1, Z: 1})
	if !errors.Is(err, terrain.ErrResolution) {
		t.Errorf("expected ErrResolution, got %v", err)
	}
	if _, err := LoadHeightmap(filepath.Join(t.TempDir(), "missing.png"), 0, math.Vec3{}, math.Vec3{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWeightImage(t *testing.T) {
	img := WeightImage(terrain.WeightMap{Name: "road", Weights: []float32{0, 0.5, 1, 2}}, 2)
	want := []uint8{0, 128, 255, 255}
	for i, w := range want {
		if got := img.GrayAt(i%2, i/2).Y; got != w {
			t.Errorf("pixel %d = %d, want %d", i, got, w)
		}
	}
}

func TestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir, "forest")

	if got := w.Filename("weight_dirt road", "png"); got != filepath.Join(dir, "forest_weight_dirt_road.png") {
		t.Errorf("Filename = %q", got)
	}

	name, err := w.Mesh(twoSampleMesh())
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	if !strings.Contains(string(data), "o forest") {
		t.Error("mesh file missing object name")
	}

	g, _ := terrain.NewGrid(2, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	if _, err := w.Heightmap(g); err != nil {
		t.Fatalf("Heightmap: %v", err)
	}
	names, err := w.Weights([]terrain.WeightMap{{Name: "a", Weights: make([]float32, 4)}, {Name: "b", Weights: make([]float32, 4)}}, 2)
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("wrote %d weight maps, want 2", len(names))
	}
	for _, n := range names {
		if _, err := os.Stat(n); err != nil {
			t.Errorf("missing %s: %v", n, err)
		}
	}
}

func TestWriterMeshErrors(t *testing.T) {
	// Output dir below a regular file cannot be created
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(filepath.Join(blocker, "out"), "road")
	if name, err := w.Mesh(twoSampleMesh()); err == nil || name != "" {
		t.Errorf("Mesh = %q, %v; want error and no file name", name, err)
	}
}

func TestWriterMeshComplete(t *testing.T) {
	w := NewWriter(t.TempDir(), "road")
	name, err := w.Mesh(twoSampleMesh())
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, twoSampleMesh(), "road"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Errorf("file has %d bytes, want the full %d byte OBJ", len(data), buf.Len())
	}
}
