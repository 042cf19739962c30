package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"

	"github.com/Faultbox/pathcarve/internal/terrain"
	"github.com/Faultbox/pathcarve/pkg/math"
)

// ErrEmptyImage is returned for heightmaps without pixels.
var ErrEmptyImage = errors.New("heightmap image is empty")

// HeightImage renders the grid's current heights as a 16-bit grayscale
// image. Image row y holds grid row z = y.
func HeightImage(g *terrain.Grid) *image.Gray16 {
	n := g.Resolution
	img := image.NewGray16(image.Rect(0, 0, n, n))
	for z := range n {
		for x := range n {
			h := math.Clamp01(g.At(x, z))
			img.SetGray16(x, z, color.Gray16{Y: uint16(math32.Round(h * 65535))})
		}
	}
	return img
}

// GridFromImage builds a grid from a grayscale heightmap. A non-square image,
// or one whose side differs from resolution, is resampled; resolution 0 keeps
// the image width. The heights become the grid's baseline.
func GridFromImage(img image.Image, resolution int, position, size math.Vec3) (*terrain.Grid, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	if resolution <= 0 {
		resolution = b.Dx()
	}
	if b.Dx() != resolution || b.Dy() != resolution {
		img = transform.Resize(img, resolution, resolution, transform.Linear)
		b = img.Bounds()
	}

	g, err := terrain.NewGrid(resolution, position, size)
	if err != nil {
		return nil, err
	}
	for z := range resolution {
		for x := range resolution {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+z)).(color.Gray16)
			g.Heights[g.Index(x, z)] = float32(c.Y) / 65535
		}
	}
	g.CaptureBaseline()
	return g, nil
}

// LoadHeightmap reads a heightmap image file into a grid.
func LoadHeightmap(path string, resolution int, position, size math.Vec3) (*terrain.Grid, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open heightmap: %w", err)
	}
	g, err := GridFromImage(img, resolution, position, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// SaveHeightmap writes the grid's current heights as a 16-bit PNG.
func SaveHeightmap(path string, g *terrain.Grid) error {
	if err := imgio.Save(path, HeightImage(g), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save heightmap: %w", err)
	}
	return nil
}

// WeightImage renders one layer's weights as an 8-bit grayscale image.
func WeightImage(w terrain.WeightMap, resolution int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, resolution, resolution))
	for i, v := range w.Weights {
		if i >= resolution*resolution {
			break
		}
		img.Pix[(i/resolution)*img.Stride+i%resolution] = uint8(math32.Round(math.Clamp01(v) * 255))
	}
	return img
}

// SaveWeightMap writes one layer's weights as an 8-bit PNG.
func SaveWeightMap(path string, w terrain.WeightMap, resolution int) error {
	if err := imgio.Save(path, WeightImage(w, resolution), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save weight map %s: %w", w.Name, err)
	}
	return nil
}
