// Package export writes synthesis results to disk: ribbon meshes as OBJ,
// carved terrain and splat weights as PNG.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/pathcarve/internal/mesh"
	"github.com/Faultbox/pathcarve/internal/terrain"
)

// Writer names and writes output files for one path.
type Writer struct {
	outputDir string
	prefix    string
}

// NewWriter creates a writer that puts files named <prefix>_<kind>.<ext> in outputDir.
func NewWriter(outputDir, prefix string) *Writer {
	return &Writer{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// Filename returns the output path for a kind of file without writing it.
func (w *Writer) Filename(kind, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", w.prefix, sanitize(kind), ext)
	if w.outputDir != "" {
		name = filepath.Join(w.outputDir, name)
	}
	return name
}

func (w *Writer) prepare() error {
	if w.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return nil
}

// Mesh writes m as OBJ and returns the file name.
func (w *Writer) Mesh(m *mesh.Mesh) (string, error) {
	if err := w.prepare(); err != nil {
		return "", err
	}
	filename := w.Filename("mesh", "obj")
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	err = WriteOBJ(file, m, w.prefix)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", filename, cerr)
	}
	if err != nil {
		return "", err
	}
	return filename, nil
}

// Heightmap writes the grid as a 16-bit PNG and returns the file name.
func (w *Writer) Heightmap(g *terrain.Grid) (string, error) {
	if err := w.prepare(); err != nil {
		return "", err
	}
	filename := w.Filename("height", "png")
	return filename, SaveHeightmap(filename, g)
}

// Weights writes each weight map as an 8-bit PNG and returns the file names.
func (w *Writer) Weights(maps []terrain.WeightMap, resolution int) ([]string, error) {
	if err := w.prepare(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(maps))
	for _, m := range maps {
		filename := w.Filename("weight_"+m.Name, "png")
		if err := SaveWeightMap(filename, m, resolution); err != nil {
			return names, err
		}
		names = append(names, filename)
	}
	return names, nil
}

// sanitize keeps file names to letters, digits, '-' and '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
