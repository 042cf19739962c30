package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pathcarve/internal/config"
	"github.com/Faultbox/pathcarve/internal/document"
	"github.com/Faultbox/pathcarve/internal/export"
	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/pipeline"
	"github.com/Faultbox/pathcarve/internal/terrain"
	"github.com/Faultbox/pathcarve/pkg/curve"
	"github.com/Faultbox/pathcarve/pkg/math"
)

func (a *app) cmdInfo(args []string) error {
	doc, err := loadDocument(args, "info <path.yaml>")
	if err != nil {
		return err
	}
	p, err := doc.Path()
	if err != nil {
		return err
	}
	s := a.settings(doc)
	steps := s.Sampling.StepsPerSegment(p)

	fmt.Printf("Path:     %s\n", doc.Name)
	fmt.Printf("Curve:    %s\n", p.Type)
	fmt.Printf("Knots:    %d anchors, %d control points\n", len(doc.Knots), len(p.Points))
	fmt.Printf("Segments: %d (%.2f chord length)\n", p.Segments(), p.ChordLength())
	fmt.Printf("Sampling: %d steps/segment, %d samples\n", steps, p.Segments()*steps+1)
	fmt.Println()
	fmt.Printf("Profile (%.2f total half-width):\n", doc.Profile.MaxHalfWidth())
	for i, seg := range doc.Profile {
		fmt.Printf("  %d %-12s width %-6.2f offset %-6.2f height %-6.2f\n",
			i, seg.Name, seg.Width, seg.HorizontalOffset, seg.VerticalOffset)
	}
	if len(doc.Masks) > 0 {
		fmt.Println()
		fmt.Println("Masks:")
		for _, m := range doc.Masks {
			fmt.Printf("  %-12s %s\n", m.Name, m.Type)
		}
	}
	if t := doc.Terrain; t != nil {
		fmt.Println()
		fmt.Printf("Terrain:  %v size %v", t.Position, t.Size)
		if t.Heightmap != "" {
			fmt.Printf(" from %s", doc.Resolve(t.Heightmap))
		}
		fmt.Println()
	}
	return nil
}

func (a *app) cmdMesh(ctx context.Context, args []string) error {
	doc, err := loadDocument(args, "mesh <path.yaml>")
	if err != nil {
		return err
	}
	p, err := doc.Path()
	if err != nil {
		return err
	}

	synth := pipeline.NewSynthesizer(a.settings(doc), a.pool)
	out, err := synth.Run(ctx, pipeline.Input{Path: p, Profile: doc.Profile})
	if err != nil {
		return err
	}
	logResult("mesh built", out)

	w := export.NewWriter(a.cfg.Output.Dir, prefix(doc, args[0]))
	name, err := w.Mesh(out.Mesh)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d vertices, %d layers)\n", name, len(out.Mesh.Vertices), len(out.Mesh.Groups))
	return nil
}

// loadTerrain builds the document's grid from its heightmap or as a flat grid.
func loadTerrain(doc *document.Document) (*terrain.Grid, error) {
	t := doc.Terrain
	if t == nil {
		return nil, document.ErrNoTerrain
	}
	if t.Heightmap != "" {
		return export.LoadHeightmap(doc.Resolve(t.Heightmap), t.Resolution, t.Position.Vec(), t.Size.Vec())
	}
	return terrain.NewGrid(t.Resolution, t.Position.Vec(), t.Size.Vec())
}

func (a *app) cmdCarve(ctx context.Context, args []string) error {
	doc, err := loadDocument(args, "carve <path.yaml>")
	if err != nil {
		return err
	}
	grid, err := loadTerrain(doc)
	if err != nil {
		return err
	}
	layers, err := doc.Layers()
	if err != nil {
		return err
	}
	p, err := doc.Path()
	if err != nil {
		return err
	}

	synth := pipeline.NewSynthesizer(a.settings(doc), a.pool)
	session := pipeline.NewSession(synth, curve.NewStore(p), grid, doc.Profile)
	session.SetLayers(layers)
	out, _, err := session.Update(ctx)
	if err != nil {
		return err
	}
	logResult("terrain carved", out)

	w := export.NewWriter(a.cfg.Output.Dir, prefix(doc, args[0]))
	written := make([]string, 0, len(out.Weights)+2)
	name, err := w.Heightmap(grid)
	if err != nil {
		return err
	}
	written = append(written, name)
	names, err := w.Weights(out.Weights, grid.Resolution)
	if err != nil {
		return err
	}
	written = append(written, names...)
	if name, err = w.Mesh(out.Mesh); err != nil {
		return err
	}
	written = append(written, name)

	fmt.Printf("Carved %d of %d cells\n", out.Carve.Covered, out.Carve.Scanned)
	for _, n := range written {
		fmt.Printf("Wrote %s\n", n)
	}
	return nil
}

func (a *app) cmdMasks(args []string) error {
	fs := flag.NewFlagSet("masks", flag.ContinueOnError)
	samples := fs.Int("n", 11, "Samples across the width")
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool masks <path.yaml> [-n samples]")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}
	layers, err := doc.Layers()
	if err != nil {
		return err
	}
	if len(layers) == 0 {
		fmt.Println("No masks defined")
		return nil
	}

	n := max(2, *samples)
	width := doc.Profile.MaxHalfWidth() * 2
	fmt.Printf("%8s", "lateral")
	for _, l := range layers {
		fmt.Printf(" %10s", l.Name)
	}
	fmt.Println()
	for i := range n {
		u := -1 + 2*float32(i)/float32(n-1)
		fmt.Printf("%8.2f", u)
		for _, l := range layers {
			fmt.Printf(" %10.3f", l.Mask.Evaluate(u, width))
		}
		fmt.Println()
	}
	return nil
}

func (a *app) cmdEdit(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pathtool edit <path.yaml> <add|insert|move|delete> [index] [x y z]")
	}
	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}
	edit, err := parseEdit(args[1], args[2:])
	if err != nil {
		return err
	}
	p, err := doc.Path()
	if err != nil {
		return err
	}

	store := curve.NewStore(p)
	change, err := store.Apply(edit)
	if err != nil {
		return err
	}
	edited, rev := store.Snapshot()
	doc.SetPath(edited)
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("edit leaves an invalid path: %w", err)
	}
	if err := doc.Save(args[0]); err != nil {
		return err
	}

	logger.Sugar.Debugw("knots edited", "op", edit.Kind, "revision", rev)
	fmt.Printf("%s: %d control points (inserted %v, moved %v, removed %v)\n",
		edit.Kind, len(edited.Points), change.Inserted, change.Moved, change.Removed)
	return nil
}

// parseEdit reads "<op> [index] [x y z]" into an edit.
func parseEdit(op string, rest []string) (curve.Edit, error) {
	var e curve.Edit
	switch op {
	case "add":
		e.Kind = curve.EditAdd
	case "insert":
		e.Kind = curve.EditInsert
	case "move":
		e.Kind = curve.EditMove
	case "delete", "rm":
		e.Kind = curve.EditDelete
	default:
		return e, fmt.Errorf("unknown edit %q", op)
	}

	if e.Kind != curve.EditAdd {
		if len(rest) < 1 {
			return e, fmt.Errorf("%s needs a control point index", op)
		}
		idx, err := strconv.Atoi(rest[0])
		if err != nil {
			return e, fmt.Errorf("invalid index %q: %w", rest[0], err)
		}
		e.Index = idx
		rest = rest[1:]
	}
	if e.Kind == curve.EditDelete {
		return e, nil
	}

	if len(rest) < 3 {
		return e, fmt.Errorf("%s needs a position x y z", op)
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(rest[i], 32)
		if err != nil {
			return e, fmt.Errorf("invalid coordinate %q: %w", rest[i], err)
		}
		xyz[i] = float32(f)
	}
	e.Position = math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return e, nil
}

// cmdConfig prints the merged config or writes it for later runs.
func (a *app) cmdConfig(args []string) error {
	op := "show"
	if len(args) > 0 {
		op = args[0]
	}
	switch op {
	case "show":
		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	case "save":
		path := config.DefaultPath()
		var err error
		if len(args) > 1 {
			path = args[1]
			err = a.cfg.SaveTo(path)
		} else {
			err = a.cfg.Save()
		}
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	default:
		return fmt.Errorf("usage: pathtool config [show | save [file]]")
	}
}
