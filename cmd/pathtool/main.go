// pathtool builds ribbon meshes and carves terrain from path documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/config"
	"github.com/Faultbox/pathcarve/internal/document"
	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/internal/pipeline"
)

// app carries the state shared by every command.
type app struct {
	cfg  *config.Config
	pool *parallel.Pool
}

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{cfg: cfg, pool: parallel.NewPool(cfg.Parallel.Workers, cfg.Parallel.Grain)}

	err = a.run(ctx, args[0], args[1:])

	a.pool.Close()
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "info":
		return a.cmdInfo(args)
	case "mesh":
		return a.cmdMesh(ctx, args)
	case "carve":
		return a.cmdCarve(ctx, args)
	case "masks":
		return a.cmdMasks(args)
	case "edit":
		return a.cmdEdit(args)
	case "config":
		return a.cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println(`pathtool - path mesh and terrain carving utility

Usage:
  pathtool [flags] <command> [options]

Commands:
  info  <path.yaml>                          Show curve, profile and sampling details
  mesh  <path.yaml>                          Write the ribbon mesh as OBJ
  carve <path.yaml>                          Carve the terrain and write height, weights and mesh
  masks <path.yaml> [-n samples]             Print mask weights across the path width
  edit  <path.yaml> <op> [index] [x y z]     Edit knots (op: add, insert, move, delete)
  config [show | save [file]]                Print the effective config or save it
                                             (default file: user config dir)

Flags:
  -config <file>   Config file (default ./config.yaml or user config dir)
  -debug           Debug logging
  -precision <f>   Sample spacing in world units
  -snap <f>        Terrain snap strength 0..1
  -falloff <f>     Carve falloff ratio 0..1
  -workers <n>     Worker goroutines (0 = all CPUs)
  -out <dir>       Output directory

Examples:
  pathtool info road.yaml
  pathtool -out build mesh road.yaml
  pathtool -snap 0.5 carve road.yaml
  pathtool edit road.yaml move 3 4 0 12
  pathtool -workers 4 -snap 0.8 config save`)
}

// loadDocument reads the document named by the first argument.
func loadDocument(args []string, usage string) (*document.Document, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: pathtool %s", usage)
	}
	return document.Load(args[0])
}

// settings merges the document's generation overrides into the config.
func (a *app) settings(doc *document.Document) pipeline.Settings {
	s := a.cfg.Pipeline()
	if doc.Generation.Precision > 0 {
		s.Sampling.Precision = doc.Generation.Precision
	}
	if doc.Generation.SnapStrength != nil {
		s.SnapStrength = *doc.Generation.SnapStrength
	}
	return s
}

// prefix names output files after the document.
func prefix(doc *document.Document, path string) string {
	if doc.Name != "" {
		return strings.ReplaceAll(strings.ToLower(doc.Name), " ", "_")
	}
	base := path[strings.LastIndexAny(path, `/\`)+1:]
	return strings.TrimSuffix(base, ".yaml")
}

func logResult(msg string, out *pipeline.Output) {
	logger.Info(msg,
		zap.Int("samples", len(out.Spine)),
		zap.Int("vertices", len(out.Mesh.Vertices)),
		zap.Int("triangles", len(out.Mesh.Indices)/3),
		zap.Int("carved_cells", out.Carve.Covered))
}
