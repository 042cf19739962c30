// Package config handles pathtool configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/pathcarve/internal/pipeline"
	"github.com/Faultbox/pathcarve/internal/spine"
	"github.com/Faultbox/pathcarve/internal/terrain"
)

// Config holds all tool settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Deform     DeformConfig     `yaml:"deform"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds spine sampling settings.
type GenerationConfig struct {
	Precision    float32 `yaml:"precision"` // world spacing between samples
	MinSteps     int     `yaml:"min_steps"`
	MaxSteps     int     `yaml:"max_steps"`
	SnapStrength float32 `yaml:"snap_strength"`
}

// DeformConfig holds terrain carving settings.
type DeformConfig struct {
	FalloffRatio       float32 `yaml:"falloff_ratio"`
	RestoreBeforeCarve bool    `yaml:"restore_before_carve"`
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
	Grain   int `yaml:"grain"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	sampling := spine.DefaultSettings()
	return &Config{
		Generation: GenerationConfig{
			Precision:    sampling.Precision,
			MinSteps:     sampling.MinSteps,
			MaxSteps:     sampling.MaxSteps,
			SnapStrength: 1,
		},
		Deform: DeformConfig{
			FalloffRatio:       terrain.DefaultFalloffRatio,
			RestoreBeforeCarve: true,
		},
		Parallel: ParallelConfig{
			Workers: 0,
			Grain:   64,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var err error
	g := c.Generation
	if g.Precision < 0 {
		err = multierr.Append(err, fmt.Errorf("generation.precision %v must not be negative", g.Precision))
	}
	if g.MinSteps < 1 {
		err = multierr.Append(err, fmt.Errorf("generation.min_steps %d must be at least 1", g.MinSteps))
	}
	if g.MaxSteps < g.MinSteps {
		err = multierr.Append(err, fmt.Errorf("generation.max_steps %d is below min_steps %d", g.MaxSteps, g.MinSteps))
	}
	if g.SnapStrength < 0 || g.SnapStrength > 1 {
		err = multierr.Append(err, fmt.Errorf("generation.snap_strength %v outside [0,1]", g.SnapStrength))
	}
	if r := c.Deform.FalloffRatio; r < 0 || r > 1 {
		err = multierr.Append(err, fmt.Errorf("deform.falloff_ratio %v outside [0,1]", r))
	}
	if c.Parallel.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("parallel.workers %d must not be negative", c.Parallel.Workers))
	}
	return err
}

// Pipeline returns the synthesis settings described by the config.
func (c *Config) Pipeline() pipeline.Settings {
	return pipeline.Settings{
		Sampling: spine.Settings{
			Precision: c.Generation.Precision,
			MinSteps:  c.Generation.MinSteps,
			MaxSteps:  c.Generation.MaxSteps,
		},
		SnapStrength:       c.Generation.SnapStrength,
		Deform:             terrain.DeformSettings{FalloffRatio: c.Deform.FalloffRatio},
		RestoreBeforeCarve: c.Deform.RestoreBeforeCarve,
	}
}
