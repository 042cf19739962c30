package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/pathcarve/internal/terrain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test generation defaults
	if cfg.Generation.Precision != 1 {
		t.Errorf("expected precision 1, got %f", cfg.Generation.Precision)
	}
	if cfg.Generation.MinSteps != 4 || cfg.Generation.MaxSteps != 128 {
		t.Errorf("expected steps 4..128, got %d..%d", cfg.Generation.MinSteps, cfg.Generation.MaxSteps)
	}
	if cfg.Generation.SnapStrength != 1 {
		t.Errorf("expected snap strength 1, got %f", cfg.Generation.SnapStrength)
	}

	// Test deform defaults
	if cfg.Deform.FalloffRatio != terrain.DefaultFalloffRatio {
		t.Errorf("expected falloff ratio %v, got %f", terrain.DefaultFalloffRatio, cfg.Deform.FalloffRatio)
	}
	if !cfg.Deform.RestoreBeforeCarve {
		t.Error("expected restore_before_carve to be true by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
generation:
  precision: 0.25
  min_steps: 8
  max_steps: 64
  snap_strength: 0.5

deform:
  falloff_ratio: 0.4
  restore_before_carve: false

parallel:
  workers: 3
  grain: 16

output:
  dir: "build"

logging:
  level: "debug"
  log_file: "pathtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Generation.Precision != 0.25 {
		t.Errorf("expected precision 0.25, got %f", cfg.Generation.Precision)
	}
	if cfg.Generation.MinSteps != 8 || cfg.Generation.MaxSteps != 64 {
		t.Errorf("expected steps 8..64, got %d..%d", cfg.Generation.MinSteps, cfg.Generation.MaxSteps)
	}
	if cfg.Deform.FalloffRatio != 0.4 {
		t.Errorf("expected falloff 0.4, got %f", cfg.Deform.FalloffRatio)
	}
	if cfg.Deform.RestoreBeforeCarve {
		t.Error("expected restore_before_carve to be false")
	}
	if cfg.Parallel.Workers != 3 || cfg.Parallel.Grain != 16 {
		t.Errorf("expected 3 workers grain 16, got %d grain %d", cfg.Parallel.Workers, cfg.Parallel.Grain)
	}
	if cfg.Output.Dir != "build" {
		t.Errorf("expected output dir 'build', got %s", cfg.Output.Dir)
	}
	if cfg.Logging.LogFile != "pathtool.log" {
		t.Errorf("expected log file 'pathtool.log', got %s", cfg.Logging.LogFile)
	}

	s := cfg.Pipeline()
	if s.Sampling.Precision != 0.25 || s.SnapStrength != 0.5 || s.Deform.FalloffRatio != 0.4 || s.RestoreBeforeCarve {
		t.Errorf("pipeline settings do not follow config: %+v", s)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
generation:
  precision: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Generation.SnapStrength = 2
	cfg.Generation.MinSteps = 0
	cfg.Deform.FalloffRatio = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"snap_strength", "min_steps", "falloff_ratio"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("generation:\n  precision: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "precision flag",
			setup: func() { *flagPrecision = 0.5 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Generation.Precision != 0.5 {
					t.Errorf("expected precision 0.5, got %f", cfg.Generation.Precision)
				}
			},
			teardown: func() { *flagPrecision = 0 },
		},
		{
			name:  "zero snap flag",
			setup: func() { *flagSnap = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Generation.SnapStrength != 0 {
					t.Errorf("expected snap 0, got %f", cfg.Generation.SnapStrength)
				}
			},
			teardown: func() { *flagSnap = -1 },
		},
		{
			name:  "unset flags keep defaults",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Generation.SnapStrength != 1 || cfg.Deform.FalloffRatio != terrain.DefaultFalloffRatio || cfg.Parallel.Workers != 0 {
					t.Errorf("defaults changed without flags: %+v", cfg)
				}
			},
			teardown: func() {},
		},
		{
			name: "workers and out flags",
			setup: func() {
				*flagWorkers = 2
				*flagOut = "dist"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Parallel.Workers != 2 {
					t.Errorf("expected 2 workers, got %d", cfg.Parallel.Workers)
				}
				if cfg.Output.Dir != "dist" {
					t.Errorf("expected output dir 'dist', got %s", cfg.Output.Dir)
				}
			},
			teardown: func() {
				*flagWorkers = -1
				*flagOut = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
generation:
  precision: 3
  snap_strength: 0.25
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagPrecision = 0.5
	defer func() {
		*flagConfig = ""
		*flagPrecision = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Precision should be from flag, not file
	if cfg.Generation.Precision != 0.5 {
		t.Errorf("expected precision 0.5 from flag, got %f", cfg.Generation.Precision)
	}
	// Snap should be from file since no flag override
	if cfg.Generation.SnapStrength != 0.25 {
		t.Errorf("expected snap 0.25 from file, got %f", cfg.Generation.SnapStrength)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("deform:\n  falloff_ratio: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range falloff")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Generation.Precision = 0.75

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Generation.Precision != 0.75 {
		t.Errorf("expected precision 0.75, got %f", loaded.Generation.Precision)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("generation:\n  precison: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for misspelt key")
	}
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("parallel:\n  workers: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Parallel.Workers != 5 {
		t.Errorf("expected 5 workers from $%s, got %d", EnvConfig, cfg.Parallel.Workers)
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("empty file: %v", err)
	}
	if cfg.Generation.Precision != 1 {
		t.Error("empty file changed defaults")
	}
}
