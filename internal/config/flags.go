package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagPrecision = flag.Float64("precision", 0, "Sample spacing in world units")
	flagSnap      = flag.Float64("snap", -1, "Terrain snap strength 0..1")
	flagFalloff   = flag.Float64("falloff", -1, "Carve falloff ratio 0..1")
	flagWorkers   = flag.Int("workers", -1, "Worker goroutines (0 = all CPUs)")
	flagOut       = flag.String("out", "", "Output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPrecision > 0 {
		cfg.Generation.Precision = float32(*flagPrecision)
	}
	if *flagSnap >= 0 {
		cfg.Generation.SnapStrength = float32(*flagSnap)
	}
	if *flagFalloff >= 0 {
		cfg.Deform.FalloffRatio = float32(*flagFalloff)
	}
	if *flagWorkers >= 0 {
		cfg.Parallel.Workers = *flagWorkers
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
}
