package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging and per-frame cull summaries")
	flagStatic    = flag.Int("static", 0, "Number of static benchmark objects")
	flagDynamic   = flag.Int("dynamic", 0, "Number of dynamic benchmark objects")
	flagFrames    = flag.Int("frames", 0, "Number of frames to simulate")
	flagSeed      = flag.Int64("seed", 0, "Benchmark scene random seed")
	flagOcclusion = flag.Bool("occlusion", false, "Enable ray-based occlusion culling")
	flagCellSize  = flag.Float64("cell-size", 0, "Spatial grid cell size")
	flagTargetFPS = flag.Float64("target-fps", 0, "Adaptive controller target FPS")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Culling.DebugMode = true
	}
	if *flagStatic > 0 {
		cfg.Bench.StaticObjects = *flagStatic
	}
	if *flagDynamic > 0 {
		cfg.Bench.DynamicObjects = *flagDynamic
	}
	if *flagFrames > 0 {
		cfg.Bench.Frames = *flagFrames
	}
	if *flagSeed != 0 {
		cfg.Bench.Seed = *flagSeed
	}
	if *flagOcclusion {
		cfg.Culling.UseOcclusionCulling = true
	}
	if *flagCellSize > 0 {
		cfg.Culling.GridCellSize = float32(*flagCellSize)
	}
	if *flagTargetFPS > 0 {
		cfg.Culling.TargetFPS = float32(*flagTargetFPS)
	}
}
