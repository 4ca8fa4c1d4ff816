package config

import "flag"

var (
	flagConfig            = flag.String("config", "", "Path to config file")
	flagDebug             = flag.Bool("debug", false, "Enable debug logging")
	flagPluginList        = flag.String("plugins", "", "Path to the ordered plugin list")
	flagPatchPolicyDir    = flag.String("patch-policies", "", "Directory of per-plugin patch descriptors")
	flagDebugVertexColors = flag.Bool("debug-vertex-colors", false, "Set the debug_vertex_colors option (recorded in the run options; no output colors depend on it)")
	flagHeightMax          = flag.Float64("height-threshold-max", 0, "Max height divergence (world units) still classified Minor")
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
	}
	if *flagPluginList != "" {
		cfg.Merge.PluginList = *flagPluginList
	}
	if *flagPatchPolicyDir != "" {
		cfg.Merge.PatchPolicyDir = *flagPatchPolicyDir
	}
	if *flagDebugVertexColors {
		cfg.Merge.DebugVertexColors = true
	}
	if *flagHeightMax > 0 {
		cfg.Merge.HeightThresholdMax = float32(*flagHeightMax)
	}
}
