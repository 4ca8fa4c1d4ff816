// Package config handles merge-tool configuration loading and management.
package config

// Config holds all merge-tool settings.
type Config struct {
	Merge   MergeConfig   `yaml:"merge"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
}

// MergeConfig holds the settings that shape a merge run (spec.md
// section 6, "Input from the orchestrator").
type MergeConfig struct {
	PluginList    string `yaml:"plugin_list"`     // path to the ordered plugin list
	PatchPolicyDir string `yaml:"patch_policy_dir"` // directory of per-plugin patch descriptors

	HeightThresholdPct float32 `yaml:"height_threshold_pct"`
	HeightThresholdMin float32 `yaml:"height_threshold_min"`
	HeightThresholdMax float32 `yaml:"height_threshold_max"`

	DebugVertexColors bool `yaml:"debug_vertex_colors"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// HistoryConfig holds the optional run-history store settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Merge: MergeConfig{
			PluginList:         "plugins.txt",
			PatchPolicyDir:     "patches",
			HeightThresholdPct: 0.3,
			HeightThresholdMin: 2.0,
			HeightThresholdMax: 8.0,
			DebugVertexColors:  false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
	}
}
