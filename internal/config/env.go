package config

import "os"

// Environment variables consulted for path defaults. A .env file in the
// working directory is loaded into the environment before they are read.
const (
	EnvRoot         = "IMAGEBATCH_ROOT"
	EnvMapping      = "IMAGEBATCH_MAPPING"
	EnvOutputSubdir = "IMAGEBATCH_OUTPUT_SUBDIR"
	EnvSheet        = "IMAGEBATCH_SHEET"
)

// ApplyEnv copies non-empty environment values into cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv(EnvMapping); v != "" {
		cfg.MappingPath = v
	}
	if v := os.Getenv(EnvOutputSubdir); v != "" {
		cfg.OutputSubdir = v
	}
	if v := os.Getenv(EnvSheet); v != "" {
		cfg.Sheet = v
	}
}
