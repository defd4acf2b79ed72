package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOutputFormat     = "default"
	defaultOptionalFields   = "auto"
	defaultStringValidation = "replace"
	defaultProbeBinary      = "ffprobe"
	defaultProbeTimeout     = 120
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Format:             defaultOutputFormat,
			ShowOptionalFields: defaultOptionalFields,
			StringValidation:   defaultStringValidation,
		},
		Probe: Probe{
			Binary:         defaultProbeBinary,
			TimeoutSeconds: defaultProbeTimeout,
		},
		Cache: Cache{
			Path: defaultCachePath(),
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "mediaprobe", "probes.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/mediaprobe/probes.db"
	}
	return filepath.Join(home, ".cache", "mediaprobe", "probes.db")
}
