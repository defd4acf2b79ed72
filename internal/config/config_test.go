package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediaprobe/internal/config"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Output.Format != "default" {
		t.Fatalf("unexpected output format: %q", cfg.Output.Format)
	}
	if cfg.Output.ShowOptionalFields != "auto" || cfg.Output.StringValidation != "replace" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Probe.Binary != "ffprobe" || cfg.Probe.TimeoutSeconds != 120 {
		t.Fatalf("unexpected probe defaults: %+v", cfg.Probe)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Cache.Path) {
		t.Fatalf("cache path not expanded: %q", cfg.Cache.Path)
	}
}

func TestLoadExplicitFileNormalizesValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[output]
format = "json=compact=1"
show_optional_fields = " Always "
hash = "SHA256"

[probe]
timeout_seconds = 30

[logging]
level = " WARN "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}

	if cfg.Output.Format != "json=compact=1" {
		t.Fatalf("format = %q", cfg.Output.Format)
	}
	if cfg.Output.ShowOptionalFields != "always" {
		t.Fatalf("show_optional_fields = %q", cfg.Output.ShowOptionalFields)
	}
	if cfg.Output.Hash != "sha256" {
		t.Fatalf("hash = %q", cfg.Output.Hash)
	}
	if cfg.Probe.TimeoutSeconds != 30 {
		t.Fatalf("timeout = %d", cfg.Probe.TimeoutSeconds)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad optional fields", "[output]\nshow_optional_fields = \"sometimes\"\n", "show_optional_fields"},
		{"bad validation", "[output]\nstring_validation = \"panic\"\n", "string_validation"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad log level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Output.Format != "default" {
		t.Fatalf("format = %q", cfg.Output.Format)
	}
}

func TestCreateSampleIsParseableAndValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	// Loading the sample through the normal path must validate cleanly.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed validation: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := config.ExpandPath("~/cache/probes.db")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "cache", "probes.db") {
		t.Fatalf("ExpandPath = %q", got)
	}

	got, err = config.ExpandPath("relative/file")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
}

func TestXDGCacheHomeOverridesDefaultCachePath(t *testing.T) {
	cacheBase := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheBase)

	cfg := config.Default()
	want := filepath.Join(cacheBase, "mediaprobe", "probes.db")
	if cfg.Cache.Path != want {
		t.Fatalf("cache path = %q, want %q", cfg.Cache.Path, want)
	}
}
