package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Analysis.Threshold != nil || cfg.Practice.Words != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[analysis]
threshold = 0.7
inherent-vowel = false

[practice]
list = "pa"
words = 5
weak-factor = 2.5

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Analysis.Threshold == nil || *cfg.Analysis.Threshold != 0.7 {
		t.Fatalf("unexpected threshold %v", cfg.Analysis.Threshold)
	}
	if cfg.Analysis.InherentVowel == nil || *cfg.Analysis.InherentVowel {
		t.Fatalf("expected inherent-vowel=false")
	}
	if cfg.Analysis.Mapping != nil {
		t.Fatalf("unset keys should stay nil")
	}
	if *cfg.Practice.List != "pa" || *cfg.Practice.Words != 5 || *cfg.Practice.WeakFactor != 2.5 {
		t.Fatalf("unexpected practice config %+v", cfg.Practice)
	}
	if *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %q", *cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "bolo", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultListPath("pa"); got != filepath.Join("/cfg", "bolo", "lists", "pa.txt") {
		t.Fatalf("unexpected list path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "bolo", "bolo.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultMappingPath(); got != filepath.Join("/cfg", "bolo", "mapping.yaml") {
		t.Fatalf("unexpected mapping path %q", got)
	}
}
