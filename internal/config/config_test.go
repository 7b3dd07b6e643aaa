package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.WindowDefaults.Width == 0 || cfg.WindowDefaults.Height == 0 {
		t.Fatalf("expected non-zero default window size")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bridge.MaxQueuedEvents != DefaultConfig().Bridge.MaxQueuedEvents {
		t.Fatalf("expected default bridge cap, got %d", cfg.Bridge.MaxQueuedEvents)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WindowDefaults.Title != "winhost" {
		t.Fatalf("expected default title, got %q", cfg.WindowDefaults.Title)
	}
}

func TestLoadFromPath_OverridesMergeOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"display: \":1\"",
		"window_defaults:",
		"  width: 1024",
		"logging:",
		"  enabled: true",
		"  level: debug",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display != ":1" {
		t.Fatalf("expected display :1, got %q", cfg.Display)
	}
	if cfg.WindowDefaults.Width != 1024 {
		t.Fatalf("expected width override 1024, got %d", cfg.WindowDefaults.Width)
	}
	if cfg.WindowDefaults.Height != 600 {
		t.Fatalf("expected default height to survive, got %d", cfg.WindowDefaults.Height)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging overrides, got %+v", cfg.Logging)
	}
}

func TestLoadFromPath_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected validation error for unknown level")
	}
}
