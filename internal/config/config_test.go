package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
	if cfg.ApplyInterval() != 5*time.Second {
		t.Fatalf("ApplyInterval() = %v", cfg.ApplyInterval())
	}
	if cfg.DetectInterval() != 30*time.Second {
		t.Fatalf("DetectInterval() = %v", cfg.DetectInterval())
	}
}

func TestLoadFromPath_PartialOverride(t *testing.T) {
	path := writeConfig(t, "apply_interval_seconds: 2\nlog_level: debug\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.ApplyIntervalSeconds != 2 {
		t.Fatalf("ApplyIntervalSeconds = %d", cfg.ApplyIntervalSeconds)
	}
	// Unset keys keep their defaults.
	if cfg.DetectIntervalSeconds != 30 {
		t.Fatalf("DetectIntervalSeconds = %d, want default 30", cfg.DetectIntervalSeconds)
	}
	if cfg.LayoutsDir == "" {
		t.Fatal("LayoutsDir should keep its default")
	}
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "layots_dir: /tmp/x\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("unknown key should be rejected")
	}
}

func TestLoadFromPath_ExpandsHome(t *testing.T) {
	path := writeConfig(t, "layouts_dir: ~/layouts\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if strings.HasPrefix(cfg.LayoutsDir, "~") {
		t.Fatalf("LayoutsDir = %q, tilde not expanded", cfg.LayoutsDir)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"empty layouts dir", func(c *Config) { c.LayoutsDir = "" }, "layouts_dir"},
		{"empty monitors file", func(c *Config) { c.MonitorsFile = " " }, "monitors_file"},
		{"zero apply interval", func(c *Config) { c.ApplyIntervalSeconds = 0 }, "apply_interval_seconds"},
		{"negative detect interval", func(c *Config) { c.DetectIntervalSeconds = -1 }, "detect_interval_seconds"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, c := range cases {
		cfg := Default()
		c.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: Validate() should fail", c.name)
			continue
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Errorf("%s: error %v is not a ValidationError", c.name, err)
			continue
		}
		if verr.Path != c.wantPath {
			t.Errorf("%s: Path = %q, want %q", c.name, verr.Path, c.wantPath)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	if cfg.SlogLevel().String() != "DEBUG" {
		t.Fatalf("SlogLevel() = %v", cfg.SlogLevel())
	}
}
