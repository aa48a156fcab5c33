package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidationError reports an invalid configuration value. Path is the YAML
// key that failed.
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Msg)
}

// Config is the daemon configuration. All fields have working defaults; the
// config file only needs the keys the user wants to change.
type Config struct {
	LayoutsDir            string `yaml:"layouts_dir"`
	MonitorsFile          string `yaml:"monitors_file"`
	ApplyIntervalSeconds  int    `yaml:"apply_interval_seconds"`
	DetectIntervalSeconds int    `yaml:"detect_interval_seconds"`
	LogLevel              string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	configDir := userConfigDir()
	return &Config{
		LayoutsDir:            filepath.Join(configDir, "layouts"),
		MonitorsFile:          filepath.Join(configDir, "known_monitors.json"),
		ApplyIntervalSeconds:  5,
		DetectIntervalSeconds: 30,
		LogLevel:              "info",
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "screeny", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing config
// file yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit path. Unknown keys
// are rejected; keys left unset keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	cfg := Default()
	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.LayoutsDir = expandHome(cfg.LayoutsDir)
	cfg.MonitorsFile = expandHome(cfg.MonitorsFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LayoutsDir) == "" {
		return &ValidationError{Path: "layouts_dir", Msg: "must not be empty"}
	}
	if strings.TrimSpace(c.MonitorsFile) == "" {
		return &ValidationError{Path: "monitors_file", Msg: "must not be empty"}
	}
	if c.ApplyIntervalSeconds <= 0 {
		return &ValidationError{Path: "apply_interval_seconds", Msg: "must be positive"}
	}
	if c.DetectIntervalSeconds <= 0 {
		return &ValidationError{Path: "detect_interval_seconds", Msg: "must be positive"}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Msg: "must be one of debug, info, warn, error"}
	}
	return nil
}

// ApplyInterval returns the placement cadence.
func (c *Config) ApplyInterval() time.Duration {
	return time.Duration(c.ApplyIntervalSeconds) * time.Second
}

// DetectInterval returns the screen-detection cadence.
func (c *Config) DetectInterval() time.Duration {
	return time.Duration(c.DetectIntervalSeconds) * time.Second
}

// SlogLevel maps the configured log level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func userConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "screeny")
	}
	return filepath.Join(homeDir, ".config", "screeny")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
