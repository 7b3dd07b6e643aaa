// Package config loads the winhost configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WindowDefaults seed newly created windows when the creating client leaves a
// field unset.
type WindowDefaults struct {
	// Title is used when a creation request carries no title.
	Title string `yaml:"title,omitempty"`
	// Width and Height are the fallback client size in logical units.
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// BridgeConfig tunes the runtime event bridge.
type BridgeConfig struct {
	// MaxQueuedEvents caps the number of events buffered before a runtime
	// attaches. 0 means unbounded.
	MaxQueuedEvents int `yaml:"max_queued_events,omitempty"`
}

// LoggingConfig configures window action logging.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/winhost/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the max log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the root configuration.
type Config struct {
	// Display selects the X display; empty uses the DISPLAY environment
	// variable.
	Display string `yaml:"display,omitempty"`

	WindowDefaults WindowDefaults `yaml:"window_defaults,omitempty"`
	Bridge         BridgeConfig   `yaml:"bridge,omitempty"`
	Logging        LoggingConfig  `yaml:"logging,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		WindowDefaults: WindowDefaults{
			Title:  "winhost",
			Width:  800,
			Height: 600,
		},
		Bridge: BridgeConfig{
			MaxQueuedEvents: 1024,
		},
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// Validate checks invariants that YAML decoding cannot express.
func (c *Config) Validate() error {
	if c.WindowDefaults.Width < 0 || c.WindowDefaults.Height < 0 {
		return fmt.Errorf("window_defaults: size must not be negative")
	}
	if c.Bridge.MaxQueuedEvents < 0 {
		return fmt.Errorf("bridge: max_queued_events must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return fmt.Errorf("logging: rotation limits must not be negative")
	}
	return nil
}

// DefaultConfigPath returns ~/.config/winhost/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winhost", "config.yaml"), nil
}

// DefaultLogPath returns ~/.local/share/winhost/actions.log.
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "winhost", "actions.log"), nil
}

// Load reads the configuration from the standard location. A missing file is
// not an error; defaults are returned.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path, overlaying defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
