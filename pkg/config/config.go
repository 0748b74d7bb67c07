// Package config handles loading and saving smap configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/smap/config.yaml
//   - State:   ~/.local/state/smap/ (learned-concepts store)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TutorConfig selects and tunes the explanation/quiz generator.
type TutorConfig struct {
	// Provider is the generator backend: "gemini" or "canned".
	// Empty means auto: gemini when an API key is present, canned otherwise.
	Provider string `yaml:"provider,omitempty"`
	// Model overrides the default generation model.
	Model string `yaml:"model,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	// ShowSidebar controls whether the concept detail sidebar starts open.
	ShowSidebar *bool `yaml:"show_sidebar,omitempty"`
}

// SidebarVisible resolves the sidebar preference (default true).
func (u UIConfig) SidebarVisible() bool {
	if u.ShowSidebar == nil {
		return true
	}
	return *u.ShowSidebar
}

// Config is the top-level configuration for smap.
type Config struct {
	// DefaultGrade is the grade selected at startup ("7", "8", ...).
	// Empty means the lowest available grade.
	DefaultGrade string `yaml:"default_grade,omitempty"`
	// DataDir overrides the curriculum data directory.
	DataDir string      `yaml:"data_dir,omitempty"`
	Tutor   TutorConfig `yaml:"tutor,omitempty"`
	UI      UIConfig    `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}

// ConfigDir returns the XDG config directory for smap.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "smap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "smap")
}

// StateDir returns the XDG state directory for smap.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "smap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "smap")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Returns DefaultConfig if the
// file doesn't exist; on a parse error the defaults come back alongside the
// error so callers can warn and continue.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
