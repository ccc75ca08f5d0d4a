package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HomeEnv overrides the base directory (~/.socsel).
const HomeEnv = "SOCSEL_HOME"

// Config is the in-memory representation of ~/.socsel/socsel.yaml.
type Config struct {
	StatePath     string `yaml:"state_path"`
	LogLevel      string `yaml:"log_level,omitempty"`
	LogFormat     string `yaml:"log_format,omitempty"`
	ListenAddr    string `yaml:"listen_addr,omitempty"`
	DefaultFormat string `yaml:"default_format,omitempty"`
	Locale        string `yaml:"locale,omitempty"`
}

// BaseDir returns the directory holding config, dotenv and state. It is
// $SOCSEL_HOME when set, ~/.socsel otherwise.
func BaseDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(HomeEnv)); dir != "" {
		return ExpandPath(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".socsel"), nil
}

// ConfigPath returns the absolute path to socsel.yaml.
func ConfigPath() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "socsel.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the Config written by socsel init.
func DefaultConfig() (*Config, error) {
	dir, err := BaseDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		StatePath:     filepath.Join(dir, "state.json"),
		LogLevel:      "warn",
		LogFormat:     "text",
		ListenAddr:    "127.0.0.1:8080",
		DefaultFormat: "text",
		Locale:        "en-US",
	}, nil
}

// Load reads and parses socsel.yaml. Empty fields fall back to defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.StatePath, err = ExpandPath(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, returning the defaults when no config file exists
// yet. Environment overrides are applied in both cases.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if cfg, err = DefaultConfig(); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays SOCSEL_* values from the environment or the dotenv file.
func ApplyEnv(cfg *Config) error {
	fields := []struct {
		key string
		dst *string
	}{
		{"SOCSEL_STATE_PATH", &cfg.StatePath},
		{"SOCSEL_LOG_LEVEL", &cfg.LogLevel},
		{"SOCSEL_LOG_FORMAT", &cfg.LogFormat},
		{"SOCSEL_LISTEN_ADDR", &cfg.ListenAddr},
		{"SOCSEL_LOCALE", &cfg.Locale},
	}
	for _, f := range fields {
		v, err := GetConfigValue(f.key)
		if err != nil {
			return err
		}
		if v = strings.TrimSpace(v); v != "" {
			*f.dst = v
		}
	}
	p, err := ExpandPath(cfg.StatePath)
	if err != nil {
		return err
	}
	cfg.StatePath = p
	return nil
}

// Save marshals cfg and writes it to socsel.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
