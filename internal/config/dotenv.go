package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvPath returns the absolute path to the dotenv file (~/.socsel/.env).
func DotEnvPath() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv reads ~/.socsel/.env and returns its key/value pairs. A missing
// file yields an empty map. The file is parsed with godotenv, so quoting,
// comments and export prefixes follow the usual dotenv rules.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(p)
	if err != nil {
		return nil, fmt.Errorf("cannot parse dotenv file %s: %w", p, err)
	}
	return env, nil
}

// GetConfigValue returns the effective value for key: the process environment
// first, then ~/.socsel/.env.
func GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := LoadDotEnv()
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}

// EnsureDotEnvTemplate creates ~/.socsel/.env if it does not already exist.
//
// The template lists the override keys with empty values.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
	}

	body := "" +
		"# Values here apply unless the same variable is set in the environment.\n" +
		"SOCSEL_STATE_PATH=\n" +
		"SOCSEL_LOG_LEVEL=\n" +
		"SOCSEL_LOG_FORMAT=\n" +
		"SOCSEL_LISTEN_ADDR=\n" +
		"SOCSEL_LOCALE=\n"

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		return fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return nil
}
