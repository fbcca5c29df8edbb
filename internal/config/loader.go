package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigPathEnv names the variable that points at the YAML file.
const ConfigPathEnv = "SHARETRACKER_CONFIG"

const defaultConfigPath = "./sharetracker.yaml"

// Load resolves the YAML path from SHARETRACKER_CONFIG and delegates to
// LoadFile. Without the variable a missing ./sharetracker.yaml is not an
// error: the engine then runs from environment and defaults only.
func Load() (*Config, error) {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return LoadFile(path)
	}

	cfg, err := LoadFile(defaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return loadEnv()
	}
	return cfg, err
}

// LoadFile reads path, overlays the environment (ENV > YAML > env-default)
// and validates the result.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return finish(&cfg)
}

func loadEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return finish(&cfg)
}

// finish normalizes case-insensitive fields before validation.
func finish(cfg *Config) (*Config, error) {
	cfg.Engine.DefaultRole = strings.ToLower(strings.TrimSpace(cfg.Engine.DefaultRole))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}
