package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/peagarden/peaengine/internal/domain"
)

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

// Config holds the engine's runtime configuration. Environment variables
// override values read from a file.
type Config struct {
	DBPath              string `json:"db_path" yaml:"db_path" env:"PEA_DB_PATH"`
	Store               string `json:"store" yaml:"store" env:"PEA_STORE"`
	ListenAddr          string `json:"listen_addr" yaml:"listen_addr" env:"PEA_LISTEN_ADDR"`
	DecayIntervalMS     int    `json:"decay_interval_ms" yaml:"decay_interval_ms" env:"PEA_DECAY_INTERVAL_MS"`
	CountdownIntervalMS int    `json:"countdown_interval_ms" yaml:"countdown_interval_ms" env:"PEA_COUNTDOWN_INTERVAL_MS"`
	SaveTimeoutMS       int    `json:"save_timeout_ms" yaml:"save_timeout_ms" env:"PEA_SAVE_TIMEOUT_MS"`
}

// Load reads a JSON or YAML config file, applies env overrides and defaults,
// and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config JSON: %w", err)
		}
	}
	return finish(&cfg)
}

// LoadEnv builds the config from environment variables alone.
func LoadEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store == "" {
		c.Store = StoreSQLite
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":9810"
	}
	if c.DecayIntervalMS == 0 {
		c.DecayIntervalMS = 5000
	}
	if c.CountdownIntervalMS == 0 {
		c.CountdownIntervalMS = 1000
	}
	if c.SaveTimeoutMS == 0 {
		c.SaveTimeoutMS = 3000
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "db_path is required")
	}
	if c.Store != StoreSQLite && c.Store != StoreBolt {
		problems = append(problems, fmt.Sprintf("store must be %q or %q", StoreSQLite, StoreBolt))
	}
	if c.DecayIntervalMS < 0 {
		problems = append(problems, "decay_interval_ms must be positive")
	}
	if c.CountdownIntervalMS < 0 {
		problems = append(problems, "countdown_interval_ms must be positive")
	}
	if c.SaveTimeoutMS < 0 {
		problems = append(problems, "save_timeout_ms must be positive")
	}

	if len(problems) > 0 {
		return &domain.EngineError{
			Code:    domain.ErrConfigInvalid.Code,
			Message: fmt.Sprintf("%s: %v", domain.ErrConfigInvalid.Message, problems),
		}
	}
	return nil
}

func (c *Config) DecayInterval() time.Duration {
	return time.Duration(c.DecayIntervalMS) * time.Millisecond
}

func (c *Config) CountdownInterval() time.Duration {
	return time.Duration(c.CountdownIntervalMS) * time.Millisecond
}

func (c *Config) SaveTimeout() time.Duration {
	return time.Duration(c.SaveTimeoutMS) * time.Millisecond
}
