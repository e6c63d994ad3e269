// Package config loads the orcamath YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all orcamath configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Curriculum CurriculumConfig `yaml:"curriculum"`
	Practice   PracticeConfig   `yaml:"practice"`
}

// StorageConfig selects where learner progress lives.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // sqlite, redis
	SQLitePath string `yaml:"sqlite_path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// CurriculumConfig points at an alternative curriculum file. An empty path
// uses the embedded curriculum.
type CurriculumConfig struct {
	Path string `yaml:"path"`
}

// PracticeConfig tunes exercise generation.
type PracticeConfig struct {
	// Seed makes generation reproducible when non-zero.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "orcamath",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ORCAMATH_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ORCAMATH_DB"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("ORCAMATH_REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv("ORCAMATH_REDIS_PASSWORD"); v != "" {
		c.Storage.RedisPassword = v
	}
	if v := os.Getenv("ORCAMATH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ORCAMATH_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ORCAMATH_SEED: %w", err)
		}
		c.Practice.Seed = seed
	}
	return nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
		if c.Storage.RedisDB < 0 {
			return fmt.Errorf("storage.redis_db must not be negative, got %d", c.Storage.RedisDB)
		}
	default:
		return fmt.Errorf("invalid storage backend: %q (valid: %s, %s)", c.Storage.Backend, BackendSQLite, BackendRedis)
	}

	valid := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %q (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/orcamath/config.yaml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".orcamath", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "orcamath", "config.yaml")
}
