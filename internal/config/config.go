// Package config loads the rdfgraph configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

// Config is the top-level configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Batch   BatchConfig   `yaml:"batch"`
	Skolem  SkolemConfig  `yaml:"skolem"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects the backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Driver  string      `yaml:"driver"`
	Create  bool        `yaml:"create"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig addresses a Redis keyspace.
type RedisConfig struct {
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	Prefix string `yaml:"prefix"`
}

// BatchConfig sizes write batches.
type BatchConfig struct {
	Size int `yaml:"size"`
}

// SkolemConfig sets how skolem IRIs are minted.
type SkolemConfig struct {
	Authority string `yaml:"authority"`
	BasePath  string `yaml:"basepath"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "memory",
			Create:  true,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "rdflib:"},
		},
		Batch:   BatchConfig{Size: 1000},
		Skolem:  SkolemConfig{Authority: rdf.SkolemAuthority, BasePath: rdf.SkolemBasePath},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RDFLIB_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("RDFLIB_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("RDFLIB_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("RDFLIB_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.Redis.DB = db
		}
	}
	if v := os.Getenv("RDFLIB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate reports settings no backend could use.
func (c *Config) Validate() error {
	if c.Store.Backend == "" {
		return errors.New("config: store.backend is required")
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		return errors.New("config: store.path is required for the sqlite backend")
	}
	if c.Batch.Size < 2 {
		return fmt.Errorf("config: batch.size must be at least 2, got %d", c.Batch.Size)
	}
	return nil
}

// StoreConfig converts the store section for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Path:   c.Store.Path,
		Driver: c.Store.Driver,
		Addr:   c.Store.Redis.Addr,
		DB:     c.Store.Redis.DB,
		Prefix: c.Store.Redis.Prefix,
		Create: c.Store.Create,
	}
}
