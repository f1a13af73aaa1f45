// Package config loads simplexsight settings.
//
// Settings come from three layers, each overriding the previous one:
//
//  1. built-in defaults ([Default])
//  2. an optional TOML file (~/.config/simplexsight/config.toml)
//  3. SIMPLEXSIGHT_* environment variables
//
// Command-line flags are applied by the CLI on top of the result.
//
//	# ~/.config/simplexsight/config.toml
//	log_level = "info"
//	node_size = 5.0
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[layout]
//	iterations = 80
//	scale = 150.0
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/layout"
	"github.com/matzehuels/simplexsight/pkg/material"
)

// AppName names the config and cache directories.
const AppName = "simplexsight"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "SIMPLEXSIGHT_"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds user settings.
type Config struct {
	LogLevel string  `toml:"log_level" env:"LOG_LEVEL"`
	NodeSize float64 `toml:"node_size" env:"NODE_SIZE"`

	// MaxDim is the default dimension bound. Nil uses each complex's own.
	MaxDim *int `toml:"max_dim" env:"MAX_DIM"`

	Cache  CacheConfig  `toml:"cache" envPrefix:"CACHE_"`
	Layout LayoutConfig `toml:"layout" envPrefix:"LAYOUT_"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" env:"BACKEND"`
	Dir      string `toml:"dir" env:"DIR"`
	RedisURL string `toml:"redis_url" env:"REDIS_URL"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

// LayoutConfig configures the spring embedder.
type LayoutConfig struct {
	Iterations int     `toml:"iterations" env:"ITERATIONS"`
	Scale      float64 `toml:"scale" env:"SCALE"`
	Seed       uint64  `toml:"seed" env:"SEED"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		NodeSize: material.DefaultNodeSize,
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  AppName,
		},
		Layout: LayoutConfig{
			Iterations: layout.DefaultIterations,
			Scale:      layout.DefaultScale,
		},
	}
}

// Load reads the config file at path (or the default location when path is
// empty) and applies environment overrides. A missing default file is not
// an error; a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	return nil
}

// Validate checks value ranges and the cache backend.
func (c Config) Validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache backend needs a redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.MaxDim != nil {
		if err := errors.ValidateMaxDim(*c.MaxDim); err != nil {
			return err
		}
	}
	if c.NodeSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node_size must be positive, got %v", c.NodeSize)
	}
	if c.Layout.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.iterations must be non-negative, got %d", c.Layout.Iterations)
	}
	if c.Layout.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.scale must be non-negative, got %v", c.Layout.Scale)
	}
	return nil
}

// Path returns the default config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file cache directory: the configured one, or
// ~/.cache/simplexsight honoring XDG_CACHE_HOME.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
