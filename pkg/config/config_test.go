package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/simplexsight/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Cache != want.Cache || cfg.Layout != want.Layout || cfg.NodeSize != want.NodeSize {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
	if cfg.MaxDim != nil {
		t.Errorf("MaxDim = %d, want nil", *cfg.MaxDim)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
node_size = 8.0
max_dim = 2

[cache]
backend = "none"

[layout]
iterations = 120
seed = 42
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.NodeSize != 8 {
		t.Errorf("NodeSize = %v", cfg.NodeSize)
	}
	if cfg.MaxDim == nil || *cfg.MaxDim != 2 {
		t.Errorf("MaxDim = %v", cfg.MaxDim)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Layout.Iterations != 120 || cfg.Layout.Seed != 42 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	// Untouched keys keep their defaults.
	if cfg.Layout.Scale != Default().Layout.Scale {
		t.Errorf("Scale = %v", cfg.Layout.Scale)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[layout]\niterations = 120\n")
	t.Setenv("SIMPLEXSIGHT_LAYOUT_ITERATIONS", "30")
	t.Setenv("SIMPLEXSIGHT_CACHE_BACKEND", "redis")
	t.Setenv("SIMPLEXSIGHT_CACHE_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("SIMPLEXSIGHT_MAX_DIM", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.Iterations != 30 {
		t.Errorf("Iterations = %d, want 30", cfg.Layout.Iterations)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.MaxDim == nil || *cfg.MaxDim != 1 {
		t.Errorf("MaxDim = %v", cfg.MaxDim)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"bad toml", "node_size = [", errors.ErrCodeInvalidConfig},
		{"unknown backend", "[cache]\nbackend = \"s3\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"negative max dim", "max_dim = -1\n", errors.ErrCodeInvalidDimension},
		{"zero node size", "node_size = 0.0\n", errors.ErrCodeInvalidConfig},
		{"negative iterations", "[layout]\niterations = -5\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/xdg-config", AppName, "config.toml") {
		t.Errorf("Path = %s", path)
	}

	dir, err := Default().CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", AppName) {
		t.Errorf("CacheDir = %s", dir)
	}

	cfg := Default()
	cfg.Cache.Dir = "/srv/cache"
	if dir, _ := cfg.CacheDir(); dir != "/srv/cache" {
		t.Errorf("explicit CacheDir = %s", dir)
	}
}
