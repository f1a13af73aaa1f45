// Package cache stores intermediate pipeline results.
//
// Two stages are cached: the layout of a complex (positions are the
// expensive, non-deterministic part) and the assembled scene document.
// Keys are derived by a [Keyer] from content hashes, so a changed complex
// or material set never hits a stale entry.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI.
//   - [MemoryCache]: an in-process map, for tests and long-running hosts.
//   - [RedisCache]: a shared Redis instance.
//   - [NullCache]: caching disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLs per cached stage.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLScene  = 24 * time.Hour
)

// LayoutKeyOpts are the layout parameters that change the result.
type LayoutKeyOpts struct {
	MaxDim     int     `json:"max_dim"`
	Iterations int     `json:"iterations"`
	Scale      float64 `json:"scale"`
	Seed       uint64  `json:"seed"`
}

// SceneKeyOpts are the assembly parameters that change the document.
type SceneKeyOpts struct {
	MaxDim   int     `json:"max_dim"`
	NodeSize float64 `json:"node_size"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of a complex.
	LayoutKey(complexHash string, opts LayoutKeyOpts) string

	// SceneKey identifies a scene document built from a complex, a layout
	// configuration and a material set.
	SceneKey(complexHash, materialsHash string, layout LayoutKeyOpts, opts SceneKeyOpts) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(complexHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", complexHash, opts)
}

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(complexHash, materialsHash string, layout LayoutKeyOpts, opts SceneKeyOpts) string {
	return hashKey("scene", complexHash, materialsHash, layout, opts)
}
