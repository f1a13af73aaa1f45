package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/simplexsight/pkg/cache"
	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/complex/file"
	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/graph"
	"github.com/matzehuels/simplexsight/pkg/layout"
	"github.com/matzehuels/simplexsight/pkg/material"
	"github.com/matzehuels/simplexsight/pkg/observability"
	"github.com/matzehuels/simplexsight/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete open → assemble → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Open
	openStart := time.Now()
	src, err := OpenSource(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	maxDim, err := resolveMaxDim(ctx, src, opts.MaxDim)
	if err != nil {
		return nil, err
	}
	result.ComplexHash, err = HashComplex(ctx, src)
	if err != nil {
		return nil, err
	}
	store, err := LoadMaterials(opts)
	if err != nil {
		return nil, err
	}
	fingerprint, err := store.Fingerprint()
	if err != nil {
		return nil, err
	}
	result.MaterialsHash = cache.Hash(fingerprint)
	result.Stats.OpenTime = time.Since(openStart)
	result.Stats.MaxDim = maxDim

	logger.Info("opened source",
		"kind", src.Kind,
		"max_dim", maxDim,
		"complex", cache.Short(result.ComplexHash),
		"duration", result.Stats.OpenTime)

	// Stage 2: Assemble
	assembleStart := time.Now()
	doc, hit, err := r.AssembleWithCacheInfo(ctx, src, store, maxDim, result, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.CacheInfo.SceneHit = hit
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.Vertices = len(doc.Vertices)
	result.Stats.Edges = len(doc.Edges)
	result.Stats.Faces = len(doc.Faces)
	result.Stats.Tetrahedra = len(doc.Tetrahedra)

	logger.Info("assembled scene",
		"vertices", result.Stats.Vertices,
		"edges", result.Stats.Edges,
		"faces", result.Stats.Faces,
		"tetrahedra", result.Stats.Tetrahedra,
		"scene_cached", hit,
		"layout_cached", result.CacheInfo.LayoutHit,
		"duration", result.Stats.AssembleTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(doc, opts.Formats)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AssembleWithCacheInfo returns the scene document for src, reading and
// writing the scene cache, and reports whether it was a cache hit. On a
// miss the layout cache is consulted and result.CacheInfo.LayoutHit set.
func (r *Runner) AssembleWithCacheInfo(ctx context.Context, src complex.Reader, store *material.Store, maxDim int, result *Result, opts Options) (*scene.Document, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	sceneKey := r.Keyer.SceneKey(result.ComplexHash, result.MaterialsHash, opts.LayoutKeyOpts(maxDim), opts.SceneKeyOpts(maxDim))
	if !opts.Refresh {
		if data, hit := r.get(ctx, "scene", sceneKey); hit {
			var entry sceneEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				if doc, err := scene.UnmarshalDocument(entry.Document); err == nil {
					result.Stats.Dropped = entry.Dropped
					return doc, true, nil
				}
			}
		}
	}

	layouter := &cachedLayouter{
		runner:  r,
		key:     r.Keyer.LayoutKey(result.ComplexHash, opts.LayoutKeyOpts(maxDim)),
		inner:   layout.NewSpring(opts.LayoutOptions()),
		refresh: opts.Refresh,
	}
	asm := scene.New(src,
		scene.WithLogger(opts.Logger),
		scene.WithMaterials(store),
		scene.WithLayouter(layouter))
	if err := asm.SetMaxDim(maxDim); err != nil {
		return nil, false, err
	}

	doc, err := asm.Prepare(ctx)
	if err != nil {
		return nil, false, err
	}
	result.CacheInfo.LayoutHit = layouter.hit
	result.Stats.Dropped = asm.Stats().Dropped()

	if data, err := scene.MarshalDocument(doc); err == nil {
		entry, err := json.Marshal(sceneEntry{Dropped: result.Stats.Dropped, Document: data})
		if err == nil {
			r.set(ctx, "scene", sceneKey, entry, cache.TTLScene)
		}
	}
	return doc, false, nil
}

// sceneEntry is the scene cache payload. The drop count is not part of
// the document, so it is stored next to it.
type sceneEntry struct {
	Dropped  int             `json:"dropped"`
	Document json.RawMessage `json:"document"`
}

// LoadMaterials builds the material store for opts: node size, then the
// preset file, then the inline preset.
func LoadMaterials(opts Options) (*material.Store, error) {
	store := material.NewStore(material.WithNodeSize(opts.NodeSize))
	if opts.Materials != "" {
		p, err := material.LoadFile(opts.Materials)
		if err != nil {
			return nil, err
		}
		if err := p.Apply(store); err != nil {
			return nil, err
		}
	}
	if opts.Preset != nil {
		if err := opts.Preset.Apply(store); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// HashComplex returns the content hash of every simplex in r.
func HashComplex(ctx context.Context, r complex.Reader) (string, error) {
	var buf bytes.Buffer
	if err := file.Write(ctx, &buf, r, file.FormatJSON); err != nil {
		return "", errors.Wrap(errors.ErrCodeSource, err, "hash complex")
	}
	return cache.Hash(buf.Bytes()), nil
}

func resolveMaxDim(ctx context.Context, r complex.Reader, maxDim *int) (int, error) {
	if maxDim != nil {
		return *maxDim, nil
	}
	dim, err := r.Dimension(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeSource, err, "read complex dimension")
	}
	return max(dim, 0), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// cachedLayouter serves positions from the layout cache and stores fresh
// layouts.
type cachedLayouter struct {
	runner  *Runner
	key     string
	inner   layout.Layouter
	refresh bool
	hit     bool
}

func (l *cachedLayouter) Layout(ctx context.Context, g *graph.Graph) ([]layout.Position, error) {
	if !l.refresh {
		if data, ok := l.runner.get(ctx, "layout", l.key); ok {
			var positions []layout.Position
			if err := json.Unmarshal(data, &positions); err == nil && layout.Validate(positions, g.NodeCount()) == nil {
				l.hit = true
				return positions, nil
			}
		}
	}

	positions, err := l.inner.Layout(ctx, g)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(positions); err == nil {
		l.runner.set(ctx, "layout", l.key, data, cache.TTLLayout)
	}
	return positions, nil
}
