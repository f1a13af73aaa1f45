// Package pipeline runs the complete complex → scene pipeline with caching.
//
// The CLI and any embedding host share this package so that source
// resolution, material loading, caching and artifact rendering behave the
// same everywhere.
//
// # Stages
//
//  1. Open: resolve a source URI to a complex.Reader ([OpenSource]).
//  2. Assemble: index, build the 1-skeleton, lay out and resolve materials
//     ([scene.Assembler]). The layout is cached per complex; the document
//     is cached per complex and material set.
//  3. Render: encode the document as JSON, Graphviz DOT or SVG.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "sample:fan:6",
//	    Formats: []string{pipeline.FormatJSON},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifacts["json"])
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/simplexsight/pkg/cache"
	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/layout"
	"github.com/matzehuels/simplexsight/pkg/material"
	"github.com/matzehuels/simplexsight/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultIterations is the spring embedder's iteration cap.
	DefaultIterations = layout.DefaultIterations

	// DefaultScale is the largest absolute coordinate in the scene.
	DefaultScale = layout.DefaultScale

	// DefaultNodeSize is the baseline vertex size.
	DefaultNodeSize = material.DefaultNodeSize
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Source is a complex file path or a source URI (see OpenSource).
	Source string `json:"source"`

	// MaxDim bounds the extracted dimensions. Nil uses the complex's own.
	MaxDim *int `json:"max_dim,omitempty"`

	// Materials is a preset file applied before Preset.
	Materials string           `json:"materials,omitempty"`
	Preset    *material.Preset `json:"preset,omitempty"`

	// Layout options
	Iterations int     `json:"iterations,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`

	NodeSize float64  `json:"node_size,omitempty"`
	Formats  []string `json:"formats,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// ComplexHash is the content hash of the source complex.
	ComplexHash string

	// MaterialsHash is the content hash of the resolved material layers.
	MaterialsHash string

	// Document is the assembled scene.
	Document *scene.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MaxDim     int
	Vertices   int
	Edges      int
	Faces      int
	Tetrahedra int
	Dropped    int

	OpenTime     time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether positions came from cache
	SceneHit  bool // Whether the whole document came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateSourceURI(o.Source); err != nil {
		return err
	}
	if o.MaxDim != nil {
		if err := errors.ValidateMaxDim(*o.MaxDim); err != nil {
			return err
		}
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must be non-negative, got %d", o.Iterations)
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be non-negative, got %v", o.Scale)
	}
	if o.NodeSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node size must be non-negative, got %v", o.NodeSize)
	}

	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.NodeSize == 0 {
		o.NodeSize = DefaultNodeSize
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the spring embedder configuration.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Iterations: o.Iterations,
		Scale:      o.Scale,
		Seed:       o.Seed,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(maxDim int) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxDim:     maxDim,
		Iterations: o.Iterations,
		Scale:      o.Scale,
		Seed:       o.Seed,
	}
}

// SceneKeyOpts returns cache key options for the assembled document.
func (o *Options) SceneKeyOpts(maxDim int) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		MaxDim:   maxDim,
		NodeSize: o.NodeSize,
	}
}
