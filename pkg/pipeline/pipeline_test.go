package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/simplexsight/pkg/cache"
	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/complex/sqlite"
	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/material"
	"github.com/matzehuels/simplexsight/pkg/observability"
	"github.com/matzehuels/simplexsight/pkg/scene"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: "sample:fan"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Iterations != DefaultIterations {
		t.Errorf("Iterations should be %d, got %d", DefaultIterations, opts.Iterations)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %f, got %f", DefaultScale, opts.Scale)
	}
	if opts.NodeSize != DefaultNodeSize {
		t.Errorf("NodeSize should be %f, got %f", DefaultNodeSize, opts.NodeSize)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidation(t *testing.T) {
	neg := -1
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty source", Options{}, errors.ErrCodeInvalidSource},
		{"bad extension", Options{Source: "complex.csv"}, errors.ErrCodeInvalidSource},
		{"sqlite without id", Options{Source: "sqlite://x.db"}, errors.ErrCodeInvalidSource},
		{"negative max dim", Options{Source: "sample:fan", MaxDim: &neg}, errors.ErrCodeInvalidDimension},
		{"negative iterations", Options{Source: "sample:fan", Iterations: -1}, errors.ErrCodeInvalidConfig},
		{"negative scale", Options{Source: "sample:fan", Scale: -1}, errors.ErrCodeInvalidConfig},
		{"negative node size", Options{Source: "sample:fan", NodeSize: -1}, errors.ErrCodeInvalidConfig},
		{"bad format", Options{Source: "sample:fan", Formats: []string{"png"}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Source: "sample:boundary", Scale: 10}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	before := opts.LayoutKeyOpts(2)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.LayoutKeyOpts(2) != before {
		t.Error("layout options changed on second call")
	}
	if opts.Scale != 10 {
		t.Errorf("explicit scale overwritten: %f", opts.Scale)
	}
}

func TestSample(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		counts []int
	}{
		{"fan", []int{7, 12, 6}},
		{"fan:4", []int{5, 8, 4}},
		{"boundary", []int{4, 6, 4}},
		{"tetrahedron", []int{4, 6, 4, 1}},
	}

	for _, tt := range tests {
		c, err := Sample(tt.name)
		if err != nil {
			t.Fatalf("Sample(%q): %v", tt.name, err)
		}
		got, err := complex.Counts(ctx, c)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(tt.counts) {
			t.Fatalf("Sample(%q) counts = %v, want %v", tt.name, got, tt.counts)
		}
		for i := range got {
			if got[i] != tt.counts[i] {
				t.Errorf("Sample(%q) counts = %v, want %v", tt.name, got, tt.counts)
				break
			}
		}
	}

	for _, bad := range []string{"fan:2", "fan:x", "torus"} {
		if _, err := Sample(bad); !errors.Is(err, errors.ErrCodeInvalidSource) {
			t.Errorf("Sample(%q) error = %v, want INVALID_SOURCE", bad, err)
		}
	}
}

func TestOpenSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.json")
	if err := os.WriteFile(path, []byte(`{"simplices": [[0], [1], [2], [0, 1], [1, 2], [0, 2], [0, 1, 2]]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := OpenSource(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if src.Kind != KindFile {
		t.Errorf("Kind = %s, want file", src.Kind)
	}
	dim, err := src.Dimension(context.Background())
	if err != nil || dim != 2 {
		t.Errorf("Dimension = %d, %v; want 2", dim, err)
	}
}

func TestOpenSourceSQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "complexes.db")

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.Import(ctx, "boundary", complex.TetrahedronBoundary())
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	src, err := OpenSource(ctx, "sqlite://"+dbPath+"#"+id)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if src.Kind != KindSQLite {
		t.Errorf("Kind = %s, want sqlite", src.Kind)
	}
	faces, err := src.Simplices(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(faces) != 4 {
		t.Errorf("faces = %d, want 4", len(faces))
	}
}

type recordingSourceHooks struct {
	observability.NoopSourceHooks
	queries []int
}

func (h *recordingSourceHooks) OnQuery(_ context.Context, backend string, dim, count int, _ time.Duration) {
	if backend == KindSQLite {
		h.queries = append(h.queries, dim)
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses map[string]int
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, keyType string)  { h.hits[keyType]++ }
func (h *recordingCacheHooks) OnCacheMiss(_ context.Context, keyType string) { h.misses[keyType]++ }

func TestSQLiteSourceReportsQueries(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "complexes.db")
	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.Import(ctx, "fan", complex.Fan(4))
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	hooks := &recordingSourceHooks{}
	observability.SetSourceHooks(hooks)
	defer observability.Reset()

	src, err := OpenSource(ctx, "sqlite://"+dbPath+"#"+id)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if _, err := src.Simplices(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Simplices(ctx, 2); err != nil {
		t.Fatal(err)
	}

	if len(hooks.queries) != 2 || hooks.queries[0] != 0 || hooks.queries[1] != 2 {
		t.Errorf("queries = %v, want [0 2]", hooks.queries)
	}
}

func TestExecuteReportsCacheHooks(t *testing.T) {
	hooks := &recordingCacheHooks{hits: map[string]int{}, misses: map[string]int{}}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	opts := Options{Source: "sample:fan:3", Seed: 5}
	for range 2 {
		if _, err := runner.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.misses["scene"] != 1 || hooks.misses["layout"] != 1 {
		t.Errorf("misses = %v", hooks.misses)
	}
	if hooks.hits["scene"] != 1 {
		t.Errorf("hits = %v", hooks.hits)
	}
}

func TestOpenSourceMissingFile(t *testing.T) {
	_, err := OpenSource(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Source:  "sample:fan",
		Seed:    7,
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Stats.Vertices != 7 || result.Stats.Edges != 12 || result.Stats.Faces != 6 || result.Stats.Tetrahedra != 0 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
	if result.Stats.MaxDim != 2 {
		t.Errorf("MaxDim = %d, want 2", result.Stats.MaxDim)
	}

	doc, err := scene.ReadJSON(bytes.NewReader(result.Artifacts[FormatJSON]))
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(doc.Vertices) != 7 {
		t.Errorf("json artifact has %d vertices", len(doc.Vertices))
	}

	dot := string(result.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "graph") {
		t.Errorf("dot artifact should be an undirected graph, got %q", dot[:min(len(dot), 20)])
	}
	if _, ok := result.Artifacts[FormatSVG]; ok {
		t.Error("svg was not requested")
	}
}

func TestExecuteCachedDropCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dangling.json")
	if err := os.WriteFile(path, []byte(`{"simplices": [[0], [1], [0, 1], [1, 99]]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	zero := 0
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	opts := Options{Source: path, MaxDim: &zero, Seed: 2}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", first.Stats.Dropped)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SceneHit {
		t.Fatal("second run should hit the scene cache")
	}
	if second.Stats.Dropped != 1 {
		t.Errorf("cached Dropped = %d, want 1", second.Stats.Dropped)
	}
}

func TestExecuteCaching(t *testing.T) {
	mem := cache.NewMemoryCache()
	runner := NewRunner(mem, nil, nil)
	opts := Options{Source: "sample:boundary", Seed: 3}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SceneHit || first.CacheInfo.LayoutHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if mem.Len() != 2 {
		t.Errorf("cache entries = %d, want layout and scene", mem.Len())
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SceneHit {
		t.Error("second run should hit the scene cache")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached document differs")
	}

	// New materials miss the scene but reuse the layout.
	opts.Preset = &material.Preset{Defaults: map[string]material.Props{"faces": {"opacity": 0.9}}}
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.SceneHit || !third.CacheInfo.LayoutHit {
		t.Errorf("third run cache info = %+v, want layout hit only", third.CacheInfo)
	}
	if third.Document.Faces[0].Data["opacity"] != 0.9 {
		t.Errorf("face opacity = %v", third.Document.Faces[0].Data["opacity"])
	}
	if third.Document.Vertices[0].Position != first.Document.Vertices[0].Position {
		t.Error("layout should be reused across material changes")
	}

	// Refresh skips reads.
	opts.Refresh = true
	fourth, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.SceneHit || fourth.CacheInfo.LayoutHit {
		t.Errorf("refresh run should miss: %+v", fourth.CacheInfo)
	}
}

func TestExecuteMaxDim(t *testing.T) {
	one := 1
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Source: "sample:tetrahedron",
		MaxDim: &one,
		Seed:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.Faces != 0 || result.Stats.Tetrahedra != 0 || result.Stats.Edges != 6 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
}

func TestExecuteMaterialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.yaml")
	preset := "defaults:\n  vertices:\n    color: \"#cccccc\"\n"
	if err := os.WriteFile(path, []byte(preset), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Source:    "sample:fan:3",
		Materials: path,
		Seed:      1,
	})
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &raw); err != nil {
		t.Fatal(err)
	}
	data := raw["vertices"][0]["data"].(map[string]any)
	if data["color"] != float64(0xCCCCCC) {
		t.Errorf("vertex color = %v, want %d", data["color"], 0xCCCCCC)
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	if _, err := runner.Execute(context.Background(), Options{Source: "sample:torus"}); !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("unknown sample error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"simplices": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Execute(context.Background(), Options{Source: path}); !errors.Is(err, errors.ErrCodeLayoutFailure) {
		t.Errorf("empty complex error = %v, want LAYOUT_FAILURE", err)
	}

	if _, err := runner.Execute(context.Background(), Options{Source: "sample:fan", Materials: "missing.yaml"}); err == nil {
		t.Error("missing materials file should fail")
	}
}

func TestHashComplexStable(t *testing.T) {
	ctx := context.Background()
	a, err := HashComplex(ctx, complex.Fan(5))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashComplex(ctx, complex.Fan(5))
	c, _ := HashComplex(ctx, complex.Fan(6))
	if a != b {
		t.Error("hash should be deterministic")
	}
	if a == c {
		t.Error("different complexes should hash differently")
	}
}
