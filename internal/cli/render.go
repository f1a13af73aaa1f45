package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/simplexsight/pkg/cache"
	"github.com/matzehuels/simplexsight/pkg/pipeline"
)

// watchDebounce coalesces bursts of write events from editors.
const watchDebounce = 150 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file (single format) or base path
	formats    string  // comma-separated output formats
	maxDim     int     // dimension bound; -1 means "use config or source"
	materials  string  // material preset file
	iterations int     // spring embedder iterations
	scale      float64 // largest absolute coordinate
	seed       uint64  // layout seed, 0 for random
	nodeSize   float64 // baseline vertex size
	noCache    bool    // disable caching
	watch      bool    // re-render when the materials file changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{maxDim: -1}

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Assemble a scene and write it as JSON, DOT or SVG",
		Long: `Assemble a scene from a simplicial complex and write it in one or more formats.

Sources:
  complex.json | complex.toml
  sqlite://store.db#<id>
  mongodb://host/db?collection=simplices#<id>
  sample:fan[:n] | sample:boundary | sample:tetrahedron`,
		Example: `  simplexsight render sample:fan -f json,svg
  simplexsight render torus.json --max-dim 1 --materials look.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().IntVar(&opts.maxDim, "max-dim", opts.maxDim, "highest simplex dimension to include (default: the complex's own)")
	cmd.Flags().StringVar(&opts.materials, "materials", "", "material preset file (.yaml, .toml or .json)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "spring embedder iterations")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "largest absolute coordinate")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "layout seed (0 = random)")
	cmd.Flags().Float64Var(&opts.nodeSize, "node-size", 0, "baseline vertex size")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout and scene cache")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-render when the materials file changes")

	return cmd
}

// pipelineOptions merges flags over the config-derived defaults.
func (c *CLI) pipelineOptions(cmd *cobra.Command, source string, opts renderOpts) pipeline.Options {
	p := c.baseOptions(source)
	p.Formats = parseFormats(opts.formats)
	p.Materials = opts.materials

	flags := cmd.Flags()
	if flags.Changed("max-dim") {
		maxDim := opts.maxDim
		p.MaxDim = &maxDim
	}
	if flags.Changed("iterations") {
		p.Iterations = opts.iterations
	}
	if flags.Changed("scale") {
		p.Scale = opts.scale
	}
	if flags.Changed("seed") {
		p.Seed = opts.seed
	}
	if flags.Changed("node-size") {
		p.NodeSize = opts.nodeSize
	}
	return p
}

func (c *CLI) runRender(cmd *cobra.Command, source string, opts renderOpts) error {
	ctx := cmd.Context()
	if opts.watch && opts.materials == "" {
		return fmt.Errorf("--watch needs --materials")
	}

	popts := c.pipelineOptions(cmd, source, opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	// Watching without a cache would recompute the layout on every change.
	noCache := opts.noCache
	var runner *pipeline.Runner
	if opts.watch && noCache {
		runner = pipeline.NewRunner(cache.NewMemoryCache(), c.newKeyer(), c.Logger)
	} else {
		var err error
		if runner, err = c.newRunner(ctx, noCache); err != nil {
			return err
		}
	}
	defer runner.Close()

	if err := c.renderOnce(ctx, runner, popts, opts.output, "Assembling scene..."); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return c.watchMaterials(ctx, opts.materials, func() error {
		return c.renderOnce(ctx, runner, popts, opts.output, "Re-resolving materials...")
	})
}

func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output, message string) error {
	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}

	spinner.StopWithSuccess("Assembled " + StyleHighlight.Render(opts.Source))
	printStats(result.Stats, result.CacheInfo.SceneHit)
	if result.Stats.Dropped > 0 {
		printWarning("%d elements referenced unindexed vertices and were dropped", result.Stats.Dropped)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, opts.Source)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// watchMaterials calls fn whenever path is written, until ctx is done.
// The parent directory is watched so editors that replace files still
// trigger a reload.
func (c *CLI) watchMaterials(ctx context.Context, path string, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	printInfo("Watching %s (Ctrl+C to stop)", StyleValue.Render(path))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			if err := fn(); err != nil {
				printError("%v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}

// writeArtifacts writes each rendered format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, source string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := outputPath(output, source, format, len(formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives the file for one format. A single format with an
// explicit output is written there as-is; otherwise the format extension is
// appended to the base path.
func outputPath(output, source, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, source) + "." + format
}

// basePath derives the base output path from the output and source.
// File sources keep their name without extension; other sources use "scene".
func basePath(output, source string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if strings.Contains(source, ":") {
		return "scene"
	}
	return strings.TrimSuffix(source, filepath.Ext(source))
}
