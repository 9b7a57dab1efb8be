package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/canvasrender/pkg/io"
	"github.com/matzehuels/canvasrender/pkg/pipeline"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single scene) or directory (several scenes)
	format   string   // png or jpg; empty keeps the scene's own output type
	quality  int      // JPEG quality 1-100
	fontDirs []string // extra font directories
	noCache  bool     // bypass the render cache
	watch    bool     // re-render when a scene file changes
	jobs     int      // concurrent renders
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render <scene>...",
		Short: "Render scene files to PNG or JPEG",
		Long: `Render lays out and draws each scene file (JSON or YAML) and writes the image
next to it, or to --output. With several scenes, --output names a directory.`,
		Example: `  canvasrender render card.json
  canvasrender render card.yaml -f jpg --quality 80 -o out/card.jpg
  canvasrender render scenes/*.json -o out/
  canvasrender render card.json --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "" {
				if err := pipeline.ValidateFormat(opts.format); err != nil {
					return err
				}
			}
			runner, err := c.newRunner(opts.noCache, opts.fontDirs)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := c.runRender(cmd.Context(), runner, args, opts); err != nil && !opts.watch {
				return err
			}
			if opts.watch {
				return c.watchRender(cmd.Context(), runner, args, opts)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or directory when rendering several scenes")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, jpg (default: scene output type)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default 90)")
	cmd.Flags().StringSliceVar(&opts.fontDirs, "font-dir", nil, "additional font directory (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when a scene file changes")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of scenes rendered concurrently")

	return cmd
}

// runRender renders every input concurrently and stops at the first failure.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, inputs []string, opts renderOpts) error {
	if len(inputs) == 1 && !opts.watch {
		spinner := newSpinnerWithContext(ctx, "Rendering "+inputs[0])
		spinner.Start()
		res, out, err := c.renderFile(ctx, runner, inputs[0], opts, 1)
		spinner.Stop()
		if err != nil {
			return err
		}
		reportRender(inputs[0], out, res)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for _, in := range inputs {
		g.Go(func() error {
			res, out, err := c.renderFile(gctx, runner, in, opts, len(inputs))
			if err != nil {
				printError("%s: %v", in, err)
				return err
			}
			reportRender(in, out, res)
			return nil
		})
	}
	return g.Wait()
}

// renderFile renders one scene file and writes the artifact.
func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, opts renderOpts, n int) (*pipeline.Result, string, error) {
	logger := loggerFromContext(ctx)
	logger.Debug("rendering", "scene", input)

	s, err := io.ReadScene(input)
	if err != nil {
		return nil, "", err
	}
	res, err := runner.Render(ctx, s, c.renderOptions(opts.format, opts.quality, opts.fontDirs, opts.noCache))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", input, err)
	}

	out := outputPath(input, opts.output, res.Format, n)
	if err := io.WriteArtifact(out, res.Data); err != nil {
		return nil, "", err
	}
	return res, out, nil
}

// outputPath picks where the artifact of input goes. A lone scene writes to
// output itself; several scenes treat output as a directory.
func outputPath(input, output, format string, n int) string {
	def := io.OutputPath(input, format)
	switch {
	case output == "":
		return def
	case n == 1:
		return output
	default:
		return filepath.Join(output, filepath.Base(def))
	}
}

func reportRender(input, output string, res *pipeline.Result) {
	printSuccess("Rendered %s", input)
	printFile(output)
	printStats(res.Stats.Nodes, res.Stats.Bytes, res.Stats.TotalTime, res.CacheHit)
}

// watchRender re-renders inputs whenever their files change until ctx ends.
// Render failures are reported and watching continues.
func (c *CLI) watchRender(ctx context.Context, runner *pipeline.Runner, inputs []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directories.
	targets := make(map[string]string, len(inputs))
	dirs := map[string]bool{}
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		targets[abs] = in
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	printInfo("Watching %d scene(s), press Ctrl+C to stop", len(inputs))

	pending := map[string]bool{}
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			in, tracked := targets[filepath.Clean(ev.Name)]
			if !tracked || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("scene changed", "file", in, "op", ev.Op.String())
			pending[in] = true
			fire = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			for in := range pending {
				res, out, err := c.renderFile(ctx, runner, in, opts, len(inputs))
				if err != nil {
					printError("%v", err)
					continue
				}
				reportRender(in, out, res)
			}
			clear(pending)
		}
	}
}
