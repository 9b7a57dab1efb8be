package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvasrender/pkg/buildinfo"
	"github.com/matzehuels/canvasrender/pkg/cache"
	"github.com/matzehuels/canvasrender/pkg/fonts"
	"github.com/matzehuels/canvasrender/pkg/httputil"
	"github.com/matzehuels/canvasrender/pkg/observability"
	"github.com/matzehuels/canvasrender/pkg/pipeline"
	"github.com/matzehuels/canvasrender/pkg/render"
	"github.com/matzehuels/canvasrender/pkg/surface/ggsurface"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "canvasrender"

	// imageCacheTTL is how long downloaded images stay fresh on disk.
	imageCacheTTL = 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "canvasrender turns declarative JSON scenes into PNG and JPEG images",
		Long:         `canvasrender lays out text, images, shapes and containers described in a JSON or YAML scene and draws them on a 2D canvas, producing PNG or JPEG output.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configFile)
			if err != nil {
				return err
			}
			c.Config = cfg
			observability.NewLogHooks(c.Logger).Install()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/canvasrender/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRenderer creates a renderer on the headless gg host. Font directories
// from the config come first, then extra.
func (c *CLI) newRenderer(extraFontDirs []string) (*render.Renderer, error) {
	reg := fonts.New()
	for _, dir := range append(append([]string(nil), c.Config.FontDirs...), extraFontDirs...) {
		n, err := reg.AddDir(dir)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded fonts", "dir", dir, "faces", n)
	}

	fetcher := httputil.NewFetcher(c.imageCache())
	fetcher.Logger = c.Logger

	host := ggsurface.NewHost(reg, fetcher)
	host.Logger = c.Logger
	return render.New(host, c.Logger), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool, fontDirs []string) (*pipeline.Runner, error) {
	renderer, err := c.newRenderer(fontDirs)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c.newCache(noCache), nil, renderer, c.Logger), nil
}

// newCache returns the on-disk artifact cache, or a null cache when caching
// is disabled or the directory is unusable.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(filepath.Join(c.cacheDir(), "renders"))
	if err != nil {
		c.Logger.Warn("render cache disabled", "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// imageCache returns the on-disk cache for downloaded images, or nil.
func (c *CLI) imageCache() *httputil.Cache {
	hc, err := httputil.NewCache(filepath.Join(c.cacheDir(), "images"), imageCacheTTL)
	if err != nil {
		c.Logger.Warn("image cache disabled", "error", err)
		return nil
	}
	return hc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() string {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return dir
}

// cacheDir returns the cache directory using XDG standard (~/.cache/canvasrender/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderOptions merges flag values over the config file. Zero values leave
// the scene's own output block in charge.
func (c *CLI) renderOptions(format string, quality int, fontDirs []string, noCache bool) pipeline.Options {
	opts := pipeline.Options{
		Format:   c.Config.Render.Format,
		Quality:  c.Config.Render.Quality,
		FontDirs: append(append([]string(nil), c.Config.FontDirs...), fontDirs...),
		NoCache:  noCache,
		TTL:      c.Config.Cache.TTL,
		Logger:   c.Logger,
	}
	if format != "" {
		opts.Format = format
	}
	if quality != 0 {
		opts.Quality = quality
	}
	return opts
}
