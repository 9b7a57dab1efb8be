// Package pipeline runs scene renders with artifact caching.
//
// Rendering is idempotent: the same scene and options always produce the
// same bytes. The [Runner] exploits this by hashing the canonical scene JSON
// together with the options that change the output and keeping encoded
// artifacts in a [cache.Cache]. CLI and server share the Runner so both get
// identical defaults, validation and caching.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, renderer, logger)
//	res, err := runner.Render(ctx, s, pipeline.Options{Format: "jpg"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.jpg", res.Data, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvasrender/pkg/buildinfo"
	"github.com/matzehuels/canvasrender/pkg/cache"
	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultQuality is the JPEG quality when neither the options nor the
	// scene set one.
	DefaultQuality = scene.DefaultQuality

	// DefaultTTL is how long rendered artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatPNG = scene.FormatPNG
	FormatJPG = scene.FormatJPG
)

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options configures one render. Zero values inherit from the scene's own
// output block, then from the package defaults. Options decode from JSON
// for server requests.
type Options struct {
	Format   string        `json:"format,omitempty"`
	Quality  int           `json:"quality,omitempty"`
	FontDirs []string      `json:"font_dirs,omitempty"`
	NoCache  bool          `json:"no_cache,omitempty"`
	TTL      time.Duration `json:"ttl,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is an encoded render.
type Result struct {
	Data      []byte
	Format    string
	SceneHash string
	Key       string
	CacheHit  bool
	Stats     Stats
}

// Stats contains render statistics. Phase timings are zero on a cache hit.
type Stats struct {
	Nodes      int
	Bytes      int
	LayoutTime time.Duration
	DrawTime   time.Duration
	EncodeTime time.Duration
	TotalTime  time.Duration
}

// ValidateFormat checks that a format is valid ("jpeg" is accepted for jpg).
func ValidateFormat(format string) error {
	return errs.ValidateFormat(format)
}

// Inherit fills unset output options from s.
func (o *Options) Inherit(s *scene.Scene) {
	if o.Format == "" {
		o.Format = s.Format()
	}
	if o.Quality == 0 && s.Output != nil {
		o.Quality = s.Output.Quality
	}
}

// SetDefaults applies package defaults to unset fields.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Format == "jpeg" {
		o.Format = FormatJPG
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after defaults are applied.
func (o *Options) Validate() error {
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := errs.ValidateQuality(o.Quality); err != nil {
		return err
	}
	if o.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "negative cache ttl %s", o.TTL)
	}
	for _, dir := range o.FontDirs {
		if err := errs.ValidatePath(dir); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// RenderKeyOpts returns the cache key inputs of these options.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:   o.Format,
		Quality:  o.Quality,
		FontDirs: o.FontDirs,
		Version:  buildinfo.CacheVersion(),
	}
}
