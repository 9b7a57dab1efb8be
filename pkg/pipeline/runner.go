package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvasrender/pkg/cache"
	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/observability"
	"github.com/matzehuels/canvasrender/pkg/render"
	"github.com/matzehuels/canvasrender/pkg/scene"
)

// Runner renders scenes with caching.
//
// The Runner keeps no per-render state; multiple goroutines can share one
// Runner, each render owning its own surface.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Renderer *render.Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means DefaultKeyer. The renderer's image-load callback is routed to the
// observability hooks unless already set.
func NewRunner(c cache.Cache, keyer cache.Keyer, renderer *render.Renderer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if renderer.ImageLoaded == nil {
		renderer.ImageLoaded = func(ctx context.Context, src string, d time.Duration, err error) {
			observability.Render().OnImageLoad(ctx, src, d, err)
		}
	}
	return &Runner{Cache: c, Keyer: keyer, Renderer: renderer, Logger: logger}
}

// Render encodes s, serving from the cache when an identical render exists.
// Cache failures are logged and never fail the render.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	opts.Inherit(s)
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	start := time.Now()
	id := string(s.ID)
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, id, opts.Format)

	hash, err := SceneHash(s)
	if err != nil {
		hooks.OnRenderComplete(ctx, id, opts.Format, 0, time.Since(start), err)
		return nil, err
	}
	key := r.Keyer.RenderKey(hash, opts.RenderKeyOpts())
	res := &Result{Format: opts.Format, SceneHash: hash, Key: key}

	if !opts.NoCache {
		if data, ok := r.cached(ctx, key); ok {
			res.Data = data
			res.CacheHit = true
			res.Stats = Stats{Bytes: len(data), TotalTime: time.Since(start)}
			logger.Debug("render cache hit", "scene", id, "key", key)
			hooks.OnRenderComplete(ctx, id, opts.Format, 0, res.Stats.TotalTime, nil)
			return res, nil
		}
	}

	out, err := r.Renderer.RenderOutput(ctx, s, render.Output{Format: opts.Format, Quality: opts.Quality})
	if err != nil {
		hooks.OnRenderComplete(ctx, id, opts.Format, 0, time.Since(start), err)
		return nil, err
	}
	res.Data = out.Data
	res.Stats = Stats{
		Nodes:      out.Nodes,
		Bytes:      len(out.Data),
		LayoutTime: out.LayoutTime,
		DrawTime:   out.DrawTime,
		EncodeTime: out.EncodeTime,
		TotalTime:  time.Since(start),
	}

	if !opts.NoCache {
		if err := r.Cache.Set(ctx, key, out.Data, opts.TTL); err != nil {
			logger.Warn("render cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "render", len(out.Data))
		}
	}

	logger.Info("rendered scene",
		"scene", id,
		"format", opts.Format,
		"nodes", out.Nodes,
		"bytes", len(out.Data),
		"duration", res.Stats.TotalTime)
	hooks.OnRenderComplete(ctx, id, opts.Format, out.Nodes, res.Stats.TotalTime, nil)
	return res, nil
}

func (r *Runner) cached(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("render cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !hit || len(data) == 0 {
		observability.Cache().OnCacheMiss(ctx, "render")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "render")
	return data, true
}

// SceneHash hashes the canonical JSON encoding of s. Field order follows the
// scene types, so equal scenes hash equally regardless of input formatting.
func SceneHash(s *scene.Scene) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "encode scene for hashing")
	}
	return cache.Hash(data), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
