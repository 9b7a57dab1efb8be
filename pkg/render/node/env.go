package node

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// Env is the state shared by all nodes of a single render: the host, the
// drawing context, a logger and a memo of loaded bitmaps. An Env belongs to
// one render call and is not safe for concurrent use.
type Env struct {
	Host   surface.Host
	Canvas surface.Context2D
	Logger *log.Logger

	// ImageLoaded, when set, is called after each bitmap load attempt.
	ImageLoaded func(src string, d time.Duration, err error)

	bitmaps map[string]surface.Bitmap
}

// NewEnv returns an Env drawing on canvas. A nil logger discards output.
func NewEnv(host surface.Host, canvas surface.Context2D, logger *log.Logger) *Env {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Env{Host: host, Canvas: canvas, Logger: logger, bitmaps: map[string]surface.Bitmap{}}
}

// Bitmap loads src through the host, once per render.
func (e *Env) Bitmap(ctx context.Context, src string) (surface.Bitmap, error) {
	if b, ok := e.bitmaps[src]; ok {
		return b, nil
	}
	start := time.Now()
	b, err := e.Host.LoadImage(ctx, src)
	if e.ImageLoaded != nil {
		e.ImageLoaded(src, time.Since(start), err)
	}
	if err != nil {
		if errs.GetCode(err) == "" {
			err = errs.Wrap(errs.ErrCodeImageLoad, err, "load %s", src)
		}
		return nil, err
	}
	e.Logger.Debug("bitmap loaded", "src", truncate(src, 64), "w", b.Width(), "h", b.Height())
	e.bitmaps[src] = b
	return b, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
