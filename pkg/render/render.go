package render

import (
	"bytes"
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/render/container"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// RootID is the id of the implicit container wrapping a scene's layers.
const RootID = "root"

// Renderer renders scenes on a host.
type Renderer struct {
	Host   surface.Host
	Logger *log.Logger

	// ImageLoaded, when set, is called after every bitmap load.
	ImageLoaded func(ctx context.Context, src string, d time.Duration, err error)
}

// New returns a renderer. A nil logger discards output.
func New(host surface.Host, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{Host: host, Logger: logger}
}

// Output selects the encoding of a render.
type Output struct {
	Format  string
	Quality int
}

// Result is an encoded render with its phase timings.
type Result struct {
	Data   []byte
	Format string
	Nodes  int

	LayoutTime time.Duration
	DrawTime   time.Duration
	EncodeTime time.Duration
}

// Render renders s with the output settings of the scene itself.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene) ([]byte, error) {
	res, err := r.RenderOutput(ctx, s, Output{Format: s.Format(), Quality: s.Quality()})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// RenderOutput renders s and encodes it as out.
func (r *Renderer) RenderOutput(ctx context.Context, s *scene.Scene, out Output) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if out.Format == "" {
		out.Format = s.Format()
	}
	if out.Quality == 0 {
		out.Quality = s.Quality()
	}
	if err := errs.ValidateFormat(out.Format); err != nil {
		return nil, err
	}
	if out.Format == "jpeg" {
		out.Format = surface.JPG
	}

	surf, err := r.Host.NewSurface(int(math.Ceil(s.Width)), int(math.Ceil(s.Height)))
	if err != nil {
		return nil, err
	}
	if c, ok := surf.(io.Closer); ok {
		defer c.Close()
	}
	env := r.env(ctx, surf.Context())

	res := &Result{Format: out.Format}
	start := time.Now()
	root, err := r.layout(ctx, env, s)
	if err != nil {
		return nil, err
	}
	res.LayoutTime = time.Since(start)
	res.Nodes = node.Count(root)

	start = time.Now()
	if err := r.draw(ctx, env, s, root); err != nil {
		return nil, err
	}
	res.DrawTime = time.Since(start)

	start = time.Now()
	var buf bytes.Buffer
	if err := surf.Encode(&buf, out.Format, out.Quality); err != nil {
		if errs.GetCode(err) == "" {
			err = errs.Wrap(errs.ErrCodeEncode, err, "encode %s", out.Format)
		}
		return nil, err
	}
	res.EncodeTime = time.Since(start)
	res.Data = buf.Bytes()

	r.Logger.Debug("rendered scene", "id", s.ID, "nodes", res.Nodes, "format", res.Format, "bytes", len(res.Data),
		"layout", res.LayoutTime, "draw", res.DrawTime, "encode", res.EncodeTime)
	return res, nil
}

// Layout runs only the layout phase and returns the laid-out root container.
// The surface is created to measure text but never encoded.
func (r *Renderer) Layout(ctx context.Context, s *scene.Scene) (*container.Container, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	surf, err := r.Host.NewSurface(int(math.Ceil(s.Width)), int(math.Ceil(s.Height)))
	if err != nil {
		return nil, err
	}
	if c, ok := surf.(io.Closer); ok {
		defer c.Close()
	}
	return r.layout(ctx, r.env(ctx, surf.Context()), s)
}

func (r *Renderer) env(ctx context.Context, c surface.Context2D) *node.Env {
	env := node.NewEnv(r.Host, c, r.Logger)
	if r.ImageLoaded != nil {
		env.ImageLoaded = func(src string, d time.Duration, err error) {
			r.ImageLoaded(ctx, src, d, err)
		}
	}
	return env
}

// Root wraps the scene's layers in a row container spanning the canvas.
func Root(s *scene.Scene) *scene.Container {
	zero := 0.0
	w, h := s.Width, s.Height
	return &scene.Container{
		Base: scene.Base{
			Kind: scene.KindContainer, ID: RootID,
			X: &zero, Y: &zero, Width: &w, Height: &h,
		},
		Direction: scene.DirectionRow,
		Layers:    s.Layers,
	}
}

func (r *Renderer) layout(ctx context.Context, env *node.Env, s *scene.Scene) (*container.Container, error) {
	if len(s.Layers) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidScene, "scene: layers must not be empty")
	}
	root := container.New(Root(s), false)
	if err := root.Layout(ctx, env, node.Rect(0, 0, s.Width, s.Height)); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *Renderer) draw(ctx context.Context, env *node.Env, s *scene.Scene, root *container.Container) error {
	c := env.Canvas
	if s.Background != "" {
		if err := node.Scoped(c, func() error {
			c.SetFillStyle(s.Background)
			c.FillRect(0, 0, s.Width, s.Height)
			return nil
		}); err != nil {
			return err
		}
	}
	return root.Draw(ctx, env)
}
