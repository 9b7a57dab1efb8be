package image

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface/surfacetest"
)

func setup(t *testing.T) (*surfacetest.Surface, *node.Env) {
	t.Helper()
	host := surfacetest.NewHost().AddImage("wide.png", 200, 100).AddImage("tall.png", 50, 100)
	s, err := host.NewSurface(300, 300)
	require.NoError(t, err)
	return s.(*surfacetest.Surface), node.NewEnv(host, s.Context(), nil)
}

func TestSize(t *testing.T) {
	f := scene.Float
	tests := []struct {
		name   string
		w, h   *float64
		nw, nh float64
		fit    scene.ObjectFit
		boxW   float64
		boxH   float64
		want   Fit
	}{
		{"natural", nil, nil, 200, 100, "", 200, 100, Fit{Width: 200, Height: 100}},
		{"width only", f(100), nil, 200, 100, "", 100, 50, Fit{Width: 100, Height: 50}},
		{"height only", nil, f(100), 200, 100, "", 200, 100, Fit{Width: 200, Height: 100}},
		{"contain wide", f(100), f(100), 200, 100, scene.FitContain, 100, 100, Fit{Width: 100, Height: 50, MarginY: 25}},
		{"contain default", f(100), f(100), 200, 100, "", 100, 100, Fit{Width: 100, Height: 50, MarginY: 25}},
		{"cover wide", f(100), f(100), 200, 100, scene.FitCover, 100, 100, Fit{Width: 200, Height: 100, MarginX: -50}},
		{"contain tall", f(100), f(100), 50, 100, scene.FitContain, 100, 100, Fit{Width: 50, Height: 100, MarginX: 25}},
		{"cover tall", f(100), f(100), 50, 100, scene.FitCover, 100, 100, Fit{Width: 100, Height: 200, MarginY: -50}},
		{"square contain", f(80), f(40), 10, 10, scene.FitContain, 80, 40, Fit{Width: 40, Height: 40, MarginX: 20}},
		{"square cover", f(80), f(40), 10, 10, scene.FitCover, 80, 40, Fit{Width: 80, Height: 80, MarginY: -20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, fit := Size(tt.w, tt.h, tt.nw, tt.nh, tt.fit)
			if w != tt.boxW || h != tt.boxH {
				t.Errorf("box = %vx%v, want %vx%v", w, h, tt.boxW, tt.boxH)
			}
			if fit != tt.want {
				t.Errorf("fit = %+v, want %+v", fit, tt.want)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	ctx := context.Background()
	_, env := setup(t)
	parent := node.Rect(0, 0, 300, 300)

	n := New(&scene.Image{Base: scene.Base{X: scene.Float(5), Y: scene.Float(5)}, URL: "wide.png"}, false)
	require.NoError(t, n.Layout(ctx, env, parent))
	box, _ := n.Bounds()
	assert.Equal(t, node.Box{X1: 5, Y1: 5, X2: 205, Y2: 105}, box)

	block := New(&scene.Image{Base: scene.Base{Width: scene.Float(10), Height: scene.Float(20)}, Color: "#f00"}, false)
	require.NoError(t, block.Layout(ctx, env, parent))
	box, _ = block.Bounds()
	assert.Equal(t, node.Box{X2: 10, Y2: 20}, box)
}

func TestLayoutErrors(t *testing.T) {
	ctx := context.Background()
	_, env := setup(t)
	parent := node.Rect(0, 0, 300, 300)

	err := New(&scene.Image{Base: scene.Base{ID: "logo"}, Color: "#f00"}, false).Layout(ctx, env, parent)
	assert.True(t, errs.Is(err, errs.ErrCodeMissingField), "err = %v", err)
	assert.Contains(t, err.Error(), "logo")

	err = New(&scene.Image{URL: "missing.png"}, false).Layout(ctx, env, parent)
	assert.True(t, errs.Is(err, errs.ErrCodeImageLoad), "err = %v", err)
}

func TestDrawContain(t *testing.T) {
	ctx := context.Background()
	s, env := setup(t)
	n := New(&scene.Image{
		Base:        scene.Base{X: scene.Float(10), Y: scene.Float(10), Width: scene.Float(100), Height: scene.Float(100)},
		URL:         "wide.png",
		Color:       "#eee",
		GlobalAlpha: scene.Float(0.5),
		Shadow:      &scene.Shadow{Color: "#000", Blur: 3},
	}, false)
	require.NoError(t, n.Layout(ctx, env, node.Rect(0, 0, 300, 300)))
	require.NoError(t, n.Draw(ctx, env))

	fill := s.Named("fill")
	require.Len(t, fill, 1)
	assert.Equal(t, "#000", fill[0].State.Shadow.Color)
	assert.Equal(t, 0.5, fill[0].State.GlobalAlpha)

	img := s.Named("drawImage")
	require.Len(t, img, 1)
	assert.Equal(t, []float64{10, 35, 100, 50}, img[0].Args)
	assert.Equal(t, "", img[0].State.Shadow.Color, "bitmap over a block has no shadow")
	assert.Empty(t, s.Named("clip"))
}

func TestDrawCoverCrops(t *testing.T) {
	ctx := context.Background()
	s, env := setup(t)
	n := New(&scene.Image{
		Base:      scene.Base{Width: scene.Float(100), Height: scene.Float(100)},
		URL:       "wide.png",
		ObjectFit: scene.FitCover,
		Radius:    8,
	}, false)
	require.NoError(t, n.Layout(ctx, env, node.Rect(0, 0, 300, 300)))
	require.NoError(t, n.Draw(ctx, env))

	assert.Len(t, s.Named("clip"), 1)
	region := s.Named("drawImageRegion")
	require.Len(t, region, 1)
	// 200x100 bitmap scaled to 200x100, centered: columns 50..150 are visible.
	assert.Equal(t, []float64{50, 0, 100, 100, 0, 0, 100, 100}, region[0].Args)
}

func TestDrawRotated(t *testing.T) {
	ctx := context.Background()
	s, env := setup(t)
	n := New(&scene.Image{Base: scene.Base{Width: scene.Float(40), Rotate: 180}, URL: "tall.png"}, false)
	require.NoError(t, n.Layout(ctx, env, node.Rect(0, 0, 300, 300)))
	box, _ := n.Bounds()
	assert.Equal(t, node.Box{X2: 40, Y2: 80}, box)
	require.NoError(t, n.Draw(ctx, env))

	call := s.Named("drawImage")[0]
	x, y := call.State.Apply(0, 0)
	assert.InDelta(t, 40.0, x, 1e-9)
	assert.InDelta(t, 80.0, y, 1e-9)
}
