// Package image lays out and draws image nodes: a rounded color block, a
// fitted bitmap, or a bitmap over a color block.
package image

import (
	"context"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// Image is a laid-out image node.
type Image struct {
	node.Base
	data *scene.Image

	bitmap surface.Bitmap
	fit    Fit
}

// Fit is the resolved geometry of a bitmap inside its box. The bitmap is
// drawn at (MarginX, MarginY) relative to the box origin with size
// Width x Height; negative margins mean the bitmap is cropped.
type Fit struct {
	Width, Height    float64
	MarginX, MarginY float64
}

// New wraps a cloned image description.
func New(data *scene.Image, flowed bool) *Image {
	n := &Image{data: data}
	n.Name = data.Label()
	n.Flowed = flowed
	return n
}

// Fit returns the resolved bitmap geometry. Valid after Layout.
func (n *Image) Fit() Fit { return n.fit }

// Size resolves the box size and the bitmap geometry for a bitmap of natural
// size nw x nh. Width and height are optional; objectFit applies only when
// both are given.
func Size(width, height *float64, nw, nh float64, fit scene.ObjectFit) (float64, float64, Fit) {
	ratio := nw / nh
	switch {
	case width == nil && height == nil:
		return nw, nh, Fit{Width: nw, Height: nh}
	case height == nil:
		w := *width
		return w, w / ratio, Fit{Width: w, Height: w / ratio}
	case width == nil:
		h := *height
		return h * ratio, h, Fit{Width: h * ratio, Height: h}
	}
	w, h := *width, *height
	cover := fit == scene.FitCover
	var f Fit
	if cover && ratio > 1 || !cover && ratio <= 1 {
		f.Height = h
		f.Width = h * ratio
	} else {
		f.Width = w
		f.Height = w / ratio
	}
	f.MarginX = (w - f.Width) / 2
	f.MarginY = (h - f.Height) / 2
	return w, h, f
}

func (n *Image) Layout(ctx context.Context, env *node.Env, parent node.Box) error {
	n.Parent = parent
	x, y := node.Coord(n.data.X), node.Coord(n.data.Y)

	if n.data.URL == "" {
		if n.data.Width == nil || n.data.Height == nil {
			return errs.New(errs.ErrCodeMissingField, "image %s: width and height are required without url", n.Name)
		}
		n.Resolve(node.Rect(x, y, *n.data.Width, *n.data.Height))
		return nil
	}

	if n.bitmap == nil {
		bmp, err := env.Bitmap(ctx, n.data.URL)
		if err != nil {
			return err
		}
		if bmp.Width() <= 0 || bmp.Height() <= 0 {
			return errs.New(errs.ErrCodeImageLoad, "image %s: %s has no pixels", n.Name, n.data.URL)
		}
		n.bitmap = bmp
	}
	w, h, fit := Size(n.data.Width, n.data.Height, float64(n.bitmap.Width()), float64(n.bitmap.Height()), n.data.ObjectFit)
	n.fit = fit
	n.Resolve(node.Rect(x, y, w, h))
	return nil
}

func (n *Image) Draw(_ context.Context, env *node.Env) error {
	if _, err := n.Bounds(); err != nil {
		return err
	}
	c := env.Canvas
	b := n.Box
	r := n.data.Radius
	return node.Scoped(c, func() error {
		node.RotateAbout(c, n.data.Rotate, b)
		if n.data.GlobalAlpha != nil {
			c.SetGlobalAlpha(*n.data.GlobalAlpha)
		}
		c.SetShadow(node.Shadow(n.data.Shadow))

		if n.data.Color != "" {
			c.SetFillStyle(n.data.Color)
			c.BeginPath()
			node.RoundedRect(c, b.X1, b.Y1, b.Width(), b.Height(), r, r)
			c.Fill()
			// The block carries the shadow; the bitmap on top does not.
			c.SetShadow(surface.Shadow{})
		}
		if n.bitmap == nil {
			return nil
		}
		if r > 0 {
			c.BeginPath()
			node.RoundedRect(c, b.X1, b.Y1, b.Width(), b.Height(), r, r)
			c.Clip()
		}
		n.drawBitmap(c)
		return nil
	})
}

// drawBitmap blits the bitmap, cropping through the source rectangle when
// the fitted bitmap overflows the box.
func (n *Image) drawBitmap(c surface.Context2D) {
	b, f := n.Box, n.fit
	if f.MarginX >= 0 && f.MarginY >= 0 {
		c.DrawImage(n.bitmap, b.X1+f.MarginX, b.Y1+f.MarginY, f.Width, f.Height)
		return
	}
	scale := f.Width / float64(n.bitmap.Width())
	sx, sy := 0.0, 0.0
	sw, sh := float64(n.bitmap.Width()), float64(n.bitmap.Height())
	dx, dy, dw, dh := b.X1+f.MarginX, b.Y1+f.MarginY, f.Width, f.Height
	if f.MarginX < 0 {
		sx, sw = -f.MarginX/scale, b.Width()/scale
		dx, dw = b.X1, b.Width()
	}
	if f.MarginY < 0 {
		sy, sh = -f.MarginY/scale, b.Height()/scale
		dy, dh = b.Y1, b.Height()
	}
	c.DrawImageRegion(n.bitmap, sx, sy, sw, sh, dx, dy, dw, dh)
}

func (n *Image) Move(ctx context.Context, env *node.Env, x, y float64) error {
	n.data.X, n.data.Y = &x, &y
	return n.Layout(ctx, env, n.Parent)
}
