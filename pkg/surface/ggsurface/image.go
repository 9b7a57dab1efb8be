package ggsurface

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

func (c *Context) DrawImage(b surface.Bitmap, dx, dy, dw, dh float64) {
	c.DrawImageRegion(b, 0, 0, float64(b.Width()), float64(b.Height()), dx, dy, dw, dh)
}

// DrawImageRegion resamples the source rectangle into a canvas-sized layer
// under the current transform and paints it through the destination quad.
func (c *Context) DrawImageRegion(b surface.Bitmap, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	bm, ok := b.(*Bitmap)
	if !ok {
		c.fail(errs.New(errs.ErrCodeUnsupported, "drawImage: bitmap %T not created by this host", b))
		return
	}
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 || c.st.alpha <= 0 {
		return
	}
	sx, sy, sw, sh, dx, dy, dw, dh, ok = clampSource(bm.img.Bounds(), sx, sy, sw, sh, dx, dy, dw, dh)
	if !ok {
		return
	}

	layer := c.imageLayer(bm.img, sx, sy, sw, sh, dx, dy, dw, dh)
	quad := c.rectPath(dx, dy, dw, dh)

	c.withShadow(func(dc *gg.Context) error {
		sil := tint(layer, c.st.shadowRGBA, c.st.alpha)
		buf := gg.ImageBufFromImage(sil)
		dc.SetFillPattern(dc.CreateImagePattern(buf, 0, 0, c.surf.w, c.surf.h))
		c.replay(dc, quad)
		return dc.Fill()
	})
	if c.st.alpha < 1 {
		fade(layer, c.st.alpha)
	}
	c.composite(layer, quad)
}

func (c *Context) imageLayer(src *image.NRGBA, sx, sy, sw, sh, dx, dy, dw, dh float64) *image.NRGBA {
	kx, ky := dw/sw, dh/sh
	ox, oy := dx-sx*kx, dy-sy*ky
	m := c.st.m
	s2d := f64.Aff3{
		m.A * kx, m.B * ky, m.A*ox + m.B*oy + m.C,
		m.D * kx, m.E * ky, m.D*ox + m.E*oy + m.F,
	}
	sr := image.Rect(
		int(math.Floor(sx)), int(math.Floor(sy)),
		int(math.Ceil(sx+sw)), int(math.Ceil(sy+sh)),
	)
	layer := image.NewNRGBA(image.Rect(0, 0, c.surf.w, c.surf.h))
	draw.BiLinear.Transform(layer, s2d, src, sr, draw.Src, nil)
	return layer
}

// clampSource normalizes negative extents and shrinks the source rectangle
// to the bitmap, moving the destination proportionally.
func clampSource(bounds image.Rectangle, sx, sy, sw, sh, dx, dy, dw, dh float64) (float64, float64, float64, float64, float64, float64, float64, float64, bool) {
	if sw < 0 {
		sx, sw = sx+sw, -sw
	}
	if sh < 0 {
		sy, sh = sy+sh, -sh
	}
	if dw < 0 {
		dx, dw = dx+dw, -dw
	}
	if dh < 0 {
		dy, dh = dy+dh, -dh
	}
	kx, ky := dw/sw, dh/sh
	x0 := math.Max(sx, float64(bounds.Min.X))
	y0 := math.Max(sy, float64(bounds.Min.Y))
	x1 := math.Min(sx+sw, float64(bounds.Max.X))
	y1 := math.Min(sy+sh, float64(bounds.Max.Y))
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0, 0, 0, 0, 0, false
	}
	dx += (x0 - sx) * kx
	dy += (y0 - sy) * ky
	return x0, y0, x1 - x0, y1 - y0, dx, dy, (x1 - x0) * kx, (y1 - y0) * ky, true
}

func fade(img *image.NRGBA, alpha float64) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * alpha))
	}
}

// tint replaces the color of every pixel with col, keeping coverage.
func tint(img *image.NRGBA, col gg.RGBA, alpha float64) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	r := uint8(math.Round(col.R * 255))
	g := uint8(math.Round(col.G * 255))
	b := uint8(math.Round(col.B * 255))
	a := col.A * alpha
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		out.Pix[i] = r
		out.Pix[i+1] = g
		out.Pix[i+2] = b
		out.Pix[i+3] = uint8(math.Round(float64(img.Pix[i+3]) * a))
	}
	return out
}
