package ggsurface

import (
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gg"
)

// withShadow renders the silhouette produced by paint into an offscreen
// context, blurs and offsets it, then composites it under the current clip.
// paint receives a context whose brush is already the shadow color.
func (c *Context) withShadow(paint func(dc *gg.Context) error) {
	sh := c.st.shadow
	col := c.st.shadowRGBA
	col.A *= c.st.alpha
	if !sh.Enabled() || col.A <= 0 {
		return
	}

	off := gg.NewContext(c.surf.w, c.surf.h)
	defer off.Close()
	off.SetFillBrush(gg.Solid(col))
	if err := paint(off); err != nil {
		c.fail(wrapRaster(err))
		return
	}

	var src image.Image = off.Image()
	if sh.Blur > 0 {
		src = blur.Gaussian(src, sh.Blur/2)
	}
	layer := image.NewNRGBA(image.Rect(0, 0, c.surf.w, c.surf.h))
	sp := image.Pt(-int(math.Round(sh.OffsetX)), -int(math.Round(sh.OffsetY)))
	draw.Draw(layer, layer.Bounds(), src, sp, draw.Src)

	c.composite(layer, c.rectDevice(0, 0, float64(c.surf.w), float64(c.surf.h)))
}

// composite paints a canvas-sized straight-alpha layer through the device
// path area, honoring the clip.
func (c *Context) composite(layer *image.NRGBA, area *gg.Path) {
	buf := gg.ImageBufFromImage(layer)
	c.dc.SetFillPattern(c.dc.CreateImagePattern(buf, 0, 0, c.surf.w, c.surf.h))
	c.replay(c.dc, area)
	c.fail(wrapRaster(c.dc.Fill()))
}

// rectDevice is an axis-aligned device-space rectangle path.
func (c *Context) rectDevice(x, y, w, h float64) *gg.Path {
	p := gg.NewPath()
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}
