package ggsurface

import (
	"errors"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/canvasrender/pkg/surface"
)

func (c *Context) textFace() (*fontFace, text.Face, bool) {
	ff, err := c.host.face(c.st.font)
	if err != nil {
		c.fail(err)
		return nil, nil, false
	}
	size := c.st.font.Size
	if size <= 0 {
		size = 10
	}
	return ff, ff.src.Face(size), true
}

func (c *Context) MeasureText(s string) surface.TextMetrics {
	_, face, ok := c.textFace()
	if !ok {
		return surface.TextMetrics{}
	}
	m := face.Metrics()
	tm := surface.TextMetrics{
		Width:     face.Advance(s),
		EmAscent:  m.Ascent,
		EmDescent: m.Descent,
	}
	ascent, descent := math.Inf(-1), math.Inf(-1)
	for g := range face.Glyphs(s) {
		b := g.Bounds
		if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
			continue
		}
		ascent = math.Max(ascent, -(g.Y + b.MinY))
		descent = math.Max(descent, g.Y+b.MaxY)
	}
	if math.IsInf(ascent, -1) {
		// No ink: report the em box so empty and blank lines keep a height.
		tm.ActualAscent, tm.ActualDescent = m.Ascent, m.Descent
		return tm
	}
	tm.ActualAscent, tm.ActualDescent = ascent, descent
	return tm
}

// FillText fills the glyph outlines of s with the alphabetic baseline at y.
func (c *Context) FillText(s string, x, y float64) {
	ff, face, ok := c.textFace()
	if !ok || s == "" {
		return
	}
	p, err := c.glyphPath(ff, face, s, x, y)
	if err != nil {
		c.fail(err)
		return
	}
	c.fillPath(p)
}

// StrokeText strokes the glyph outlines of s with the alphabetic baseline at y.
func (c *Context) StrokeText(s string, x, y float64) {
	ff, face, ok := c.textFace()
	if !ok || s == "" {
		return
	}
	p, err := c.glyphPath(ff, face, s, x, y)
	if err != nil {
		c.fail(err)
		return
	}
	c.strokePath(p)
}

// glyphPath builds the device-space outline of s. sfnt outlines are y-down
// relative to each glyph origin, matching canvas coordinates.
func (c *Context) glyphPath(ff *fontFace, face text.Face, s string, x, y float64) (*gg.Path, error) {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(math.Round(face.Size() * 64))
	p := gg.NewPath()
	pt := func(ox, oy float64, v fixed.Point26_6) gg.Point {
		return c.pt(ox+float64(v.X)/64, oy+float64(v.Y)/64)
	}

	for g := range face.Glyphs(s) {
		segs, err := ff.sfnt.LoadGlyph(&buf, sfnt.GlyphIndex(g.GID), ppem, nil)
		if err != nil {
			if errors.Is(err, sfnt.ErrNotFound) || errors.Is(err, sfnt.ErrColoredGlyph) {
				continue
			}
			return nil, wrapRaster(err)
		}
		ox, oy := x+g.X, y+g.Y
		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					p.Close()
				}
				q := pt(ox, oy, seg.Args[0])
				p.MoveTo(q.X, q.Y)
				open = true
			case sfnt.SegmentOpLineTo:
				q := pt(ox, oy, seg.Args[0])
				p.LineTo(q.X, q.Y)
			case sfnt.SegmentOpQuadTo:
				a, q := pt(ox, oy, seg.Args[0]), pt(ox, oy, seg.Args[1])
				p.QuadraticTo(a.X, a.Y, q.X, q.Y)
			case sfnt.SegmentOpCubeTo:
				a, b, q := pt(ox, oy, seg.Args[0]), pt(ox, oy, seg.Args[1]), pt(ox, oy, seg.Args[2])
				p.CubicTo(a.X, a.Y, b.X, b.Y, q.X, q.Y)
			}
		}
		if open {
			p.Close()
		}
	}
	return p, nil
}
