package text

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// highlighter decorates the first occurrence of a word. Underline, color and
// background decorate single glyphs and draw those glyphs themselves, before
// the normal glyph pass. Image overlays are drawn once per line underneath
// the glyphs.
type highlighter struct {
	style      *scene.Highlight
	start, end int // rune range [start, end) in the content
	bitmap     surface.Bitmap
	overlays   []node.Box
}

func newHighlighter(ctx context.Context, env *node.Env, hs *scene.Highlight, content string, lines []line) (*highlighter, error) {
	h := &highlighter{style: hs, start: -1}
	at := strings.Index(content, hs.Text)
	if hs.Text == "" || at < 0 {
		env.Logger.Debug("highlight not found", "text", hs.Text)
		return h, nil
	}
	h.start = utf8.RuneCountInString(content[:at])
	h.end = h.start + utf8.RuneCountInString(hs.Text)

	if hs.Type != scene.HighlightImage {
		return h, nil
	}
	bmp, err := env.Bitmap(ctx, hs.Image.URL)
	if err != nil {
		return nil, err
	}
	h.bitmap = bmp
	h.overlays = h.lineOverlays(lines)
	return h, nil
}

// lineOverlays computes one overlay box per line holding highlighted glyphs.
// An overlay is as wide as the highlighted glyphs without their gaps. It
// hangs below the baseline at the configured height, or with CoverText it
// covers the ink height of the line's first highlighted glyph.
func (h *highlighter) lineOverlays(lines []line) []node.Box {
	img := h.style.Image
	var out []node.Box
	for _, l := range lines {
		var (
			first *glyph
			width float64
		)
		for j := range l.glyphs {
			g := &l.glyphs[j]
			if !h.covers(g.index) {
				continue
			}
			if first == nil {
				first = g
			}
			width += g.m.Width
		}
		if first == nil {
			continue
		}
		top, height := l.baseline, img.Height
		if img.CoverText {
			top, height = l.baseline-first.bound(), first.bound()
		}
		top += img.Offset
		out = append(out, node.Box{X1: first.x, Y1: top, X2: first.x + width, Y2: top + height})
	}
	return out
}

func (h *highlighter) covers(i int) bool { return h.start >= 0 && i >= h.start && i < h.end }

// owns reports whether glyph i is drawn by the highlighter instead of the
// normal glyph pass.
func (h *highlighter) owns(i int) bool {
	return h.style.Type != scene.HighlightImage && h.covers(i)
}

func (h *highlighter) drawOverlays(c surface.Context2D) {
	if h.bitmap == nil {
		return
	}
	for _, b := range h.overlays {
		c.DrawImage(h.bitmap, b.X1, b.Y1, b.Width(), b.Height())
	}
}

// underlineWidth is the stroke width of underline highlights.
const underlineWidth = 8

// drawGlyphs draws the decorated glyphs for the per-character styles.
func (h *highlighter) drawGlyphs(c surface.Context2D, lines []line, color string) {
	if h.start < 0 || h.style.Type == scene.HighlightImage {
		return
	}
	for _, l := range lines {
		for _, g := range l.glyphs {
			if !h.covers(g.index) {
				continue
			}
			s := string(g.r)
			switch h.style.Type {
			case scene.HighlightColor:
				c.SetFillStyle(h.style.Color)
				c.FillText(s, g.x, l.baseline)
			case scene.HighlightUnderline:
				y := l.baseline + g.m.ActualDescent
				c.Save()
				c.SetStrokeStyle(h.style.Color)
				c.SetLineWidth(underlineWidth)
				c.BeginPath()
				c.MoveTo(g.x, y)
				c.LineTo(g.x+g.m.Width, y)
				c.Stroke()
				c.Restore()
				c.SetFillStyle(color)
				c.FillText(s, g.x, l.baseline)
			case scene.HighlightBackground:
				top := l.baseline - l.ascent
				half := (l.ascent + l.descent) / 2
				c.SetFillStyle(h.style.Color)
				c.FillRect(g.x, top+half, g.m.Width, half)
				c.SetFillStyle(color)
				c.FillText(s, g.x, l.baseline)
			}
		}
	}
}
