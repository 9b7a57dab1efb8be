// Package text lays out and draws text nodes: adaptive font sizing,
// per-character wrapping driven by live glyph metrics, alignment, box
// decoration and highlight overlays.
package text

import (
	"context"
	"math"
	"strings"

	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// DefaultFamily is used when a text style names no font family.
const DefaultFamily = "sans-serif"

const defaultColor = "#000000"

// Text is a laid-out text node.
type Text struct {
	node.Base
	data *scene.Text

	font  surface.Font
	lines []line
	hl    *highlighter
}

// New wraps a cloned text description. Flow-positioned text ignores align
// and verticalAlign.
func New(data *scene.Text, flowed bool) *Text {
	t := &Text{data: data}
	t.Name = data.Label()
	t.Flowed = flowed
	return t
}

// Font returns the resolved font. Valid after Layout.
func (t *Text) Font() surface.Font { return t.font }

// Lines returns the wrapped content, one string per line. Valid after Layout.
func (t *Text) Lines() []string {
	out := make([]string, len(t.lines))
	for i, l := range t.lines {
		var b strings.Builder
		for _, g := range l.glyphs {
			b.WriteRune(g.r)
		}
		out[i] = b.String()
	}
	return out
}

func (t *Text) Layout(ctx context.Context, env *node.Env, parent node.Box) error {
	t.Parent = parent
	st := &t.data.Style
	x, y := node.Coord(t.data.X), node.Coord(t.data.Y)

	// Without an explicit width the text may run to the parent's right edge.
	maxWidth := parent.X2 - x
	if t.data.Width != nil {
		maxWidth = *t.data.Width
	}
	family := st.FontFamily
	if family == "" {
		family = DefaultFamily
	}
	t.font = surface.Font{
		Family: family,
		Size:   FontSize(st.FontSize, t.data.Content, maxWidth, st.LetterGap),
		Bold:   st.FontWeight.Bold(),
	}

	glyphs, em, err := t.measure(env.Canvas)
	if err != nil {
		return err
	}
	t.lines = wrap(glyphs, maxWidth, st.LetterGap, em)

	widest := 0.0
	for _, l := range t.lines {
		widest = math.Max(widest, l.width)
	}
	var dy float64
	if !t.Flowed {
		alignWidth := widest
		if t.data.Width != nil {
			alignWidth = *t.data.Width
		}
		for i := range t.lines {
			switch st.Align {
			case scene.AlignCenter:
				t.lines[i].offset = (alignWidth - t.lines[i].width) / 2
			case scene.AlignRight:
				t.lines[i].offset = alignWidth - t.lines[i].width
			}
		}
		if t.data.Height != nil {
			block := blockHeight(t.lines, st.LineGap)
			switch {
			case st.VerticalAlign.Centered():
				dy = (*t.data.Height - block) / 2
			case st.VerticalAlign == scene.VerticalBottom:
				dy = *t.data.Height - block
			}
		}
	}
	stack(t.lines, y+dy, st.LineGap)
	place(t.lines, x, st.LetterGap)

	t.hl = nil
	if hs := st.Highlight; hs != nil {
		if err := hs.Validate(t.Name); err != nil {
			return err
		}
		hl, err := newHighlighter(ctx, env, hs, t.data.Content, t.lines)
		if err != nil {
			return err
		}
		t.hl = hl
	}

	t.Resolve(t.inkBox(x, widest))
	env.Logger.Debug("text laid out", "node", t.Name, "lines", len(t.lines), "size", t.font.Size)
	return nil
}

// inkBox spans the glyphs: from the first glyph's left edge and the first
// line's ascent to the last glyph's descent, the widest line across, grown
// outward by the padding.
func (t *Text) inkBox(x, widest float64) node.Box {
	pad := t.data.Style.Padding
	first, last := &t.lines[0], &t.lines[len(t.lines)-1]
	x1 := x + first.offset - pad.X
	descent := last.descent
	if n := len(last.glyphs); n > 0 {
		descent = last.glyphs[n-1].m.ActualDescent
	}
	return node.Box{
		X1: x1,
		Y1: first.baseline - first.ascent - pad.Y,
		X2: x1 + widest + 2*pad.X,
		Y2: last.baseline + descent + pad.Y,
	}
}

// pivot is the rotation center: the declared box when both dimensions are
// given, otherwise the laid-out box.
func (t *Text) pivot() node.Box {
	if t.data.Width != nil && t.data.Height != nil {
		return node.Rect(node.Coord(t.data.X), node.Coord(t.data.Y), *t.data.Width, *t.data.Height)
	}
	return t.Box
}

// measure sets the font and measures every rune of the content, plus the
// em metrics of the font for empty lines.
func (t *Text) measure(c surface.Context2D) ([]glyph, surface.TextMetrics, error) {
	var (
		glyphs []glyph
		em     surface.TextMetrics
	)
	err := node.Scoped(c, func() error {
		c.SetFont(t.font)
		em = c.MeasureText("")
		i := 0
		for _, r := range t.data.Content {
			g := glyph{r: r, index: i}
			if r != '\n' {
				g.m = c.MeasureText(string(r))
			}
			glyphs = append(glyphs, g)
			i++
		}
		return nil
	})
	return glyphs, em, err
}

func (t *Text) Draw(ctx context.Context, env *node.Env) error {
	if _, err := t.Bounds(); err != nil {
		return err
	}
	c := env.Canvas
	st := &t.data.Style
	return node.Scoped(c, func() error {
		node.RotateAbout(c, t.data.Rotate, t.pivot())
		t.drawBackground(c)

		c.SetFont(t.font)
		color := st.Color
		if color == "" {
			color = defaultColor
		}
		if t.hl != nil {
			t.hl.drawOverlays(c)
			t.hl.drawGlyphs(c, t.lines, color)
		}
		for _, l := range t.lines {
			for _, g := range l.glyphs {
				if t.hl != nil && t.hl.owns(g.index) {
					continue
				}
				t.drawGlyph(c, string(g.r), g.x, l.baseline, color)
			}
		}
		return nil
	})
}

// drawGlyph fills one glyph and strokes its outline when the style has a
// border.
func (t *Text) drawGlyph(c surface.Context2D, s string, x, y float64, color string) {
	c.SetFillStyle(color)
	c.FillText(s, x, y)
	bd := t.data.Style.Border
	if bd == nil {
		return
	}
	w := bd.Width
	if w <= 0 {
		w = 1
	}
	c.Save()
	c.SetLineWidth(w)
	c.SetStrokeStyle(bd.Color)
	c.StrokeText(s, x, y)
	c.Restore()
}

// drawBackground fills the laid-out box behind the glyphs.
func (t *Text) drawBackground(c surface.Context2D) {
	st := &t.data.Style
	if st.BackgroundColor == "" {
		return
	}
	b := t.Box
	c.SetFillStyle(st.BackgroundColor)
	c.BeginPath()
	node.RoundedRect(c, b.X1, b.Y1, b.Width(), b.Height(), st.BorderRadius, st.BorderRadius)
	c.Fill()
}

func (t *Text) Move(ctx context.Context, env *node.Env, x, y float64) error {
	t.data.X, t.data.Y = &x, &y
	return t.Layout(ctx, env, t.Parent)
}
