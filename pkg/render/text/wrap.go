package text

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// glyph is one measured rune of the content.
type glyph struct {
	r     rune
	index int // rune index in the content
	m     surface.TextMetrics
	x     float64 // absolute, set by place
}

// bound is the ink height of the glyph.
func (g *glyph) bound() float64 { return g.m.ActualAscent + g.m.ActualDescent }

// line is a wrapped run of glyphs with its vertical metrics.
type line struct {
	glyphs []glyph
	width  float64

	// Ink extents: the tallest ascent and the tallest glyph of the line.
	ascent, descent float64
	bound           float64

	baseline float64 // absolute, set by stack
	offset   float64 // alignment shift
}

// FontSize resolves a font size. An adaptive range assumes uniform glyph
// widths: clamp((width - (n-1)*gap) / n, min, max) for n runes.
func FontSize(fs scene.FontSize, content string, width, gap float64) float64 {
	if !fs.Adaptive {
		return fs.Value
	}
	n := float64(utf8.RuneCountInString(content))
	if n == 0 {
		return fs.Min
	}
	return math.Max(fs.Min, math.Min(fs.Max, (width-(n-1)*gap)/n))
}

// runWidth is the width of gs laid out with gap between glyphs.
func runWidth(gs []glyph, gap float64) float64 {
	if len(gs) == 0 {
		return 0
	}
	w := 0.0
	for _, g := range gs {
		w += g.m.Width
	}
	return w + float64(len(gs)-1)*gap
}

// wrap breaks measured glyphs into lines. A glyph starts a new line when the
// current line's width plus the glyph's own width exceeds maxWidth; the gap
// in front of the incoming glyph is not counted. Every line holds at least
// one glyph. A '\n' glyph forces a break and is dropped. em supplies the
// metrics of empty lines.
func wrap(gs []glyph, maxWidth, gap float64, em surface.TextMetrics) []line {
	var (
		lines []line
		cur   []glyph
	)
	flush := func() {
		lines = append(lines, newLine(cur, gap, em))
		cur = nil
	}
	for _, g := range gs {
		if g.r == '\n' {
			flush()
			continue
		}
		if len(cur) > 0 && runWidth(cur, gap)+g.m.Width > maxWidth {
			flush()
		}
		cur = append(cur, g)
	}
	flush()
	return lines
}

func newLine(gs []glyph, gap float64, em surface.TextMetrics) line {
	l := line{glyphs: gs, width: runWidth(gs, gap)}
	if len(gs) == 0 {
		l.ascent, l.descent = em.EmAscent, em.EmDescent
		l.bound = em.EmAscent + em.EmDescent
		return l
	}
	for i := range gs {
		l.ascent = math.Max(l.ascent, gs[i].m.ActualAscent)
		l.descent = math.Max(l.descent, gs[i].m.ActualDescent)
		l.bound = math.Max(l.bound, gs[i].bound())
	}
	return l
}

// blockHeight is the height used for vertical alignment: the sum of the
// lines' ink heights plus the gaps between them.
func blockHeight(lines []line, lineGap float64) float64 {
	h := 0.0
	for _, l := range lines {
		h += l.bound
	}
	return h + float64(len(lines)-1)*lineGap
}

// stack assigns baselines starting at top. Each baseline sits one ascent
// below the previous one, plus lineGap after the first line.
func stack(lines []line, top, lineGap float64) {
	y := top
	for i := range lines {
		if i > 0 {
			y += lineGap
		}
		y += lines[i].ascent
		lines[i].baseline = y
	}
}

// place sets the absolute x of every glyph, starting each line at originX
// plus its alignment offset.
func place(lines []line, originX, gap float64) {
	for i := range lines {
		x := originX + lines[i].offset
		for j := range lines[i].glyphs {
			lines[i].glyphs[j].x = x
			x += lines[i].glyphs[j].m.Width + gap
		}
	}
}
