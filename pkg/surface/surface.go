// Package surface defines the drawing-surface capability the renderer drives.
//
// A [Host] creates pixel surfaces and loads bitmaps. A [Surface] exposes a
// stateful [Context2D] modelled on the HTML canvas 2D context and encodes its
// pixels. Implementations live in subpackages:
//
//   - ggsurface: headless software rasterizer (server, CLI)
//   - domsurface: in-page canvas element (js/wasm)
//   - surfacetest: deterministic recording host for tests
//
// Context2D setters do not return errors. An implementation that cannot
// honor a call (an unparsable color, a failed rasterization) records the
// first such failure and reports it from Err, in the manner of bufio.Scanner.
package surface

import (
	"context"
	"io"
)

// Output formats understood by Surface.Encode.
const (
	PNG = "png"
	JPG = "jpg"
)

// Host is a drawing environment.
type Host interface {
	// NewSurface creates a transparent surface of the given pixel size.
	NewSurface(width, height int) (Surface, error)

	// LoadImage resolves a bitmap source: an http(s) URL, a data: URL or a
	// host-specific path.
	LoadImage(ctx context.Context, src string) (Bitmap, error)
}

// Surface is a pixel buffer with a single drawing context.
type Surface interface {
	Width() int
	Height() int
	Context() Context2D
	// Encode writes the surface as PNG or JPG. Quality applies to JPG only.
	Encode(w io.Writer, format string, quality int) error
}

// Bitmap is a decoded image with a natural size in pixels.
type Bitmap interface {
	Width() int
	Height() int
}

// Font selects a face for FillText and MeasureText.
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// TextMetrics mirrors the canvas TextMetrics fields the text layout needs.
// Ascent and descent values are positive distances from the baseline.
type TextMetrics struct {
	Width float64

	// Ink bounds of the measured glyphs.
	ActualAscent  float64
	ActualDescent float64

	// Em box of the font at its size.
	EmAscent  float64
	EmDescent float64
}

// Shadow describes the shadow applied to subsequent paint operations.
// A zero Shadow (or a transparent color) disables shadows.
type Shadow struct {
	Color   string
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Enabled reports whether painting with s produces a visible shadow.
func (s Shadow) Enabled() bool {
	return s.Color != "" && s.Color != "transparent" && (s.Blur > 0 || s.OffsetX != 0 || s.OffsetY != 0)
}

// Line cap and join values.
const (
	CapButt   = "butt"
	CapRound  = "round"
	CapSquare = "square"

	JoinMiter = "miter"
	JoinRound = "round"
	JoinBevel = "bevel"
)

// Context2D is a stateful 2D drawing context. Save pushes the full drawing
// state (transform, clip, styles, shadow, font); Restore pops it. The current
// path is not part of the saved state.
type Context2D interface {
	Save()
	Restore()

	Translate(x, y float64)
	Rotate(radians float64)
	Scale(sx, sy float64)

	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetLineWidth(w float64)
	SetLineCap(c string)
	SetLineJoin(j string)
	SetMiterLimit(l float64)
	SetLineDash(segments []float64)
	SetLineDashOffset(offset float64)
	SetGlobalAlpha(a float64)
	SetShadow(s Shadow)
	SetFont(f Font)

	BeginPath()
	ClosePath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	Arc(x, y, r, start, end float64, anticlockwise bool)
	ArcTo(x1, y1, x2, y2, r float64)
	Ellipse(x, y, rx, ry, rotation, start, end float64, anticlockwise bool)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)

	Fill()
	Stroke()
	Clip()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	ClearRect(x, y, w, h float64)

	// FillText draws s with its alphabetic baseline at y.
	FillText(s string, x, y float64)
	// StrokeText strokes the glyph outlines of s with the stroke style.
	StrokeText(s string, x, y float64)
	MeasureText(s string) TextMetrics

	// DrawImage scales the whole bitmap into the destination rectangle.
	DrawImage(b Bitmap, dx, dy, dw, dh float64)
	// DrawImageRegion scales the source rectangle of b into the destination.
	DrawImageRegion(b Bitmap, sx, sy, sw, sh, dx, dy, dw, dh float64)

	// Err returns the first failure recorded by the context, if any.
	Err() error
}
