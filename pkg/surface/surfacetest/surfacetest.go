// Package surfacetest provides a deterministic in-memory surface.Host for
// tests. Glyph metrics are synthetic and every context call is recorded
// together with the drawing state at the time of the call.
package surfacetest

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// Default synthetic metrics, as fractions of the font size.
const (
	AdvanceRatio = 0.5
	AscentRatio  = 0.8
	DescentRatio = 0.2
)

// Host is a fake surface.Host.
type Host struct {
	// Images maps a source to the natural size of the bitmap it loads.
	Images map[string][2]int
	// Advance overrides the per-rune width. Nil means size*AdvanceRatio.
	Advance func(r rune, size float64) float64

	mu       sync.Mutex
	surfaces []*Surface
	loads    []string
}

// NewHost returns a Host with no registered images.
func NewHost() *Host {
	return &Host{Images: map[string][2]int{}}
}

// AddImage registers a bitmap source.
func (h *Host) AddImage(src string, w, ht int) *Host {
	h.Images[src] = [2]int{w, ht}
	return h
}

func (h *Host) NewSurface(width, height int) (surface.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "surface size %dx%d", width, height)
	}
	s := &Surface{w: width, h: height}
	s.ctx = &Context{host: h, state: defaultState()}
	h.mu.Lock()
	h.surfaces = append(h.surfaces, s)
	h.mu.Unlock()
	return s, nil
}

func (h *Host) LoadImage(_ context.Context, src string) (surface.Bitmap, error) {
	h.mu.Lock()
	h.loads = append(h.loads, src)
	h.mu.Unlock()
	size, ok := h.Images[src]
	if !ok {
		return nil, errs.New(errs.ErrCodeImageLoad, "load %s: not found", src)
	}
	return &Bitmap{Src: src, W: size[0], H: size[1]}, nil
}

// Loads returns every source passed to LoadImage, in order.
func (h *Host) Loads() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.loads...)
}

// Last returns the most recently created surface, or nil.
func (h *Host) Last() *Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.surfaces) == 0 {
		return nil
	}
	return h.surfaces[len(h.surfaces)-1]
}

func (h *Host) advance(r rune, size float64) float64 {
	if h.Advance != nil {
		return h.Advance(r, size)
	}
	return size * AdvanceRatio
}

// Bitmap is a fake decoded image.
type Bitmap struct {
	Src  string
	W, H int
}

func (b *Bitmap) Width() int  { return b.W }
func (b *Bitmap) Height() int { return b.H }

// Surface records the calls made on its context.
type Surface struct {
	w, h int
	ctx  *Context
}

func (s *Surface) Width() int                 { return s.w }
func (s *Surface) Height() int                { return s.h }
func (s *Surface) Context() surface.Context2D { return s.ctx }

// Calls returns the recorded context calls.
func (s *Surface) Calls() []Call { return s.ctx.calls }

// Named returns the recorded calls with the given name.
func (s *Surface) Named(name string) []Call {
	var out []Call
	for _, c := range s.ctx.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the names of all recorded calls, in order.
func (s *Surface) Names() []string {
	out := make([]string, len(s.ctx.calls))
	for i, c := range s.ctx.calls {
		out[i] = c.Name
	}
	return out
}

// Encode writes a textual dump of the call log. Identical call sequences
// produce identical bytes.
func (s *Surface) Encode(w io.Writer, format string, quality int) error {
	if err := errs.ValidateFormat(format); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %d %dx%d\n", format, quality, s.w, s.h); err != nil {
		return errs.Wrap(errs.ErrCodeEncode, err, "encode")
	}
	for _, c := range s.ctx.calls {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return errs.Wrap(errs.ErrCodeEncode, err, "encode")
		}
	}
	return nil
}

// State is the drawing state captured with each call.
type State struct {
	FillStyle   string
	StrokeStyle string
	LineWidth   float64
	LineCap     string
	LineJoin    string
	MiterLimit  float64
	LineDash    []float64
	DashOffset  float64
	GlobalAlpha float64
	Shadow      surface.Shadow
	Font        surface.Font
	// Matrix is the current transform as a, b, c, d, e, f in canvas order.
	Matrix [6]float64
}

func defaultState() State {
	return State{
		FillStyle:   "#000000",
		StrokeStyle: "#000000",
		LineWidth:   1,
		LineCap:     surface.CapButt,
		LineJoin:    surface.JoinMiter,
		MiterLimit:  10,
		GlobalAlpha: 1,
		Font:        surface.Font{Family: "sans-serif", Size: 10},
		Matrix:      [6]float64{1, 0, 0, 1, 0, 0},
	}
}

// Apply maps a user-space point through the state's transform.
func (s State) Apply(x, y float64) (float64, float64) {
	m := s.Matrix
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Call is one recorded context call.
type Call struct {
	Name  string
	Args  []float64
	Text  string
	State State
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprintf("%g", a)
	}
	if c.Text != "" {
		args = append([]string{fmt.Sprintf("%q", c.Text)}, args...)
	}
	return fmt.Sprintf("%s(%s) fill=%s stroke=%s lw=%g alpha=%g",
		c.Name, strings.Join(args, ","), c.State.FillStyle, c.State.StrokeStyle, c.State.LineWidth, c.State.GlobalAlpha)
}

// Context is a recording surface.Context2D.
type Context struct {
	host  *Host
	state State
	stack []State
	calls []Call
	err   error
}

func (c *Context) record(name string, args ...float64) {
	st := c.state
	st.LineDash = append([]float64(nil), c.state.LineDash...)
	c.calls = append(c.calls, Call{Name: name, Args: args, State: st})
}

func (c *Context) recordText(name, text string, args ...float64) {
	c.record(name, args...)
	c.calls[len(c.calls)-1].Text = text
}

// Depth returns the number of unmatched Save calls.
func (c *Context) Depth() int { return len(c.stack) }

func (c *Context) Save() {
	c.stack = append(c.stack, c.state)
	c.record("save")
}

func (c *Context) Restore() {
	if len(c.stack) == 0 {
		c.record("restore")
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.record("restore")
}

func (c *Context) Translate(x, y float64) {
	m := c.state.Matrix
	m[4] += m[0]*x + m[2]*y
	m[5] += m[1]*x + m[3]*y
	c.state.Matrix = m
	c.record("translate", x, y)
}

func (c *Context) Rotate(rad float64) {
	m := c.state.Matrix
	sin, cos := math.Sincos(rad)
	c.state.Matrix = [6]float64{
		m[0]*cos + m[2]*sin, m[1]*cos + m[3]*sin,
		m[2]*cos - m[0]*sin, m[3]*cos - m[1]*sin,
		m[4], m[5],
	}
	c.record("rotate", rad)
}

func (c *Context) Scale(sx, sy float64) {
	m := c.state.Matrix
	c.state.Matrix = [6]float64{m[0] * sx, m[1] * sx, m[2] * sy, m[3] * sy, m[4], m[5]}
	c.record("scale", sx, sy)
}

func (c *Context) SetFillStyle(color string) {
	if color == "invalid" {
		c.fail(errs.New(errs.ErrCodeInvalidInput, "invalid color %q", color))
		return
	}
	c.state.FillStyle = color
}

func (c *Context) SetStrokeStyle(color string) {
	if color == "invalid" {
		c.fail(errs.New(errs.ErrCodeInvalidInput, "invalid color %q", color))
		return
	}
	c.state.StrokeStyle = color
}

func (c *Context) SetLineWidth(w float64)        { c.state.LineWidth = w }
func (c *Context) SetLineCap(v string)           { c.state.LineCap = v }
func (c *Context) SetLineJoin(v string)          { c.state.LineJoin = v }
func (c *Context) SetMiterLimit(l float64)       { c.state.MiterLimit = l }
func (c *Context) SetLineDash(seg []float64)     { c.state.LineDash = append([]float64(nil), seg...) }
func (c *Context) SetLineDashOffset(o float64)   { c.state.DashOffset = o }
func (c *Context) SetGlobalAlpha(a float64)      { c.state.GlobalAlpha = a }
func (c *Context) SetShadow(s surface.Shadow)    { c.state.Shadow = s }
func (c *Context) SetFont(f surface.Font)        { c.state.Font = f }
func (c *Context) BeginPath()                    { c.record("beginPath") }
func (c *Context) ClosePath()                    { c.record("closePath") }
func (c *Context) MoveTo(x, y float64)           { c.record("moveTo", x, y) }
func (c *Context) LineTo(x, y float64)           { c.record("lineTo", x, y) }
func (c *Context) Rect(x, y, w, h float64)       { c.record("rect", x, y, w, h) }
func (c *Context) Fill()                         { c.record("fill") }
func (c *Context) Stroke()                       { c.record("stroke") }
func (c *Context) Clip()                         { c.record("clip") }
func (c *Context) FillRect(x, y, w, h float64)   { c.record("fillRect", x, y, w, h) }
func (c *Context) StrokeRect(x, y, w, h float64) { c.record("strokeRect", x, y, w, h) }
func (c *Context) ClearRect(x, y, w, h float64)  { c.record("clearRect", x, y, w, h) }

func (c *Context) Arc(x, y, r, start, end float64, ccw bool) {
	c.record("arc", x, y, r, start, end, b2f(ccw))
}

func (c *Context) ArcTo(x1, y1, x2, y2, r float64) {
	c.record("arcTo", x1, y1, x2, y2, r)
}

func (c *Context) Ellipse(x, y, rx, ry, rot, start, end float64, ccw bool) {
	c.record("ellipse", x, y, rx, ry, rot, start, end, b2f(ccw))
}

func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	c.record("quadraticCurveTo", cpx, cpy, x, y)
}

func (c *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	c.record("bezierCurveTo", cp1x, cp1y, cp2x, cp2y, x, y)
}

func (c *Context) FillText(s string, x, y float64) {
	c.recordText("fillText", s, x, y)
}

func (c *Context) StrokeText(s string, x, y float64) {
	c.recordText("strokeText", s, x, y)
}

// MeasureText returns synthetic metrics: every rune advances by the host's
// advance function, ink and em boxes are AscentRatio/DescentRatio of the size.
// A space has no ink.
func (c *Context) MeasureText(s string) surface.TextMetrics {
	size := c.state.Font.Size
	var w float64
	for _, r := range s {
		w += c.host.advance(r, size)
	}
	m := surface.TextMetrics{
		Width:     w,
		EmAscent:  size * AscentRatio,
		EmDescent: size * DescentRatio,
	}
	if strings.TrimSpace(s) != "" || utf8.RuneCountInString(s) == 0 {
		m.ActualAscent = m.EmAscent
		m.ActualDescent = m.EmDescent
	}
	return m
}

func (c *Context) DrawImage(b surface.Bitmap, dx, dy, dw, dh float64) {
	c.recordText("drawImage", src(b), dx, dy, dw, dh)
}

func (c *Context) DrawImageRegion(b surface.Bitmap, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	c.recordText("drawImageRegion", src(b), sx, sy, sw, sh, dx, dy, dw, dh)
}

func (c *Context) Err() error { return c.err }

func (c *Context) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func src(b surface.Bitmap) string {
	if fb, ok := b.(*Bitmap); ok {
		return fb.Src
	}
	return fmt.Sprintf("%T", b)
}

func b2f(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
