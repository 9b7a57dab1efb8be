package ggsurface

import (
	"math"
	"slices"

	"github.com/gogpu/gg"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// state is everything Save/Restore brackets. gg's own Push/Pop only covers
// the clip, so paint state lives here.
type state struct {
	m          gg.Matrix
	fill       gg.RGBA
	stroke     gg.RGBA
	lineWidth  float64
	cap        string
	join       string
	miter      float64
	dash       []float64
	dashOffset float64
	alpha      float64
	shadow     surface.Shadow
	shadowRGBA gg.RGBA
	font       surface.Font
	clipped    bool
}

func defaultState() state {
	black := gg.RGBA{A: 1}
	return state{
		m:         gg.Identity(),
		fill:      black,
		stroke:    black,
		lineWidth: 1,
		cap:       surface.CapButt,
		join:      surface.JoinMiter,
		miter:     10,
		alpha:     1,
		font:      surface.Font{Family: "sans-serif", Size: 10},
	}
}

// Context implements surface.Context2D on a gg.Context. The gg transform
// stays at identity; points are mapped to device space as they are added.
type Context struct {
	host  *Host
	surf  *Surface
	dc    *gg.Context
	st    state
	stack []state
	path  *gg.Path
	err   error
}

func newContext(h *Host, s *Surface) *Context {
	return &Context{host: h, surf: s, dc: s.dc, st: defaultState(), path: gg.NewPath()}
}

func (c *Context) Err() error { return c.err }

func (c *Context) fail(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

func (c *Context) Save() {
	saved := c.st
	saved.dash = slices.Clone(c.st.dash)
	c.stack = append(c.stack, saved)
	c.dc.Push()
}

func (c *Context) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.dc.Pop()
}

// =============================================================================
// Transform
// =============================================================================

func (c *Context) Translate(x, y float64) { c.st.m = c.st.m.Multiply(gg.Translate(x, y)) }
func (c *Context) Rotate(rad float64)     { c.st.m = c.st.m.Multiply(gg.Rotate(rad)) }
func (c *Context) Scale(sx, sy float64)   { c.st.m = c.st.m.Multiply(gg.Scale(sx, sy)) }

func (c *Context) pt(x, y float64) gg.Point {
	return c.st.m.TransformPoint(gg.Pt(x, y))
}

// scale is the factor the transform applies to lengths such as line widths.
func (c *Context) scale() float64 {
	m := c.st.m
	return math.Sqrt(math.Abs(m.A*m.E - m.B*m.D))
}

// =============================================================================
// Styles
// =============================================================================

func (c *Context) color(kind, s string) (gg.RGBA, bool) {
	col, ok := ParseColor(s)
	if !ok {
		c.fail(errs.New(errs.ErrCodeInvalidInput, "%s: invalid color %q", kind, s))
	}
	return col, ok
}

func (c *Context) SetFillStyle(s string) {
	if col, ok := c.color("fillStyle", s); ok {
		c.st.fill = col
	}
}

func (c *Context) SetStrokeStyle(s string) {
	if col, ok := c.color("strokeStyle", s); ok {
		c.st.stroke = col
	}
}

func (c *Context) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		c.st.lineWidth = w
	}
}

func (c *Context) SetLineCap(v string) {
	switch v {
	case surface.CapButt, surface.CapRound, surface.CapSquare:
		c.st.cap = v
	}
}

func (c *Context) SetLineJoin(v string) {
	switch v {
	case surface.JoinMiter, surface.JoinRound, surface.JoinBevel:
		c.st.join = v
	}
}

func (c *Context) SetMiterLimit(l float64) {
	if l > 0 {
		c.st.miter = l
	}
}

// SetLineDash follows canvas rules: negative entries reject the call and an
// odd-length list is repeated.
func (c *Context) SetLineDash(seg []float64) {
	for _, v := range seg {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	if len(seg)%2 == 1 {
		seg = append(slices.Clone(seg), seg...)
	}
	c.st.dash = slices.Clone(seg)
}

func (c *Context) SetLineDashOffset(o float64) { c.st.dashOffset = o }

func (c *Context) SetGlobalAlpha(a float64) {
	if a >= 0 && a <= 1 {
		c.st.alpha = a
	}
}

func (c *Context) SetShadow(s surface.Shadow) {
	c.st.shadow = s
	c.st.shadowRGBA = gg.Transparent
	if s.Enabled() {
		if col, ok := c.color("shadowColor", s.Color); ok {
			c.st.shadowRGBA = col
		}
	}
}

func (c *Context) SetFont(f surface.Font) { c.st.font = f }

// =============================================================================
// Path
// =============================================================================

func (c *Context) BeginPath() { c.path = gg.NewPath() }

func (c *Context) ClosePath() {
	if c.path.HasCurrentPoint() {
		c.path.Close()
	}
}

func (c *Context) MoveTo(x, y float64) {
	p := c.pt(x, y)
	c.path.MoveTo(p.X, p.Y)
}

func (c *Context) LineTo(x, y float64) {
	p := c.pt(x, y)
	if !c.path.HasCurrentPoint() {
		c.path.MoveTo(p.X, p.Y)
		return
	}
	c.path.LineTo(p.X, p.Y)
}

// ensure gives the path a current point, as canvas does for curves.
func (c *Context) ensure(x, y float64) {
	if !c.path.HasCurrentPoint() {
		c.MoveTo(x, y)
	}
}

func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	c.ensure(cpx, cpy)
	cp, p := c.pt(cpx, cpy), c.pt(x, y)
	c.path.QuadraticTo(cp.X, cp.Y, p.X, p.Y)
}

func (c *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	c.ensure(cp1x, cp1y)
	a, b, p := c.pt(cp1x, cp1y), c.pt(cp2x, cp2y), c.pt(x, y)
	c.path.CubicTo(a.X, a.Y, b.X, b.Y, p.X, p.Y)
}

func (c *Context) Rect(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.path.LineTo(c.pt(x+w, y).X, c.pt(x+w, y).Y)
	c.path.LineTo(c.pt(x+w, y+h).X, c.pt(x+w, y+h).Y)
	c.path.LineTo(c.pt(x, y+h).X, c.pt(x, y+h).Y)
	c.path.Close()
}

func (c *Context) Arc(x, y, r, start, end float64, ccw bool) {
	c.Ellipse(x, y, r, r, 0, start, end, ccw)
}

func (c *Context) Ellipse(x, y, rx, ry, rot, start, end float64, ccw bool) {
	if rx < 0 || ry < 0 {
		c.fail(errs.New(errs.ErrCodeInvalidInput, "ellipse: negative radius (%g, %g)", rx, ry))
		return
	}
	sweep := arcSweep(start, end, ccw)
	sp := ellipsePoint(x, y, rx, ry, rot, start)
	if c.path.HasCurrentPoint() {
		c.LineTo(sp.X, sp.Y)
	} else {
		c.MoveTo(sp.X, sp.Y)
	}
	for _, seg := range arcCubics(x, y, rx, ry, rot, start, sweep) {
		a, b, p := c.pt(seg[0].X, seg[0].Y), c.pt(seg[1].X, seg[1].Y), c.pt(seg[2].X, seg[2].Y)
		c.path.CubicTo(a.X, a.Y, b.X, b.Y, p.X, p.Y)
	}
}

func (c *Context) ArcTo(x1, y1, x2, y2, r float64) {
	if r < 0 {
		c.fail(errs.New(errs.ErrCodeInvalidInput, "arcTo: negative radius %g", r))
		return
	}
	if !c.path.HasCurrentPoint() {
		c.MoveTo(x1, y1)
	}
	cur := c.st.m.Invert().TransformPoint(c.path.CurrentPoint())
	a, ok := arcToGeometry(cur, gg.Pt(x1, y1), gg.Pt(x2, y2), r)
	if !ok {
		c.LineTo(x1, y1)
		return
	}
	c.Ellipse(a.center.X, a.center.Y, r, r, 0, a.start, a.end, a.ccw)
}

// =============================================================================
// Paint
// =============================================================================

func (c *Context) Fill() { c.fillPath(c.path) }

func (c *Context) Stroke() { c.strokePath(c.path) }

func (c *Context) Clip() {
	c.replay(c.dc, c.path)
	c.dc.Clip()
	c.st.clipped = true
}

func (c *Context) FillRect(x, y, w, h float64) { c.fillPath(c.rectPath(x, y, w, h)) }

func (c *Context) StrokeRect(x, y, w, h float64) { c.strokePath(c.rectPath(x, y, w, h)) }

// ClearRect makes the covered pixels transparent.
func (c *Context) ClearRect(x, y, w, h float64) {
	quad := [4]gg.Point{c.pt(x, y), c.pt(x+w, y), c.pt(x+w, y+h), c.pt(x, y+h)}
	minX, minY, maxX, maxY := bounds(quad[:])
	x0, y0 := max(0, int(math.Floor(minX))), max(0, int(math.Floor(minY)))
	x1, y1 := min(c.surf.w, int(math.Ceil(maxX))), min(c.surf.h, int(math.Ceil(maxY)))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			if inQuad(quad, gg.Pt(float64(px)+0.5, float64(py)+0.5)) {
				c.dc.SetPixel(px, py, gg.Transparent)
			}
		}
	}
}

func (c *Context) rectPath(x, y, w, h float64) *gg.Path {
	p := gg.NewPath()
	for i, q := range []gg.Point{c.pt(x, y), c.pt(x+w, y), c.pt(x+w, y+h), c.pt(x, y+h)} {
		if i == 0 {
			p.MoveTo(q.X, q.Y)
		} else {
			p.LineTo(q.X, q.Y)
		}
	}
	p.Close()
	return p
}

// replay copies a device-space path into dc, replacing its current path.
func (c *Context) replay(dc *gg.Context, p *gg.Path) {
	dc.ClearPath()
	p.Iterate(func(v gg.PathVerb, xy []float64) {
		switch v {
		case gg.MoveTo:
			dc.MoveTo(xy[0], xy[1])
		case gg.LineTo:
			dc.LineTo(xy[0], xy[1])
		case gg.QuadTo:
			dc.QuadraticTo(xy[0], xy[1], xy[2], xy[3])
		case gg.CubicTo:
			dc.CubicTo(xy[0], xy[1], xy[2], xy[3], xy[4], xy[5])
		case gg.Close:
			dc.ClosePath()
		}
	})
}

// paintable returns col with global alpha applied, or false when nothing
// would be visible.
func (c *Context) paintable(col gg.RGBA) (gg.RGBA, bool) {
	col.A *= c.st.alpha
	return col, col.A > 0
}

func (c *Context) fillPath(p *gg.Path) {
	col, ok := c.paintable(c.st.fill)
	if !ok || p.NumVerbs() == 0 {
		return
	}
	c.withShadow(func(dc *gg.Context) error {
		c.replay(dc, p)
		return dc.Fill()
	})
	c.dc.SetFillBrush(gg.Solid(col))
	c.replay(c.dc, p)
	c.fail(wrapRaster(c.dc.Fill()))
}

func (c *Context) strokePath(p *gg.Path) {
	col, ok := c.paintable(c.st.stroke)
	if !ok || p.NumVerbs() == 0 {
		return
	}
	c.withShadow(func(dc *gg.Context) error {
		c.applyStroke(dc)
		c.replay(dc, p)
		return dc.Stroke()
	})
	c.dc.SetStrokeBrush(gg.Solid(col))
	c.applyStroke(c.dc)
	c.replay(c.dc, p)
	c.fail(wrapRaster(c.dc.Stroke()))
}

func (c *Context) applyStroke(dc *gg.Context) {
	k := c.scale()
	dc.SetLineWidth(c.st.lineWidth * k)
	switch c.st.cap {
	case surface.CapRound:
		dc.SetLineCap(gg.LineCapRound)
	case surface.CapSquare:
		dc.SetLineCap(gg.LineCapSquare)
	default:
		dc.SetLineCap(gg.LineCapButt)
	}
	switch c.st.join {
	case surface.JoinRound:
		dc.SetLineJoin(gg.LineJoinRound)
	case surface.JoinBevel:
		dc.SetLineJoin(gg.LineJoinBevel)
	default:
		dc.SetLineJoin(gg.LineJoinMiter)
	}
	dc.SetMiterLimit(c.st.miter)
	if len(c.st.dash) == 0 || allZero(c.st.dash) {
		dc.ClearDash()
		return
	}
	dash := make([]float64, len(c.st.dash))
	for i, v := range c.st.dash {
		dash[i] = v * k
	}
	dc.SetDash(dash...)
	dc.SetDashOffset(c.st.dashOffset * k)
}

func wrapRaster(err error) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "rasterize")
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func bounds(pts []gg.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return
}

// inQuad reports whether p lies inside the convex quadrilateral q.
func inQuad(q [4]gg.Point, p gg.Point) bool {
	var sign float64
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

var _ surface.Context2D = (*Context)(nil)
