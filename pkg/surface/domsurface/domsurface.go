//go:build js && wasm

// Package domsurface is a surface.Host that draws on HTML canvas elements
// when the renderer runs as WebAssembly in a browser page.
package domsurface

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"syscall/js"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// Host creates off-document canvas elements. If Canvas is set, the first
// surface reuses that element so the result appears in the page.
type Host struct {
	Canvas js.Value
}

func New() *Host { return &Host{} }

func (h *Host) NewSurface(width, height int) (surface.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidScene, "canvas size %dx%d out of range", width, height)
	}
	el := h.Canvas
	if el.IsUndefined() || el.IsNull() || !el.Truthy() {
		el = js.Global().Get("document").Call("createElement", "canvas")
	}
	el.Set("width", width)
	el.Set("height", height)
	ctx := el.Call("getContext", "2d")
	if !ctx.Truthy() {
		return nil, errs.New(errs.ErrCodeUnsupported, "2d context unavailable")
	}
	return &Surface{el: el, ctx: &Context{v: ctx}, w: width, h: height}, nil
}

// LoadImage waits for an HTMLImageElement to load src.
func (h *Host) LoadImage(ctx context.Context, src string) (surface.Bitmap, error) {
	img := js.Global().Get("Image").New()
	img.Set("crossOrigin", "anonymous")
	done := make(chan error, 1)
	onload := js.FuncOf(func(js.Value, []js.Value) any {
		done <- nil
		return nil
	})
	onerror := js.FuncOf(func(js.Value, []js.Value) any {
		done <- errs.New(errs.ErrCodeImageLoad, "load %s", src)
		return nil
	})
	defer onload.Release()
	defer onerror.Release()
	img.Set("onload", onload)
	img.Set("onerror", onerror)
	img.Set("src", src)

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		img.Set("src", "")
		return nil, ctx.Err()
	}
	return &Bitmap{v: img, w: img.Get("naturalWidth").Int(), h: img.Get("naturalHeight").Int()}, nil
}

// Bitmap wraps a loaded image element.
type Bitmap struct {
	v    js.Value
	w, h int
}

func (b *Bitmap) Width() int  { return b.w }
func (b *Bitmap) Height() int { return b.h }

// Surface wraps a canvas element.
type Surface struct {
	el   js.Value
	ctx  *Context
	w, h int
}

func (s *Surface) Width() int                 { return s.w }
func (s *Surface) Height() int                { return s.h }
func (s *Surface) Context() surface.Context2D { return s.ctx }

// Element returns the underlying canvas element.
func (s *Surface) Element() js.Value { return s.el }

// Encode reads the canvas back through toDataURL.
func (s *Surface) Encode(w io.Writer, format string, quality int) error {
	if err := errs.ValidateFormat(format); err != nil {
		return err
	}
	mime := "image/png"
	var url js.Value
	if format == surface.PNG {
		url = s.el.Call("toDataURL", mime)
	} else {
		if err := errs.ValidateQuality(quality); err != nil {
			return err
		}
		mime = "image/jpeg"
		url = s.el.Call("toDataURL", mime, float64(quality)/100)
	}
	_, payload, ok := strings.Cut(url.String(), ",")
	if !ok {
		return errs.New(errs.ErrCodeEncode, "canvas returned no %s data", format)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return errs.Wrap(errs.ErrCodeEncode, err, "decode %s data URL", format)
	}
	if _, err := w.Write(data); err != nil {
		return errs.Wrap(errs.ErrCodeEncode, err, "write %s", format)
	}
	return nil
}

// Context forwards every call to a CanvasRenderingContext2D. The browser
// validates styles itself, so Err only reports bitmaps from another host.
type Context struct {
	v   js.Value
	err error
}

func (c *Context) Err() error { return c.err }

func (c *Context) Save()    { c.v.Call("save") }
func (c *Context) Restore() { c.v.Call("restore") }

func (c *Context) Translate(x, y float64) { c.v.Call("translate", x, y) }
func (c *Context) Rotate(r float64)       { c.v.Call("rotate", r) }
func (c *Context) Scale(x, y float64)     { c.v.Call("scale", x, y) }

func (c *Context) SetFillStyle(s string)       { c.v.Set("fillStyle", s) }
func (c *Context) SetStrokeStyle(s string)     { c.v.Set("strokeStyle", s) }
func (c *Context) SetLineWidth(w float64)      { c.v.Set("lineWidth", w) }
func (c *Context) SetLineCap(s string)         { c.v.Set("lineCap", s) }
func (c *Context) SetLineJoin(s string)        { c.v.Set("lineJoin", s) }
func (c *Context) SetMiterLimit(l float64)     { c.v.Set("miterLimit", l) }
func (c *Context) SetLineDashOffset(o float64) { c.v.Set("lineDashOffset", o) }
func (c *Context) SetGlobalAlpha(a float64)    { c.v.Set("globalAlpha", a) }
func (c *Context) SetLineDash(segs []float64) {
	arr := make([]any, len(segs))
	for i, v := range segs {
		arr[i] = v
	}
	c.v.Call("setLineDash", js.ValueOf(arr))
}

func (c *Context) SetShadow(s surface.Shadow) {
	color := s.Color
	if !s.Enabled() {
		color = "transparent"
	}
	c.v.Set("shadowColor", color)
	c.v.Set("shadowBlur", s.Blur)
	c.v.Set("shadowOffsetX", s.OffsetX)
	c.v.Set("shadowOffsetY", s.OffsetY)
}

func (c *Context) SetFont(f surface.Font) { c.v.Set("font", CSSFont(f)) }

func (c *Context) BeginPath()          { c.v.Call("beginPath") }
func (c *Context) ClosePath()          { c.v.Call("closePath") }
func (c *Context) MoveTo(x, y float64) { c.v.Call("moveTo", x, y) }
func (c *Context) LineTo(x, y float64) { c.v.Call("lineTo", x, y) }
func (c *Context) Rect(x, y, w, h float64) {
	c.v.Call("rect", x, y, w, h)
}
func (c *Context) Arc(x, y, r, start, end float64, ccw bool) {
	c.v.Call("arc", x, y, r, start, end, ccw)
}
func (c *Context) ArcTo(x1, y1, x2, y2, r float64) {
	c.v.Call("arcTo", x1, y1, x2, y2, r)
}
func (c *Context) Ellipse(x, y, rx, ry, rot, start, end float64, ccw bool) {
	c.v.Call("ellipse", x, y, rx, ry, rot, start, end, ccw)
}
func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	c.v.Call("quadraticCurveTo", cpx, cpy, x, y)
}
func (c *Context) BezierCurveTo(a, b, cc, d, x, y float64) {
	c.v.Call("bezierCurveTo", a, b, cc, d, x, y)
}

func (c *Context) Fill()   { c.v.Call("fill") }
func (c *Context) Stroke() { c.v.Call("stroke") }
func (c *Context) Clip()   { c.v.Call("clip") }

func (c *Context) FillRect(x, y, w, h float64)   { c.v.Call("fillRect", x, y, w, h) }
func (c *Context) StrokeRect(x, y, w, h float64) { c.v.Call("strokeRect", x, y, w, h) }
func (c *Context) ClearRect(x, y, w, h float64)  { c.v.Call("clearRect", x, y, w, h) }

func (c *Context) FillText(s string, x, y float64) {
	c.v.Set("textBaseline", "alphabetic")
	c.v.Call("fillText", s, x, y)
}

func (c *Context) StrokeText(s string, x, y float64) {
	c.v.Set("textBaseline", "alphabetic")
	c.v.Call("strokeText", s, x, y)
}

func (c *Context) MeasureText(s string) surface.TextMetrics {
	m := c.v.Call("measureText", s)
	return surface.TextMetrics{
		Width:         m.Get("width").Float(),
		ActualAscent:  m.Get("actualBoundingBoxAscent").Float(),
		ActualDescent: m.Get("actualBoundingBoxDescent").Float(),
		EmAscent:      floatOr(m.Get("fontBoundingBoxAscent"), m.Get("actualBoundingBoxAscent")),
		EmDescent:     floatOr(m.Get("fontBoundingBoxDescent"), m.Get("actualBoundingBoxDescent")),
	}
}

func (c *Context) DrawImage(b surface.Bitmap, dx, dy, dw, dh float64) {
	if bm, ok := c.bitmap(b); ok {
		c.v.Call("drawImage", bm.v, dx, dy, dw, dh)
	}
}

func (c *Context) DrawImageRegion(b surface.Bitmap, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if bm, ok := c.bitmap(b); ok {
		c.v.Call("drawImage", bm.v, sx, sy, sw, sh, dx, dy, dw, dh)
	}
}

func (c *Context) bitmap(b surface.Bitmap) (*Bitmap, bool) {
	bm, ok := b.(*Bitmap)
	if !ok && c.err == nil {
		c.err = errs.New(errs.ErrCodeUnsupported, "drawImage: bitmap %T not created by this host", b)
	}
	return bm, ok
}

// floatOr reads v, falling back to alt on engines without font box metrics.
func floatOr(v, alt js.Value) float64 {
	if v.Type() == js.TypeNumber {
		return v.Float()
	}
	return alt.Float()
}

var (
	_ surface.Host      = (*Host)(nil)
	_ surface.Surface   = (*Surface)(nil)
	_ surface.Context2D = (*Context)(nil)
)
