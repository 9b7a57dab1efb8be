package ggsurface

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

func newSurface(t *testing.T, w, h int) (*Surface, *Context) {
	t.Helper()
	s, err := NewHost(nil, nil).NewSurface(w, h)
	require.NoError(t, err)
	gs := s.(*Surface)
	t.Cleanup(func() { _ = gs.Close() })
	return gs, gs.ctx
}

func pixel(s *Surface, x, y int) color.RGBA {
	return s.dc.Image().(*image.RGBA).RGBAAt(x, y)
}

func near(t *testing.T, got color.RGBA, want color.RGBA) {
	t.Helper()
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	if d(got.R, want.R) > 8 || d(got.G, want.G) > 8 || d(got.B, want.B) > 8 || d(got.A, want.A) > 8 {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
	none = color.RGBA{}
)

func pngBytes(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewSurfaceBounds(t *testing.T) {
	h := NewHost(nil, nil)
	for _, size := range [][2]int{{0, 10}, {10, -1}, {MaxSide + 1, 1}} {
		_, err := h.NewSurface(size[0], size[1])
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidScene), "size %v", size)
	}
}

func TestFillRectTransformed(t *testing.T) {
	s, c := newSurface(t, 20, 20)
	c.SetFillStyle("#ff0000")
	c.Save()
	c.Translate(10, 0)
	c.FillRect(0, 0, 10, 10)
	c.Restore()
	c.FillRect(0, 10, 5, 5)
	require.NoError(t, c.Err())

	near(t, pixel(s, 15, 5), red)
	near(t, pixel(s, 5, 5), none)
	near(t, pixel(s, 2, 12), red)
}

func TestClipAndRestore(t *testing.T) {
	s, c := newSurface(t, 20, 20)
	c.Save()
	c.BeginPath()
	c.Rect(0, 0, 10, 20)
	c.Clip()
	c.SetFillStyle("blue")
	c.FillRect(0, 0, 20, 20)
	c.Restore()

	near(t, pixel(s, 5, 5), blue)
	near(t, pixel(s, 15, 5), none)

	// Restore dropped both the clip and the fill style.
	c.FillRect(10, 10, 10, 10)
	near(t, pixel(s, 15, 15), color.RGBA{0, 0, 0, 255})
}

func TestGlobalAlpha(t *testing.T) {
	s, c := newSurface(t, 10, 10)
	c.SetGlobalAlpha(0.5)
	c.SetFillStyle("red")
	c.FillRect(0, 0, 10, 10)
	assert.InDelta(t, 128, int(pixel(s, 5, 5).A), 8)
}

func TestClearRect(t *testing.T) {
	s, c := newSurface(t, 10, 10)
	c.SetFillStyle("red")
	c.FillRect(0, 0, 10, 10)
	c.ClearRect(0, 0, 5, 10)
	near(t, pixel(s, 2, 5), none)
	near(t, pixel(s, 7, 5), red)
}

func TestArcFill(t *testing.T) {
	s, c := newSurface(t, 20, 20)
	c.SetFillStyle("red")
	c.BeginPath()
	c.Arc(10, 10, 8, 0, tau, false)
	c.Fill()
	near(t, pixel(s, 10, 10), red)
	near(t, pixel(s, 1, 1), none)
}

func TestCurvedPathFill(t *testing.T) {
	s, c := newSurface(t, 20, 20)
	c.SetFillStyle("red")
	c.BeginPath()
	c.MoveTo(2, 2)
	c.QuadraticCurveTo(18, 2, 18, 18)
	c.LineTo(2, 18)
	c.ClosePath()
	c.Fill()
	near(t, pixel(s, 6, 14), red)
	near(t, pixel(s, 17, 3), none)

	c.SetFillStyle("blue")
	c.BeginPath()
	c.MoveTo(2, 2)
	c.BezierCurveTo(2, 18, 18, 18, 18, 2)
	c.Fill()
	near(t, pixel(s, 10, 8), blue)
	require.NoError(t, c.Err())
}

func TestEmptyPathPaintsNothing(t *testing.T) {
	s, c := newSurface(t, 10, 10)
	c.SetFillStyle("red")
	c.SetStrokeStyle("red")
	c.BeginPath()
	c.Fill()
	c.Stroke()
	near(t, pixel(s, 5, 5), none)
	require.NoError(t, c.Err())
}

func TestInvalidColorRecorded(t *testing.T) {
	_, c := newSurface(t, 4, 4)
	c.SetFillStyle("red")
	c.SetFillStyle("not-a-color")
	c.SetStrokeStyle("also-bad")
	err := c.Err()
	require.Error(t, err)
	assert.Equal(t, errs.ErrCodeInvalidInput, errs.GetCode(err))
	assert.Contains(t, err.Error(), "not-a-color")
}

func TestShadowPaintsOffset(t *testing.T) {
	s, c := newSurface(t, 30, 30)
	c.SetShadow(surface.Shadow{Color: "blue", OffsetX: 15, OffsetY: 0})
	c.SetFillStyle("red")
	c.FillRect(0, 0, 10, 10)
	require.NoError(t, c.Err())
	near(t, pixel(s, 5, 5), red)
	near(t, pixel(s, 20, 5), blue)
	near(t, pixel(s, 20, 20), none)
}

func TestMeasureText(t *testing.T) {
	_, c := newSurface(t, 10, 10)
	c.SetFont(surface.Font{Family: "sans-serif", Size: 20})

	m := c.MeasureText("Hello")
	require.NoError(t, c.Err())
	assert.Greater(t, m.Width, 20.0)
	assert.Greater(t, m.EmAscent, 0.0)
	assert.Greater(t, m.EmDescent, 0.0)
	assert.Greater(t, m.ActualAscent, 0.0)
	assert.LessOrEqual(t, m.ActualAscent, m.EmAscent+1)

	empty := c.MeasureText("")
	assert.Zero(t, empty.Width)
	assert.Equal(t, empty.EmAscent, empty.ActualAscent)

	c.SetFont(surface.Font{Family: "sans-serif", Size: 40})
	big := c.MeasureText("Hello")
	assert.InDelta(t, 2*m.Width, big.Width, 1)
}

func TestFillTextInks(t *testing.T) {
	s, c := newSurface(t, 60, 40)
	c.SetFont(surface.Font{Family: "monospace", Size: 32, Bold: true})
	c.SetFillStyle("black")
	c.FillText("MW", 0, 30)
	require.NoError(t, c.Err())

	inked := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			if pixel(s, x, y).A > 0 {
				inked++
			}
		}
	}
	assert.Positive(t, inked)
}

func TestDrawImageScales(t *testing.T) {
	s, c := newSurface(t, 20, 20)
	img, err := Decode(pngBytes(t, blue, 2, 2))
	require.NoError(t, err)
	c.DrawImage(newBitmap(img), 5, 5, 10, 10)
	require.NoError(t, c.Err())
	near(t, pixel(s, 10, 10), blue)
	near(t, pixel(s, 2, 2), none)
	near(t, pixel(s, 17, 17), none)
}

func TestDrawImageRegionClampsSource(t *testing.T) {
	s, c := newSurface(t, 20, 20)
	img, err := Decode(pngBytes(t, red, 4, 4))
	require.NoError(t, err)
	// Source extends past the bitmap: only the covered half is drawn.
	c.DrawImageRegion(newBitmap(img), 2, 0, 4, 4, 0, 0, 20, 20)
	near(t, pixel(s, 5, 10), red)
	near(t, pixel(s, 15, 10), none)
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t, red, 3, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), data, 0o644))

	h := NewHost(nil, nil)
	h.BaseDir = dir
	ctx := context.Background()

	b, err := h.LoadImage(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())

	b, err = h.LoadImage(ctx, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width())

	_, err = h.LoadImage(ctx, "missing.png")
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))

	_, err = h.LoadImage(ctx, "https://example.com/a.png")
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))

	_, err = h.LoadImage(ctx, "data:text/plain,hello")
	assert.True(t, errs.Is(err, errs.ErrCodeImageLoad))

	h.NoFiles = true
	_, err = h.LoadImage(ctx, "a.png")
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))
}

func TestEncode(t *testing.T) {
	s, c := newSurface(t, 8, 8)
	c.SetFillStyle("red")
	c.FillRect(0, 0, 8, 8)

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf, surface.PNG, 0))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	buf.Reset()
	require.NoError(t, s.Encode(&buf, surface.JPG, 80))
	assert.Equal(t, []byte{0xff, 0xd8}, buf.Bytes()[:2])

	assert.True(t, errs.Is(s.Encode(&buf, "gif", 0), errs.ErrCodeInvalidFormat))
	assert.True(t, errs.Is(s.Encode(&buf, surface.JPG, 0), errs.ErrCodeInvalidFormat))
}
