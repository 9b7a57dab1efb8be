// Package ggsurface is a headless surface.Host backed by the gg software
// rasterizer.
//
// Paths are kept in device space by the Context itself and replayed into gg
// for each paint, so transforms, clipping, global alpha and shadows apply
// uniformly to shapes, text and images. Text is drawn from glyph outlines.
//
// Known differences from a browser canvas:
//   - shadow offsets are rounded to whole device pixels
//   - clearRect ignores the clip region
//   - JPEG output has no alpha; transparent pixels encode as black
package ggsurface

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/sfnt"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/fonts"
	"github.com/matzehuels/canvasrender/pkg/httputil"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// MaxSide bounds either dimension of a surface.
const MaxSide = 16384

// Host creates gg surfaces. It is safe for concurrent use; parsed fonts are
// shared between surfaces.
type Host struct {
	Fonts   *fonts.Registry
	Fetcher *httputil.Fetcher // nil disables remote images
	BaseDir string            // resolves relative image paths
	NoFiles bool              // reject local file image sources
	Logger  *log.Logger

	mu    sync.Mutex
	faces map[faceKey]*fontFace
}

// NewHost returns a host using reg for fonts and f for remote images.
// A nil registry means fonts.Default().
func NewHost(reg *fonts.Registry, f *httputil.Fetcher) *Host {
	if reg == nil {
		reg = fonts.Default()
	}
	return &Host{Fonts: reg, Fetcher: f, Logger: log.New(io.Discard)}
}

func (h *Host) NewSurface(width, height int) (surface.Surface, error) {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return nil, errs.New(errs.ErrCodeInvalidScene, "canvas size %dx%d out of range (1-%d)", width, height, MaxSide)
	}
	s := &Surface{dc: gg.NewContext(width, height), w: width, h: height}
	s.ctx = newContext(h, s)
	return s, nil
}

type faceKey struct {
	family string
	bold   bool
}

// fontFace pairs the gg font source used for metrics with the parsed sfnt
// font used for outlines. Both are safe for concurrent use.
type fontFace struct {
	src  *text.FontSource
	sfnt *sfnt.Font
}

// face resolves f through the registry, parsing each font file once.
func (h *Host) face(f surface.Font) (*fontFace, error) {
	resolved, ok := h.Fonts.Lookup(f.Family, f.Bold)
	if !ok && h.Logger != nil {
		h.Logger.Debug("font family not found, using fallback", "family", f.Family, "fallback", resolved.Family)
	}
	key := faceKey{resolved.Family, resolved.Bold}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ff, ok := h.faces[key]; ok {
		return ff, nil
	}
	src, err := text.NewFontSource(resolved.Data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFontLoad, err, "load font %s", resolved.Family)
	}
	sf, err := sfnt.Parse(resolved.Data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFontLoad, err, "parse font %s", resolved.Family)
	}
	ff := &fontFace{src: src, sfnt: sf}
	if h.faces == nil {
		h.faces = map[faceKey]*fontFace{}
	}
	h.faces[key] = ff
	return ff, nil
}

// Surface is a gg-backed pixel buffer.
type Surface struct {
	dc   *gg.Context
	ctx  *Context
	w, h int
}

func (s *Surface) Width() int                 { return s.w }
func (s *Surface) Height() int                { return s.h }
func (s *Surface) Context() surface.Context2D { return s.ctx }

// Encode writes PNG or JPG.
func (s *Surface) Encode(w io.Writer, format string, quality int) error {
	if err := errs.ValidateFormat(format); err != nil {
		return err
	}
	var err error
	switch format {
	case surface.PNG:
		err = s.dc.EncodePNG(w)
	default:
		if qerr := errs.ValidateQuality(quality); qerr != nil {
			return qerr
		}
		err = s.dc.EncodeJPEG(w, quality)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeEncode, err, "encode %s", format)
	}
	return nil
}

// Close releases the rasterizer.
func (s *Surface) Close() error { return s.dc.Close() }

var (
	_ surface.Host    = (*Host)(nil)
	_ surface.Surface = (*Surface)(nil)
	_ surface.Bitmap  = (*Bitmap)(nil)
)
