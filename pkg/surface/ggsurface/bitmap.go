package ggsurface

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// Bitmap is a decoded image in straight (non-premultiplied) RGBA.
type Bitmap struct {
	img *image.NRGBA
}

func newBitmap(img image.Image) *Bitmap {
	b := img.Bounds()
	n, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	}
	return &Bitmap{img: n}
}

func (b *Bitmap) Width() int  { return b.img.Bounds().Dx() }
func (b *Bitmap) Height() int { return b.img.Bounds().Dy() }

// Image returns the decoded pixels.
func (b *Bitmap) Image() *image.NRGBA { return b.img }

// LoadImage resolves an http(s) URL through the fetcher, a data: URL inline,
// or anything else as a file path relative to BaseDir.
func (h *Host) LoadImage(ctx context.Context, src string) (surface.Bitmap, error) {
	data, err := h.read(ctx, src)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeImageLoad, err, "decode %s", shorten(src))
	}
	return newBitmap(img), nil
}

func (h *Host) read(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		if h.Fetcher == nil {
			return nil, errs.New(errs.ErrCodeUnsupported, "remote images are disabled: %s", src)
		}
		return h.Fetcher.Fetch(ctx, src)
	}

	if h.NoFiles {
		return nil, errs.New(errs.ErrCodeUnsupported, "local images are disabled: %s", src)
	}
	path := src
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && h.BaseDir != "" {
		path = filepath.Join(h.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeNotFound, err, "image %s", src)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeImageLoad, err, "read %s", src)
	}
	return data, nil
}

// decodeDataURL handles data:[<mime>][;base64],<payload>.
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "data URL payload")
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "data URL payload")
	}
	return []byte(s), nil
}

// Decode sniffs the image type from its magic bytes and decodes it.
// PNG, JPEG, GIF, WebP, BMP and TIFF are supported.
func Decode(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, errs.New(errs.ErrCodeImageLoad, "unrecognized image data")
	}
	r := bytes.NewReader(data)
	switch kind {
	case matchers.TypePng:
		return png.Decode(r)
	case matchers.TypeJpeg:
		return jpeg.Decode(r)
	case matchers.TypeGif:
		return gif.Decode(r)
	case matchers.TypeWebp:
		return webp.Decode(r)
	case matchers.TypeBmp:
		return bmp.Decode(r)
	case matchers.TypeTiff:
		return tiff.Decode(r)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported image type %s", kind.MIME.Value)
}

func shorten(src string) string {
	if len(src) > 64 {
		return src[:61] + "..."
	}
	return src
}
