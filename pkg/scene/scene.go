package scene

import (
	"bytes"
	"encoding/json"
	"io"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatJPG = "jpg"
)

// DefaultQuality is the JPEG quality used when a scene does not set one.
const DefaultQuality = 90

// Scene is a complete render description.
type Scene struct {
	ID         ID      `json:"id,omitempty"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background,omitempty"`
	Output     *Output `json:"output,omitempty"`
	Layers     Nodes   `json:"layers"`
}

// Output selects the encoding of the rendered canvas.
type Output struct {
	Type    string `json:"type,omitempty"`
	Quality int    `json:"quality,omitempty"`
}

// Format returns the normalized output format ("png" or "jpg").
func (s *Scene) Format() string {
	if s.Output == nil {
		return FormatPNG
	}
	switch s.Output.Type {
	case "jpg", "jpeg":
		return FormatJPG
	}
	return FormatPNG
}

// Quality returns the JPEG quality, defaulting to DefaultQuality.
func (s *Scene) Quality() int {
	if s.Output == nil || s.Output.Quality <= 0 {
		return DefaultQuality
	}
	return s.Output.Quality
}

// Decode reads a JSON scene from r and validates it.
func Decode(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read scene")
	}
	return Parse(data)
}

// Parse decodes a JSON scene and validates it.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		if errs.GetCode(err) != "" {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
