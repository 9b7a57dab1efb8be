package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque node identifier. Scene files may use either a string or a
// number; both decode to their textual form. IDs are not required to be unique.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Gap is a per-axis spacing: the gap a container inserts between
// flow-positioned children, or the padding around a text block. In JSON it
// is either a scalar (applied to both axes) or {"x": .., "y": ..}.
type Gap struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON accepts a number or an {x,y} object.
func (g *Gap) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain Gap
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*g = Gap(p)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("gap must be a number or {x,y}: %w", err)
	}
	*g = Gap{X: v, Y: v}
	return nil
}

// FontSize is either a fixed size or an adaptive {min,max} range that is
// resolved against the content length and the available width at layout.
type FontSize struct {
	Value float64 `json:"value,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
	// Adaptive is set when the range form was used.
	Adaptive bool `json:"adaptive,omitempty"`
}

// Fixed returns a non-adaptive font size.
func Fixed(size float64) FontSize { return FontSize{Value: size} }

// Range returns an adaptive font size.
func Range(min, max float64) FontSize { return FontSize{Min: min, Max: max, Adaptive: true} }

// UnmarshalJSON accepts a number or a {min,max} object.
func (f *FontSize) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var r struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		}
		if err := json.Unmarshal(b, &r); err != nil {
			return err
		}
		*f = Range(r.Min, r.Max)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("fontSize must be a number or {min,max}: %w", err)
	}
	*f = Fixed(v)
	return nil
}

// MarshalJSON writes the same shape the scene author used.
func (f FontSize) MarshalJSON() ([]byte, error) {
	if f.Adaptive {
		return json.Marshal(struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		}{f.Min, f.Max})
	}
	return json.Marshal(f.Value)
}

// FontWeight is a CSS-style font weight ("normal", "bold" or "100".."900").
type FontWeight string

// UnmarshalJSON accepts a string or a number.
func (w *FontWeight) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*w = FontWeight(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("fontWeight must be a string or number: %w", err)
	}
	*w = FontWeight(n.String())
	return nil
}

// Bold reports whether the weight selects a bold face (bold, bolder, or >= 600).
func (w FontWeight) Bold() bool {
	switch w {
	case "bold", "bolder":
		return true
	}
	if n, err := strconv.Atoi(string(w)); err == nil {
		return n >= 600
	}
	return false
}

// Shadow is a drop shadow applied to an image or shape node.
type Shadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur,omitempty"`
	OffsetX float64 `json:"offsetX,omitempty"`
	OffsetY float64 `json:"offsetY,omitempty"`
}

// Float returns a pointer to v, for building scenes in Go.
func Float(v float64) *float64 { return &v }
