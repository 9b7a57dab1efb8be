package scene

// Text is a string laid out into lines, wrapped to its width (or to the
// parent's right edge), with optional box decoration and a highlighted word.
type Text struct {
	Base
	Content string    `json:"content"`
	Style   TextStyle `json:"style"`
}

func (*Text) NodeKind() Kind { return KindText }
func (*Text) sealed()        {}

// Align is the horizontal alignment of each line within the text box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// VerticalAlign positions the block of lines within an explicit height.
type VerticalAlign string

const (
	VerticalTop    VerticalAlign = "top"
	VerticalCenter VerticalAlign = "center"
	VerticalBottom VerticalAlign = "bottom"

	// VerticalMiddle is accepted as an alias of VerticalCenter.
	VerticalMiddle VerticalAlign = "middle"
)

// Known reports whether a is empty or one of the alignments.
func (a Align) Known() bool {
	switch a {
	case "", AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Centered reports whether the block is centered vertically.
func (v VerticalAlign) Centered() bool { return v == VerticalCenter || v == VerticalMiddle }

// Known reports whether v is empty or one of the vertical alignments.
func (v VerticalAlign) Known() bool {
	return v == "" || v == VerticalTop || v == VerticalBottom || v.Centered()
}

// TextStyle controls font, decoration and spacing of a text node.
type TextStyle struct {
	FontFamily      string        `json:"fontFamily,omitempty"`
	FontSize        FontSize      `json:"fontSize"`
	FontWeight      FontWeight    `json:"fontWeight,omitempty"`
	Color           string        `json:"color,omitempty"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
	BorderRadius    float64       `json:"borderRadius,omitempty"`
	Padding         Gap           `json:"padding"`
	Border          *Border       `json:"border,omitempty"`
	Align           Align         `json:"align,omitempty"`
	VerticalAlign   VerticalAlign `json:"verticalAlign,omitempty"`
	LineGap         float64       `json:"lineGap,omitempty"`
	LetterGap       float64       `json:"letterGap,omitempty"`
	Highlight       *Highlight    `json:"highlight,omitempty"`
}

// Border strokes the outline of every glyph. A zero width strokes 1px.
type Border struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// HighlightType selects how the highlighted word is decorated.
type HighlightType string

const (
	HighlightUnderline  HighlightType = "underline"
	HighlightColor      HighlightType = "color"
	HighlightBackground HighlightType = "background"
	HighlightImage      HighlightType = "image"
)

// Highlight decorates the first occurrence of Text within the content.
type Highlight struct {
	Text  string            `json:"text"`
	Type  HighlightType     `json:"type"`
	Color string            `json:"color,omitempty"`
	Image *HighlightOverlay `json:"image,omitempty"`
}

// HighlightOverlay is an overlay bitmap stretched across the highlighted word.
type HighlightOverlay struct {
	URL    string  `json:"url"`
	Height float64 `json:"height"`
	Offset float64 `json:"offset,omitempty"`
	// CoverText sizes the overlay to the line's full bounding height
	// instead of Height, so it occludes the area behind the glyphs.
	CoverText bool `json:"coverText,omitempty"`
}
