package scene

import (
	"bytes"
	"encoding/json"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// Shape is an ordered list of path-building and painting commands, drawn
// relative to the shape's own origin.
type Shape struct {
	Base
	Style    *ShapeStyle `json:"style,omitempty"`
	Shadow   *Shadow     `json:"shadow,omitempty"`
	Commands []Command   `json:"commands"`
}

func (*Shape) NodeKind() Kind { return KindShape }
func (*Shape) sealed()        {}

// ShapeStyle is a partial drawing style. Nil fields leave the current value
// unchanged when styles are merged.
type ShapeStyle struct {
	FillStyle      string    `json:"fillStyle,omitempty"`
	StrokeStyle    string    `json:"strokeStyle,omitempty"`
	LineWidth      *float64  `json:"lineWidth,omitempty"`
	LineCap        string    `json:"lineCap,omitempty"`
	LineJoin       string    `json:"lineJoin,omitempty"`
	MiterLimit     *float64  `json:"miterLimit,omitempty"`
	LineDash       []float64 `json:"lineDash,omitempty"`
	LineDashOffset *float64  `json:"lineDashOffset,omitempty"`
	GlobalAlpha    *float64  `json:"globalAlpha,omitempty"`
}

// Merge returns a copy of s with every field set in over replacing s's.
// Either side may be nil.
func (s *ShapeStyle) Merge(over *ShapeStyle) *ShapeStyle {
	var out ShapeStyle
	if s != nil {
		out = *s
	}
	if over == nil {
		return &out
	}
	if over.FillStyle != "" {
		out.FillStyle = over.FillStyle
	}
	if over.StrokeStyle != "" {
		out.StrokeStyle = over.StrokeStyle
	}
	if over.LineWidth != nil {
		out.LineWidth = over.LineWidth
	}
	if over.LineCap != "" {
		out.LineCap = over.LineCap
	}
	if over.LineJoin != "" {
		out.LineJoin = over.LineJoin
	}
	if over.MiterLimit != nil {
		out.MiterLimit = over.MiterLimit
	}
	if over.LineDash != nil {
		out.LineDash = over.LineDash
	}
	if over.LineDashOffset != nil {
		out.LineDashOffset = over.LineDashOffset
	}
	if over.GlobalAlpha != nil {
		out.GlobalAlpha = over.GlobalAlpha
	}
	return &out
}

// CommandType names a shape command.
type CommandType string

const (
	CmdBeginPath        CommandType = "beginPath"
	CmdClosePath        CommandType = "closePath"
	CmdMoveTo           CommandType = "moveTo"
	CmdLineTo           CommandType = "lineTo"
	CmdRect             CommandType = "rect"
	CmdFillRect         CommandType = "fillRect"
	CmdStrokeRect       CommandType = "strokeRect"
	CmdClearRect        CommandType = "clearRect"
	CmdArc              CommandType = "arc"
	CmdArcTo            CommandType = "arcTo"
	CmdEllipse          CommandType = "ellipse"
	CmdQuadraticCurveTo CommandType = "quadraticCurveTo"
	CmdBezierCurveTo    CommandType = "bezierCurveTo"
	CmdFill             CommandType = "fill"
	CmdStroke           CommandType = "stroke"
	CmdFillAndStroke    CommandType = "fillAndStroke"
	CmdClip             CommandType = "clip"
)

// CommandTypes lists every supported command in schema order.
var CommandTypes = []CommandType{
	CmdBeginPath, CmdClosePath, CmdMoveTo, CmdLineTo,
	CmdRect, CmdFillRect, CmdStrokeRect, CmdClearRect,
	CmdArc, CmdArcTo, CmdEllipse, CmdQuadraticCurveTo, CmdBezierCurveTo,
	CmdFill, CmdStroke, CmdFillAndStroke, CmdClip,
}

// Known reports whether t is a supported command type.
func (t CommandType) Known() bool {
	for _, c := range CommandTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Command is one entry of a shape's command list. Type selects which of the
// argument fields are meaningful; the rest are ignored:
//
//	moveTo, lineTo                   X, Y
//	rect, fillRect, strokeRect       X, Y, Width, Height, RX, RY
//	clearRect                        X, Y, Width, Height
//	arc                              X, Y, Radius, StartAngle, EndAngle, Anticlockwise
//	arcTo                            X1, Y1, X2, Y2, Radius
//	ellipse                          X, Y, RadiusX, RadiusY, Rotation, StartAngle, EndAngle, Anticlockwise
//	quadraticCurveTo                 CPX, CPY, X, Y
//	bezierCurveTo                    CP1X, CP1Y, CP2X, CP2Y, X, Y
//
// Angles are in radians. For rect-family commands RX and RY default to each
// other and both absent means square corners.
type Command struct {
	Type  CommandType `json:"type"`
	Style *ShapeStyle `json:"style,omitempty"`

	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	RX *float64 `json:"rx,omitempty"`
	RY *float64 `json:"ry,omitempty"`

	Radius        *float64 `json:"radius,omitempty"`
	RadiusX       *float64 `json:"radiusX,omitempty"`
	RadiusY       *float64 `json:"radiusY,omitempty"`
	Rotation      float64  `json:"rotation,omitempty"`
	StartAngle    float64  `json:"startAngle,omitempty"`
	EndAngle      float64  `json:"endAngle,omitempty"`
	Anticlockwise bool     `json:"anticlockwise,omitempty"`

	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	CPX  float64 `json:"cpx,omitempty"`
	CPY  float64 `json:"cpy,omitempty"`
	CP1X float64 `json:"cp1x,omitempty"`
	CP1Y float64 `json:"cp1y,omitempty"`
	CP2X float64 `json:"cp2x,omitempty"`
	CP2Y float64 `json:"cp2y,omitempty"`
}

// UnmarshalJSON decodes a command and rejects unknown types.
func (c *Command) UnmarshalJSON(b []byte) error {
	type plain Command
	var p plain
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&p); err != nil {
		return err
	}
	if p.Type == "" {
		return errs.New(errs.ErrCodeMissingField, "shape command: type is required")
	}
	if !p.Type.Known() {
		return errs.New(errs.ErrCodeUnknownCommand, "unknown shape command %q", p.Type)
	}
	*c = Command(p)
	return nil
}
