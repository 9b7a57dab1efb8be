package scene

import (
	"fmt"
	"strings"
)

// Schema returns the published textual description of the scene format.
// Node kinds and command types are generated from Kinds and CommandTypes so
// the description cannot drift from what the decoder accepts.
func Schema() string {
	var b strings.Builder
	b.WriteString(schemaHeader)

	kinds := make([]string, len(Kinds))
	for i, k := range Kinds {
		kinds[i] = fmt.Sprintf("%q", k)
	}
	fmt.Fprintf(&b, "\nNode kinds: %s\n", strings.Join(kinds, " | "))
	b.WriteString(schemaNodes)

	b.WriteString("\nShape command types:\n")
	for _, c := range CommandTypes {
		fmt.Fprintf(&b, "  %-18s %s\n", c, commandArgs[c])
	}
	b.WriteString(schemaFooter)
	return b.String()
}

var commandArgs = map[CommandType]string{
	CmdBeginPath:        "start an explicit path; implicit resets are suspended until the next paint",
	CmdClosePath:        "close the current subpath",
	CmdMoveTo:           "x, y (starts a new path)",
	CmdLineTo:           "x, y",
	CmdRect:             "x, y, width, height, rx?, ry? (starts a new path)",
	CmdFillRect:         "x, y, width, height, rx?, ry? (paints immediately)",
	CmdStrokeRect:       "x, y, width, height, rx?, ry? (paints immediately)",
	CmdClearRect:        "x, y, width, height (clears to transparent)",
	CmdArc:              "x, y, radius | radiusX+radiusY, startAngle, endAngle, anticlockwise? (starts a new path)",
	CmdArcTo:            "x1, y1, x2, y2, radius",
	CmdEllipse:          "x, y, radiusX, radiusY, rotation?, startAngle, endAngle, anticlockwise? (starts a new path)",
	CmdQuadraticCurveTo: "cpx, cpy, x, y",
	CmdBezierCurveTo:    "cp1x, cp1y, cp2x, cp2y, x, y",
	CmdFill:             "fill the current path",
	CmdStroke:           "stroke the current path",
	CmdFillAndStroke:    "fill then stroke the current path",
	CmdClip:             "clip to the current path for the rest of the shape",
}

const schemaHeader = `Scene document (JSON or YAML)

{
  "id":         string | number            optional
  "width":      number                     required, > 0
  "height":     number                     required, > 0
  "background": color                      optional, fills the canvas first
  "output":     { "type": "png" | "jpg" | "jpeg", "quality": 1..100 }   optional, default png / 90
  "layers":     Node[]                     required, non-empty; paint order
}

Colors: "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r,g,b)", "rgba(r,g,b,a)",
"hsl(h,s%,l%)", "hsla(h,s%,l%,a)", "transparent", or a CSS color name.

Every node:
  "kind":   node kind                      required
  "id":     string | number                optional, not unique
  "x", "y": number                         optional; relative to the parent container.
                                           Omitted means flow-positioned after the previous sibling.
  "width", "height": number                see each kind
  "rotate": number                         degrees about the node's center
`

const schemaNodes = `
text:
  "content": string                        "\n" forces a line break
  "style": {
    "fontFamily":      string              "Go", "Go Mono", "sans-serif", "monospace" or a configured font
    "fontSize":        number | {"min": number, "max": number}   required; a range fits the width
    "fontWeight":      "normal" | "bold" | 100..900
    "color":           color
    "backgroundColor": color
    "borderRadius":    number
    "padding":         number | {"x": number, "y": number}   grows the box outward
    "border":          {"color": color, "width": number}     outline stroked around every glyph
    "align":           "left" | "center" | "right"     ignored when flow-positioned
    "verticalAlign":   "top" | "center" | "bottom"     needs height; ignored when flow-positioned ("middle" = "center")
    "lineGap":         number
    "letterGap":       number
    "highlight": {
      "text":  string                      first occurrence is decorated
      "type":  "underline" | "color" | "background" | "image"
      "color": color                       required unless type is image
      "image": {"url": string, "height": number, "offset": number, "coverText": bool}   required for image
    }
  }
  Without width the text wraps at the parent's right edge.

image:
  "url":         string                    http(s) URL, data: URL or file path; optional
  "color":       color                     block drawn under the bitmap
  "objectFit":   "contain" | "cover"       used when both width and height are set
  "radius":      number                    corner radius
  "globalAlpha": 0..1
  "shadow":      {"color": color, "blur": number, "offsetX": number, "offsetY": number}
  Without url both width and height are required. With url, missing
  dimensions follow the bitmap's natural size and aspect ratio.

shape:
  "style": {                               default for every command
    "fillStyle": color, "strokeStyle": color, "lineWidth": number,
    "lineCap": "butt" | "round" | "square", "lineJoin": "miter" | "round" | "bevel",
    "miterLimit": number, "lineDash": number[], "lineDashOffset": number,
    "globalAlpha": 0..1
  }
  "shadow":   {"color": color, "blur": number, "offsetX": number, "offsetY": number}
  "commands": Command[]                    each {"type": ..., "style"?: partial style, ...args}
  Coordinates are relative to the shape's x/y. Without width and height the
  size is the union of the command extents (curves bounded by control points).
  A command's style applies to that command; a fill/stroke directly after a
  styled path command uses that style; after any fill/stroke the shape style
  is active again.

container:
  "width", "height": number                required
  "direction": "row" | "column"            default row
  "itemAlign": "start" | "center"          center aligns children on the cross axis
  "gap":       number | {"x": number, "y": number}
  "layers":    Node[]
`

const schemaFooter = `
Unknown node kinds and command types are rejected.
`
