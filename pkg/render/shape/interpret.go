package shape

import (
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// PathResetting is the set of commands that start a new path implicitly, so
// that {arc},{fill},{arc},{fill} paints two separate shapes. An explicit
// beginPath suspends the implicit resets until the next paint.
var PathResetting = map[scene.CommandType]bool{
	scene.CmdRect:    true,
	scene.CmdMoveTo:  true,
	scene.CmdArc:     true,
	scene.CmdEllipse: true,
}

// PathBuilding reports whether t extends or begins geometry.
func PathBuilding(t scene.CommandType) bool {
	switch t {
	case scene.CmdMoveTo, scene.CmdLineTo, scene.CmdRect, scene.CmdArc, scene.CmdEllipse,
		scene.CmdArcTo, scene.CmdQuadraticCurveTo, scene.CmdBezierCurveTo:
		return true
	}
	return false
}

// PaintTrigger reports whether t consumes the current path with a paint.
func PaintTrigger(t scene.CommandType) bool {
	switch t {
	case scene.CmdFill, scene.CmdStroke, scene.CmdFillAndStroke:
		return true
	}
	return false
}

// styleFold is the style-resolution state carried from one command to the
// next.
type styleFold struct {
	layer *scene.ShapeStyle
	last  *scene.ShapeStyle
	prev  *scene.Command
}

func newStyleFold(layer *scene.ShapeStyle) styleFold {
	base := layer.Merge(nil)
	return styleFold{layer: base, last: base}
}

// step returns the active style for cmd and the state for the next command.
func (f styleFold) step(cmd *scene.Command) (*scene.ShapeStyle, styleFold) {
	var active *scene.ShapeStyle
	switch {
	case cmd.Style != nil:
		active = f.layer.Merge(cmd.Style)
		f.last = active
	case PaintTrigger(cmd.Type) && f.prev != nil && PathBuilding(f.prev.Type) && f.prev.Style != nil:
		active = f.layer.Merge(f.prev.Style)
	default:
		active = f.last
	}
	if PaintTrigger(cmd.Type) {
		f.last = f.layer
	}
	f.prev = cmd
	return active, f
}

// Styles resolves the active style of every command against the layer
// default.
func Styles(layer *scene.ShapeStyle, cmds []scene.Command) []*scene.ShapeStyle {
	out := make([]*scene.ShapeStyle, len(cmds))
	f := newStyleFold(layer)
	for i := range cmds {
		out[i], f = f.step(&cmds[i])
	}
	return out
}

// Run executes cmds against c with the given layer style.
func Run(c surface.Context2D, layer *scene.ShapeStyle, cmds []scene.Command) error {
	styles := Styles(layer, cmds)
	explicit := false
	for i := range cmds {
		cmd := &cmds[i]
		apply(c, styles[i])

		if PathResetting[cmd.Type] && !explicit {
			c.BeginPath()
		}
		switch cmd.Type {
		case scene.CmdBeginPath:
			c.BeginPath()
			explicit = true
		case scene.CmdClosePath:
			c.ClosePath()
		case scene.CmdMoveTo:
			c.MoveTo(cmd.X, cmd.Y)
		case scene.CmdLineTo:
			c.LineTo(cmd.X, cmd.Y)
		case scene.CmdRect:
			rx, ry := radii(cmd)
			node.RoundedRect(c, cmd.X, cmd.Y, cmd.Width, cmd.Height, rx, ry)
		case scene.CmdFillRect:
			if rx, ry := radii(cmd); rx > 0 || ry > 0 {
				c.BeginPath()
				node.RoundedRect(c, cmd.X, cmd.Y, cmd.Width, cmd.Height, rx, ry)
				c.Fill()
			} else {
				c.FillRect(cmd.X, cmd.Y, cmd.Width, cmd.Height)
			}
		case scene.CmdStrokeRect:
			if rx, ry := radii(cmd); rx > 0 || ry > 0 {
				c.BeginPath()
				node.RoundedRect(c, cmd.X, cmd.Y, cmd.Width, cmd.Height, rx, ry)
				c.Stroke()
			} else {
				c.StrokeRect(cmd.X, cmd.Y, cmd.Width, cmd.Height)
			}
		case scene.CmdClearRect:
			c.ClearRect(cmd.X, cmd.Y, cmd.Width, cmd.Height)
		case scene.CmdArc:
			switch {
			case cmd.Radius != nil:
				c.Arc(cmd.X, cmd.Y, *cmd.Radius, cmd.StartAngle, cmd.EndAngle, cmd.Anticlockwise)
			case cmd.RadiusX != nil && cmd.RadiusY != nil:
				c.Ellipse(cmd.X, cmd.Y, *cmd.RadiusX, *cmd.RadiusY, 0,
					cmd.StartAngle, cmd.EndAngle, cmd.Anticlockwise)
			default:
				r, _ := arcRadii(cmd)
				c.Arc(cmd.X, cmd.Y, r, cmd.StartAngle, cmd.EndAngle, cmd.Anticlockwise)
			}
		case scene.CmdArcTo:
			c.ArcTo(cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, node.Coord(cmd.Radius))
		case scene.CmdEllipse:
			c.Ellipse(cmd.X, cmd.Y, node.Coord(cmd.RadiusX), node.Coord(cmd.RadiusY), cmd.Rotation,
				cmd.StartAngle, cmd.EndAngle, cmd.Anticlockwise)
		case scene.CmdQuadraticCurveTo:
			c.QuadraticCurveTo(cmd.CPX, cmd.CPY, cmd.X, cmd.Y)
		case scene.CmdBezierCurveTo:
			c.BezierCurveTo(cmd.CP1X, cmd.CP1Y, cmd.CP2X, cmd.CP2Y, cmd.X, cmd.Y)
		case scene.CmdFill:
			c.Fill()
			explicit = false
		case scene.CmdStroke:
			c.Stroke()
			explicit = false
		case scene.CmdFillAndStroke:
			c.Fill()
			c.Stroke()
			explicit = false
		case scene.CmdClip:
			c.Clip()
			explicit = false
		default:
			return unknownCommand(cmd.Type)
		}
		if autoPaint(cmds, i) {
			if cmd.Style.FillStyle != "" && cmd.Style.FillStyle != "transparent" {
				c.Fill()
			}
			if cmd.Style.StrokeStyle != "" {
				c.Stroke()
			}
		}
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}

// autoPaint reports whether the styled path command cmds[i] paints itself
// because no paint command follows it.
func autoPaint(cmds []scene.Command, i int) bool {
	if cmds[i].Style == nil || !PathBuilding(cmds[i].Type) {
		return false
	}
	return i == len(cmds)-1 || !PaintTrigger(cmds[i+1].Type)
}

// radii resolves rx/ry; a missing radius takes the value of the other.
func radii(cmd *scene.Command) (float64, float64) {
	switch {
	case cmd.RX != nil && cmd.RY != nil:
		return *cmd.RX, *cmd.RY
	case cmd.RX != nil:
		return *cmd.RX, *cmd.RX
	case cmd.RY != nil:
		return *cmd.RY, *cmd.RY
	}
	return 0, 0
}

// Defaults of the canvas drawing state.
const (
	defaultColor      = "#000000"
	defaultLineWidth  = 1.0
	defaultMiterLimit = 10.0
)

// apply sets every style property, using canvas defaults for unset fields,
// so each command starts from exactly its resolved style.
func apply(c surface.Context2D, s *scene.ShapeStyle) {
	c.SetFillStyle(or(s.FillStyle, defaultColor))
	c.SetStrokeStyle(or(s.StrokeStyle, defaultColor))
	c.SetLineWidth(orf(s.LineWidth, defaultLineWidth))
	c.SetLineCap(or(s.LineCap, surface.CapButt))
	c.SetLineJoin(or(s.LineJoin, surface.JoinMiter))
	c.SetMiterLimit(orf(s.MiterLimit, defaultMiterLimit))
	c.SetLineDash(s.LineDash)
	c.SetLineDashOffset(orf(s.LineDashOffset, 0))
	c.SetGlobalAlpha(orf(s.GlobalAlpha, 1))
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orf(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
