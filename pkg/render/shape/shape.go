// Package shape interprets declarative shape command lists against a
// surface.Context2D.
//
// Two rules give a linear command stream its path structure. Style
// resolution is a fold over the commands (see Styles): a command's own style
// is active for that command, a paint directly after a styled path command
// inherits that style, and every paint returns the shape to its layer style.
// Path boundaries are implicit: the commands in PathResetting begin a new
// path unless an explicit beginPath is open.
//
// A path command with its own style that is not followed by a paint command
// paints itself: it fills when the style sets a fill color and strokes when
// it sets a stroke color.
package shape

import (
	"context"
	"math"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
)

// Shape is a laid-out shape node.
type Shape struct {
	node.Base
	data *scene.Shape
}

// New wraps a cloned shape description.
func New(data *scene.Shape, flowed bool) *Shape {
	s := &Shape{data: data}
	s.Name = data.Label()
	s.Flowed = flowed
	return s
}

func (s *Shape) Layout(_ context.Context, env *node.Env, parent node.Box) error {
	s.Parent = parent
	x, y := node.Coord(s.data.X), node.Coord(s.data.Y)
	ext := Extent(s.data.Commands)

	w, h := ext.Width(), ext.Height()
	if s.data.Width != nil {
		w = *s.data.Width
	}
	if s.data.Height != nil {
		h = *s.data.Height
	}
	s.Resolve(node.Box{X1: x, Y1: y, X2: x + w, Y2: y + h})
	return nil
}

func (s *Shape) Draw(_ context.Context, env *node.Env) error {
	if _, err := s.Bounds(); err != nil {
		return err
	}
	c := env.Canvas
	return node.Scoped(c, func() error {
		node.RotateAbout(c, s.data.Rotate, s.Box)
		c.Translate(node.Coord(s.data.X), node.Coord(s.data.Y))
		c.SetShadow(node.Shadow(s.data.Shadow))
		return Run(c, s.data.Style, s.data.Commands)
	})
}

func (s *Shape) Move(ctx context.Context, env *node.Env, x, y float64) error {
	s.data.X, s.data.Y = &x, &y
	return s.Layout(ctx, env, s.Parent)
}

// Extent is the union of the geometric extents of cmds in shape-local
// coordinates. Curves are bounded by their control points; arcs without a
// radius or a radiusX/radiusY pair add nothing. An empty list yields the
// zero box.
func Extent(cmds []scene.Command) node.Box {
	var (
		box   node.Box
		found bool
	)
	add := func(x1, y1, x2, y2 float64) {
		b := node.Box{X1: math.Min(x1, x2), Y1: math.Min(y1, y2), X2: math.Max(x1, x2), Y2: math.Max(y1, y2)}
		if !found {
			box, found = b, true
			return
		}
		box = box.Union(b)
	}
	point := func(x, y float64) { add(x, y, x, y) }

	for i := range cmds {
		c := &cmds[i]
		switch c.Type {
		case scene.CmdMoveTo, scene.CmdLineTo:
			point(c.X, c.Y)
		case scene.CmdRect, scene.CmdFillRect, scene.CmdStrokeRect, scene.CmdClearRect:
			add(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
		case scene.CmdArc:
			// Only a full radiusX/radiusY pair or a radius bounds an arc.
			switch {
			case c.RadiusX != nil && c.RadiusY != nil:
				rx, ry := math.Abs(*c.RadiusX), math.Abs(*c.RadiusY)
				add(c.X-rx, c.Y-ry, c.X+rx, c.Y+ry)
			case c.Radius != nil:
				r := math.Abs(*c.Radius)
				add(c.X-r, c.Y-r, c.X+r, c.Y+r)
			}
		case scene.CmdEllipse:
			rx, ry := math.Abs(node.Coord(c.RadiusX)), math.Abs(node.Coord(c.RadiusY))
			add(c.X-rx, c.Y-ry, c.X+rx, c.Y+ry)
		case scene.CmdArcTo:
			point(c.X1, c.Y1)
			point(c.X2, c.Y2)
		case scene.CmdQuadraticCurveTo:
			point(c.CPX, c.CPY)
			point(c.X, c.Y)
		case scene.CmdBezierCurveTo:
			point(c.CP1X, c.CP1Y)
			point(c.CP2X, c.CP2Y)
			point(c.X, c.Y)
		}
	}
	return box
}

// arcRadii resolves the radii of an arc command: radius, then radiusX and
// radiusY as an ellipse, then whichever of the two is set, then zero.
func arcRadii(c *scene.Command) (float64, float64) {
	switch {
	case c.Radius != nil:
		return *c.Radius, *c.Radius
	case c.RadiusX != nil && c.RadiusY != nil:
		return *c.RadiusX, *c.RadiusY
	case c.RadiusX != nil:
		return *c.RadiusX, *c.RadiusX
	case c.RadiusY != nil:
		return *c.RadiusY, *c.RadiusY
	}
	return 0, 0
}

func unknownCommand(t scene.CommandType) error {
	return errs.New(errs.ErrCodeUnknownCommand, "unknown shape command %q", t)
}
