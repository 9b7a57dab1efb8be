// Package container lays out and draws container nodes.
//
// Children are laid out strictly in order. A child with explicit x/y is
// placed relative to the container's origin; a missing coordinate is taken
// from the flow: after the previous sibling's right edge (row) or bottom
// edge (column), separated by the gap. Because each flow position depends on
// the resolved box of the previous sibling, layout is sequential.
package container

import (
	"context"
	"math"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	imagenode "github.com/matzehuels/canvasrender/pkg/render/image"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/render/shape"
	"github.com/matzehuels/canvasrender/pkg/render/text"
	"github.com/matzehuels/canvasrender/pkg/scene"
)

// Container is a laid-out container node.
type Container struct {
	node.Base
	data *scene.Container

	children []node.Node
	clones   []scene.Node
}

// New wraps a cloned container description.
func New(data *scene.Container, flowed bool) *Container {
	c := &Container{data: data}
	c.Name = data.Label()
	c.Flowed = flowed
	return c
}

// Build instantiates the node for a cloned scene description.
func Build(n scene.Node, flowed bool) (node.Node, error) {
	switch n := n.(type) {
	case *scene.Text:
		return text.New(n, flowed), nil
	case *scene.Image:
		return imagenode.New(n, flowed), nil
	case *scene.Shape:
		return shape.New(n, flowed), nil
	case *scene.Container:
		return New(n, flowed), nil
	}
	return nil, errs.New(errs.ErrCodeUnknownNode, "unsupported node %T", n)
}

// Children returns the laid-out children in paint order.
func (c *Container) Children() []node.Node { return c.children }

func (c *Container) direction() scene.Direction {
	if c.data.Direction == "" {
		return scene.DirectionRow
	}
	return c.data.Direction
}

func (c *Container) Layout(ctx context.Context, env *node.Env, parent node.Box) error {
	c.Parent = parent
	if c.data.Width == nil || c.data.Height == nil {
		return errs.New(errs.ErrCodeMissingField, "container %s: width and height are required", c.Name)
	}
	x, y := node.Coord(c.data.X), node.Coord(c.data.Y)
	own := node.Rect(x, y, *c.data.Width, *c.data.Height)
	row := c.direction() == scene.DirectionRow
	gap := c.data.Gap

	c.children = c.children[:0]
	c.clones = c.clones[:0]
	var prev *node.Box
	for _, layer := range c.data.Layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		cl, err := scene.Clone(layer)
		if err != nil {
			return err
		}
		b := cl.Common()
		flowed := b.X == nil || b.Y == nil

		fx, fy := x, y
		if prev != nil {
			if row {
				fx, fy = prev.X2+gap.X, prev.Y1
			} else {
				fx, fy = prev.X1, prev.Y2+gap.Y
			}
		}
		if b.X != nil {
			fx = *b.X + x
		}
		if b.Y != nil {
			fy = *b.Y + y
		}
		b.X, b.Y = &fx, &fy

		child, err := Build(cl, flowed)
		if err != nil {
			return err
		}
		if err := child.Layout(ctx, env, own); err != nil {
			return err
		}
		box, err := child.Bounds()
		if err != nil {
			return err
		}
		prev = &box
		c.children = append(c.children, child)
		c.clones = append(c.clones, cl)
	}

	if c.data.ItemAlign == scene.ItemAlignCenter {
		if err := c.center(ctx, env, row); err != nil {
			return err
		}
	}
	if len(c.children) == 0 {
		return nil
	}
	box, err := c.union(row)
	if err != nil {
		return err
	}
	c.Resolve(box)
	env.Logger.Debug("container laid out", "node", c.Name, "children", len(c.children),
		"x1", box.X1, "y1", box.Y1, "x2", box.X2, "y2", box.Y2)
	return nil
}

// center re-homes every child on the cross axis so that it is centered in
// the largest cross-axis extent among the children.
func (c *Container) center(ctx context.Context, env *node.Env, row bool) error {
	if len(c.children) == 0 {
		return nil
	}
	boxes := make([]node.Box, len(c.children))
	start, extent := math.Inf(1), 0.0
	for i, ch := range c.children {
		b, err := ch.Bounds()
		if err != nil {
			return err
		}
		boxes[i] = b
		if row {
			start = math.Min(start, b.Y1)
			extent = math.Max(extent, b.Height())
		} else {
			start = math.Min(start, b.X1)
			extent = math.Max(extent, b.Width())
		}
	}
	for i, ch := range c.children {
		b := boxes[i]
		ox, oy := *c.clones[i].Common().X, *c.clones[i].Common().Y
		if row {
			oy += start + (extent-b.Height())/2 - b.Y1
		} else {
			ox += start + (extent-b.Width())/2 - b.X1
		}
		if err := ch.Move(ctx, env, ox, oy); err != nil {
			return err
		}
	}
	return nil
}

// union spans the first to the last child on the main axis and all
// children on the cross axis.
func (c *Container) union(row bool) (node.Box, error) {
	first, err := c.children[0].Bounds()
	if err != nil {
		return node.Box{}, err
	}
	last, err := c.children[len(c.children)-1].Bounds()
	if err != nil {
		return node.Box{}, err
	}
	cross := first
	for _, ch := range c.children[1:] {
		b, err := ch.Bounds()
		if err != nil {
			return node.Box{}, err
		}
		cross = cross.Union(b)
	}
	if row {
		return node.Box{X1: first.X1, Y1: cross.Y1, X2: last.X2, Y2: cross.Y2}, nil
	}
	return node.Box{X1: cross.X1, Y1: first.Y1, X2: cross.X2, Y2: last.Y2}, nil
}

func (c *Container) Draw(ctx context.Context, env *node.Env) error {
	if _, err := c.Bounds(); err != nil {
		return err
	}
	cv := env.Canvas
	return node.Scoped(cv, func() error {
		node.RotateAbout(cv, c.data.Rotate, c.Box)
		for _, ch := range c.children {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := ch.Draw(ctx, env); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Container) Move(ctx context.Context, env *node.Env, x, y float64) error {
	c.data.X, c.data.Y = &x, &y
	return c.Layout(ctx, env, c.Parent)
}
