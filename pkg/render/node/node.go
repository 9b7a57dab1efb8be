// Package node defines the contract shared by every renderable node and the
// per-render environment they run in.
//
// A node passes through exactly one Layout and one Draw. Layout resolves the
// node's bounding box (possibly measuring text or loading bitmaps); Draw
// paints it onto the shared context inside a Save/Restore bracket.
package node

import (
	"context"
	"math"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// Node is a laid-out, drawable scene element.
type Node interface {
	ID() string
	// Layout resolves the node's bounding box inside parent.
	Layout(ctx context.Context, env *Env, parent Box) error
	// Draw paints the node. Layout must have run.
	Draw(ctx context.Context, env *Env) error
	// Bounds returns the resolved box or a LAYOUT_PENDING error.
	Bounds() (Box, error)
	// Move re-homes the node's origin and lays it out again.
	Move(ctx context.Context, env *Env, x, y float64) error
}

// Box is an axis-aligned bounding box.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Rect builds a box from an origin and a size.
func Rect(x, y, w, h float64) Box { return Box{x, y, x + w, y + h} }

func (b Box) Width() float64  { return b.X2 - b.X1 }
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Center returns the midpoint of the box.
func (b Box) Center() (float64, float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{math.Min(b.X1, o.X1), math.Min(b.Y1, o.Y1), math.Max(b.X2, o.X2), math.Max(b.Y2, o.Y2)}
}

// Branch is implemented by nodes that hold children.
type Branch interface {
	Children() []Node
}

// Count returns the number of nodes in the tree rooted at n. Relayouts
// replace subtrees rather than add to them, so the count is stable.
func Count(n Node) int {
	total := 1
	if b, ok := n.(Branch); ok {
		for _, ch := range b.Children() {
			total += Count(ch)
		}
	}
	return total
}

// Base carries the state common to node implementations: identity, the
// resolved box, the layout flag and the parent box used for relayout.
type Base struct {
	Name    string
	Flowed  bool
	Parent  Box
	Box     Box
	laidOut bool
}

func (b *Base) ID() string { return b.Name }

// Resolve stores the laid-out box.
func (b *Base) Resolve(box Box) {
	b.Box = box
	b.laidOut = true
}

// LaidOut reports whether Resolve has been called.
func (b *Base) LaidOut() bool { return b.laidOut }

func (b *Base) Bounds() (Box, error) {
	if !b.laidOut {
		return Box{}, errs.New(errs.ErrCodeLayoutPending, "%s: bounds requested before layout", b.Name)
	}
	return b.Box, nil
}

// Scoped runs fn between Save and Restore on c. The restore happens on every
// exit path; the first error from fn or from the context is returned.
func Scoped(c surface.Context2D, fn func() error) (err error) {
	c.Save()
	defer c.Restore()
	if err = fn(); err != nil {
		return err
	}
	return c.Err()
}

// RotateAbout applies a rotation of deg degrees about the center of box.
// Zero is a no-op.
func RotateAbout(c surface.Context2D, deg float64, box Box) {
	if deg == 0 {
		return
	}
	cx, cy := box.Center()
	c.Translate(cx, cy)
	c.Rotate(deg * math.Pi / 180)
	c.Translate(-cx, -cy)
}
