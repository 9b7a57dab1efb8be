package scene

import (
	"github.com/jinzhu/copier"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

var deep = copier.Option{DeepCopy: true}

// Clone returns a deep copy of n. The renderer lays out clones so that the
// authored description is never mutated.
func Clone(n Node) (Node, error) {
	switch n := n.(type) {
	case *Text:
		out := &Text{}
		return out, copyNode(out, n)
	case *Image:
		out := &Image{}
		return out, copyNode(out, n)
	case *Shape:
		out := &Shape{}
		return out, copyNode(out, n)
	case *Container:
		shallow := *n
		shallow.Layers = nil
		out := &Container{}
		if err := copyNode(out, &shallow); err != nil {
			return nil, err
		}
		layers, err := CloneAll(n.Layers)
		if err != nil {
			return nil, err
		}
		out.Layers = layers
		return out, nil
	case nil:
		return nil, errs.New(errs.ErrCodeInvalidScene, "clone: nil node")
	default:
		return nil, errs.New(errs.ErrCodeUnknownNode, "clone: unsupported node %T", n)
	}
}

// CloneAll deep-copies every node of ns, preserving order.
func CloneAll(ns Nodes) (Nodes, error) {
	if ns == nil {
		return nil, nil
	}
	out := make(Nodes, len(ns))
	for i, n := range ns {
		c, err := Clone(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() (*Scene, error) {
	out := &Scene{ID: s.ID, Width: s.Width, Height: s.Height, Background: s.Background}
	if s.Output != nil {
		o := *s.Output
		out.Output = &o
	}
	layers, err := CloneAll(s.Layers)
	if err != nil {
		return nil, err
	}
	out.Layers = layers
	return out, nil
}

func copyNode(dst, src Node) error {
	if err := copier.CopyWithOption(dst, src, deep); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "clone %s", src.Common().Label())
	}
	return nil
}
