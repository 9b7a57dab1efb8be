package scene

import (
	"bytes"
	"encoding/json"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// Kind discriminates the four node variants.
type Kind string

const (
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindShape     Kind = "shape"
	KindContainer Kind = "container"
)

// Kinds lists every node kind in schema order.
var Kinds = []Kind{KindText, KindImage, KindShape, KindContainer}

// Node is the closed set of scene node descriptions: *Text, *Image, *Shape
// and *Container. Code that dispatches on a Node should use a type switch
// over exactly those four types.
type Node interface {
	NodeKind() Kind
	// Common returns the fields shared by every node.
	Common() *Base
	sealed()
}

// Base holds the fields every node kind carries. Position and size are
// optional; a nil X or Y means the node is placed by its parent's flow.
type Base struct {
	Kind   Kind     `json:"kind"`
	ID     ID       `json:"id,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	// Rotate is in degrees, applied about the node's center.
	Rotate float64 `json:"rotate,omitempty"`
}

func (b *Base) Common() *Base { return b }

// Label names the node in error messages: its id when present, else its kind.
func (b *Base) Label() string {
	if b.ID != "" {
		return string(b.ID)
	}
	if b.Kind != "" {
		return string(b.Kind)
	}
	return "node"
}

// Nodes is an ordered list of layers. Its JSON form is an array of objects
// discriminated by "kind".
type Nodes []Node

// UnmarshalJSON decodes each element according to its kind.
func (ns *Nodes) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(Nodes, 0, len(raws))
	for i, raw := range raws {
		n, err := DecodeNode(raw)
		if err != nil {
			if errs.GetCode(err) != "" {
				return err
			}
			return errs.Wrap(errs.ErrCodeInvalidScene, err, "layer %d", i)
		}
		out = append(out, n)
	}
	*ns = out
	return nil
}

// DecodeNode decodes a single node object, dispatching on its "kind" field.
func DecodeNode(raw json.RawMessage) (Node, error) {
	var head struct {
		Kind Kind `json:"kind"`
		ID   ID   `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	var n Node
	switch head.Kind {
	case KindText:
		n = &Text{}
	case KindImage:
		n = &Image{}
	case KindShape:
		n = &Shape{}
	case KindContainer:
		n = &Container{}
	case "":
		return nil, errs.New(errs.ErrCodeMissingField, "%s: kind is required", nodeLabel(head.ID, "node"))
	default:
		return nil, errs.New(errs.ErrCodeUnknownNode, "%s: unknown node kind %q", nodeLabel(head.ID, "node"), head.Kind)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(n); err != nil {
		if errs.GetCode(err) != "" {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "%s", nodeLabel(head.ID, string(head.Kind)))
	}
	return n, nil
}

func nodeLabel(id ID, fallback string) string {
	if id != "" {
		return "node " + string(id)
	}
	return fallback
}
