package scene

// Direction is the flow axis of a container.
type Direction string

const (
	DirectionRow    Direction = "row"
	DirectionColumn Direction = "column"
)

// ItemAlign is the cross-axis alignment of a container's children.
type ItemAlign string

const (
	ItemAlignStart  ItemAlign = "start"
	ItemAlignCenter ItemAlign = "center"
)

// Container positions its child layers. Children with explicit x/y are
// placed relative to the container's origin; the rest flow after their
// previous sibling along Direction, separated by Gap.
type Container struct {
	Base
	Direction Direction `json:"direction,omitempty"`
	ItemAlign ItemAlign `json:"itemAlign,omitempty"`
	Gap       Gap       `json:"gap,omitempty"`
	Layers    Nodes     `json:"layers"`
}

func (*Container) NodeKind() Kind { return KindContainer }
func (*Container) sealed()        {}
