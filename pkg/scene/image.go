package scene

// ObjectFit controls how a bitmap fills its box.
type ObjectFit string

const (
	FitContain ObjectFit = "contain"
	FitCover   ObjectFit = "cover"
)

// Image draws a bitmap, a rounded color block, or a color block under a
// bitmap. With no URL both Width and Height are required.
type Image struct {
	Base
	URL         string    `json:"url,omitempty"`
	Color       string    `json:"color,omitempty"`
	ObjectFit   ObjectFit `json:"objectFit,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	GlobalAlpha *float64  `json:"globalAlpha,omitempty"`
	Shadow      *Shadow   `json:"shadow,omitempty"`
}

func (*Image) NodeKind() Kind { return KindImage }
func (*Image) sealed()        {}
