package node

import (
	"math"

	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface"
)

// RoundedRect appends a rounded rectangle to the current path as four edges
// joined by quadratic corners. Radii are clamped to half the box size; when
// both are zero a plain rectangle is appended instead.
func RoundedRect(c surface.Context2D, x, y, w, h, rx, ry float64) {
	rx = math.Min(math.Abs(rx), math.Abs(w)/2)
	ry = math.Min(math.Abs(ry), math.Abs(h)/2)
	if rx == 0 && ry == 0 {
		c.Rect(x, y, w, h)
		return
	}
	c.MoveTo(x+rx, y)
	c.LineTo(x+w-rx, y)
	c.QuadraticCurveTo(x+w, y, x+w, y+ry)
	c.LineTo(x+w, y+h-ry)
	c.QuadraticCurveTo(x+w, y+h, x+w-rx, y+h)
	c.LineTo(x+rx, y+h)
	c.QuadraticCurveTo(x, y+h, x, y+h-ry)
	c.LineTo(x, y+ry)
	c.QuadraticCurveTo(x, y, x+rx, y)
	c.ClosePath()
}

// Shadow converts a scene shadow to the surface form. Nil disables shadows.
func Shadow(s *scene.Shadow) surface.Shadow {
	if s == nil {
		return surface.Shadow{}
	}
	return surface.Shadow{Color: s.Color, Blur: s.Blur, OffsetX: s.OffsetX, OffsetY: s.OffsetY}
}

// Coord dereferences an optional coordinate.
func Coord(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
