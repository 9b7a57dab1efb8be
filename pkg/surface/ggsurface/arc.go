package ggsurface

import (
	"math"

	"github.com/gogpu/gg"
)

const tau = 2 * math.Pi

// arcSweep returns the signed angle an arc covers from start to end.
// A full turn is only produced when the inputs already span one.
func arcSweep(start, end float64, ccw bool) float64 {
	if !ccw {
		if end-start >= tau {
			return tau
		}
		d := math.Mod(end-start, tau)
		if d < 0 {
			d += tau
		}
		return d
	}
	if start-end >= tau {
		return -tau
	}
	d := math.Mod(start-end, tau)
	if d < 0 {
		d += tau
	}
	return -d
}

func ellipsePoint(cx, cy, rx, ry, rot, a float64) gg.Point {
	sinR, cosR := math.Sincos(rot)
	u, v := rx*math.Cos(a), ry*math.Sin(a)
	return gg.Pt(cx+u*cosR-v*sinR, cy+u*sinR+v*cosR)
}

// arcCubics approximates an elliptical arc with cubic segments of at most a
// quarter turn each. Each entry holds the two control points and the end point.
func arcCubics(cx, cy, rx, ry, rot, start, sweep float64) [][3]gg.Point {
	if sweep == 0 {
		return nil
	}
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	sinR, cosR := math.Sincos(rot)
	mapPt := func(u, v float64) gg.Point {
		u, v = u*rx, v*ry
		return gg.Pt(cx+u*cosR-v*sinR, cy+u*sinR+v*cosR)
	}

	out := make([][3]gg.Point, 0, n)
	a0 := start
	for range n {
		a1 := a0 + step
		s0, c0 := math.Sincos(a0)
		s1, c1 := math.Sincos(a1)
		out = append(out, [3]gg.Point{
			mapPt(c0-k*s0, s0+k*c0),
			mapPt(c1+k*s1, s1-k*c1),
			mapPt(c1, s1),
		})
		a0 = a1
	}
	return out
}

type arcToArc struct {
	center     gg.Point
	start, end float64
	ccw        bool
}

// arcToGeometry finds the circle of radius r tangent to the lines p0-p1 and
// p1-p2. It reports false when the corner is degenerate and arcTo reduces to
// a straight line to p1.
func arcToGeometry(p0, p1, p2 gg.Point, r float64) (arcToArc, bool) {
	v1x, v1y := p0.X-p1.X, p0.Y-p1.Y
	v2x, v2y := p2.X-p1.X, p2.Y-p1.Y
	l1, l2 := math.Hypot(v1x, v1y), math.Hypot(v2x, v2y)
	if r == 0 || l1 == 0 || l2 == 0 {
		return arcToArc{}, false
	}
	v1x, v1y = v1x/l1, v1y/l1
	v2x, v2y = v2x/l2, v2y/l2
	cross := v1x*v2y - v1y*v2x
	if math.Abs(cross) < 1e-9 {
		return arcToArc{}, false
	}
	theta := math.Acos(math.Max(-1, math.Min(1, v1x*v2x+v1y*v2y)))
	d := r / math.Tan(theta/2)
	t1 := gg.Pt(p1.X+v1x*d, p1.Y+v1y*d)
	t2 := gg.Pt(p1.X+v2x*d, p1.Y+v2y*d)

	bx, by := v1x+v2x, v1y+v2y
	bl := math.Hypot(bx, by)
	h := r / math.Sin(theta/2)
	center := gg.Pt(p1.X+bx/bl*h, p1.Y+by/bl*h)

	return arcToArc{
		center: center,
		start:  math.Atan2(t1.Y-center.Y, t1.X-center.X),
		end:    math.Atan2(t2.Y-center.Y, t2.X-center.X),
		ccw:    cross > 0,
	}, true
}
