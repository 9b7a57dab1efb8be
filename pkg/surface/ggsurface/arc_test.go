package ggsurface

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestArcSweep(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		ccw        bool
		want       float64
	}{
		{"quarter", 0, math.Pi / 2, false, math.Pi / 2},
		{"full", 0, tau, false, tau},
		{"over full", 0, 3 * math.Pi, false, tau},
		{"wraps clockwise", math.Pi / 2, 0, false, 3 * math.Pi / 2},
		{"anticlockwise", 0, math.Pi / 2, true, -3 * math.Pi / 2},
		{"anticlockwise full", tau, 0, true, -tau},
		{"empty", 1, 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arcSweep(tt.start, tt.end, tt.ccw); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("arcSweep = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArcCubicsStayOnCircle(t *testing.T) {
	segs := arcCubics(10, 10, 5, 5, 0, 0, tau)
	if len(segs) != 4 {
		t.Fatalf("segments = %d, want 4", len(segs))
	}
	for _, s := range segs {
		if d := math.Hypot(s[2].X-10, s[2].Y-10); math.Abs(d-5) > 1e-9 {
			t.Errorf("end point %v off circle (r=%v)", s[2], d)
		}
	}
	if last := segs[3][2]; math.Abs(last.X-15) > 1e-9 || math.Abs(last.Y-10) > 1e-9 {
		t.Errorf("full circle ends at %v, want (15,10)", last)
	}
	if arcCubics(0, 0, 1, 1, 0, 0, 0) != nil {
		t.Error("zero sweep produced segments")
	}
}

func TestArcToGeometry(t *testing.T) {
	// Right-angle corner at (10,0) turning down: circle of radius 5 centered
	// at (5,5), from angle -pi/2 to 0 clockwise.
	a, ok := arcToGeometry(gg.Pt(0, 0), gg.Pt(10, 0), gg.Pt(10, 10), 5)
	if !ok {
		t.Fatal("expected arc")
	}
	if math.Abs(a.center.X-5) > 1e-9 || math.Abs(a.center.Y-5) > 1e-9 {
		t.Errorf("center = %v, want (5,5)", a.center)
	}
	if math.Abs(a.start+math.Pi/2) > 1e-9 || math.Abs(a.end) > 1e-9 || a.ccw {
		t.Errorf("arc = %+v", a)
	}

	for _, tc := range [][3]gg.Point{
		{gg.Pt(0, 0), gg.Pt(0, 0), gg.Pt(5, 5)},
		{gg.Pt(0, 0), gg.Pt(5, 0), gg.Pt(10, 0)},
	} {
		if _, ok := arcToGeometry(tc[0], tc[1], tc[2], 5); ok {
			t.Errorf("%v: expected degenerate", tc)
		}
	}
}
