package shape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface/surfacetest"
)

func cmd(t scene.CommandType) scene.Command { return scene.Command{Type: t} }

func styled(t scene.CommandType, fill string) scene.Command {
	return scene.Command{Type: t, Style: &scene.ShapeStyle{FillStyle: fill}}
}

func newCanvas(t *testing.T) (*surfacetest.Surface, *node.Env) {
	t.Helper()
	host := surfacetest.NewHost()
	s, err := host.NewSurface(200, 200)
	require.NoError(t, err)
	return s.(*surfacetest.Surface), node.NewEnv(host, s.Context(), nil)
}

func TestPathResettingMembership(t *testing.T) {
	var got []scene.CommandType
	for _, c := range scene.CommandTypes {
		if PathResetting[c] {
			got = append(got, c)
		}
	}
	assert.Equal(t, []scene.CommandType{scene.CmdMoveTo, scene.CmdRect, scene.CmdArc, scene.CmdEllipse}, got)
}

func TestStyles(t *testing.T) {
	layer := &scene.ShapeStyle{FillStyle: "layer"}
	tests := []struct {
		name string
		cmds []scene.Command
		want []string
	}{
		{
			name: "override is scoped to its paint",
			cmds: []scene.Command{styled(scene.CmdRect, "red"), cmd(scene.CmdFill), cmd(scene.CmdRect), cmd(scene.CmdFill)},
			want: []string{"red", "red", "layer", "layer"},
		},
		{
			name: "paint inherits styled path command",
			cmds: []scene.Command{cmd(scene.CmdMoveTo), styled(scene.CmdLineTo, "blue"), cmd(scene.CmdStroke), cmd(scene.CmdLineTo)},
			want: []string{"layer", "blue", "blue", "layer"},
		},
		{
			name: "last style carries across unstyled path commands",
			cmds: []scene.Command{styled(scene.CmdMoveTo, "green"), cmd(scene.CmdLineTo), cmd(scene.CmdLineTo), cmd(scene.CmdFill)},
			want: []string{"green", "green", "green", "green"},
		},
		{
			name: "paint with its own style",
			cmds: []scene.Command{styled(scene.CmdArc, "red"), styled(scene.CmdFill, "blue"), cmd(scene.CmdArc)},
			want: []string{"red", "blue", "layer"},
		},
		{
			name: "fillRect is not a paint trigger",
			cmds: []scene.Command{styled(scene.CmdFillRect, "red"), cmd(scene.CmdFillRect)},
			want: []string{"red", "red"},
		},
		{
			name: "consecutive paints reset",
			cmds: []scene.Command{styled(scene.CmdRect, "red"), cmd(scene.CmdFill), cmd(scene.CmdStroke)},
			want: []string{"red", "red", "layer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styles := Styles(layer, tt.cmds)
			got := make([]string, len(styles))
			for i, s := range styles {
				got[i] = s.FillStyle
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStylesMergeOverLayer(t *testing.T) {
	layer := &scene.ShapeStyle{FillStyle: "layer", StrokeStyle: "black", LineWidth: scene.Float(3)}
	styles := Styles(layer, []scene.Command{styled(scene.CmdRect, "red")})
	assert.Equal(t, "red", styles[0].FillStyle)
	assert.Equal(t, "black", styles[0].StrokeStyle)
	assert.Equal(t, 3.0, *styles[0].LineWidth)
}

func TestRunImplicitPaths(t *testing.T) {
	s, env := newCanvas(t)
	arc := scene.Command{Type: scene.CmdArc, X: 10, Y: 10, Radius: scene.Float(5), EndAngle: 6.28}
	require.NoError(t, Run(env.Canvas, nil, []scene.Command{arc, cmd(scene.CmdFill), arc, cmd(scene.CmdFill)}))
	assert.Equal(t, []string{"beginPath", "arc", "fill", "beginPath", "arc", "fill"}, s.Names())
}

func TestRunExplicitPathAccumulates(t *testing.T) {
	s, env := newCanvas(t)
	cmds := []scene.Command{
		cmd(scene.CmdBeginPath),
		{Type: scene.CmdRect, Width: 100, Height: 100},
		{Type: scene.CmdRect, X: 25, Y: 25, Width: 50, Height: 50},
		cmd(scene.CmdFill),
		{Type: scene.CmdMoveTo, X: 1, Y: 1},
		{Type: scene.CmdLineTo, X: 2, Y: 2},
		cmd(scene.CmdStroke),
	}
	require.NoError(t, Run(env.Canvas, nil, cmds))
	assert.Equal(t, []string{"beginPath", "rect", "rect", "fill", "beginPath", "moveTo", "lineTo", "stroke"}, s.Names())
}

func TestRunLineToDoesNotReset(t *testing.T) {
	s, env := newCanvas(t)
	cmds := []scene.Command{
		{Type: scene.CmdMoveTo}, {Type: scene.CmdLineTo, X: 5}, {Type: scene.CmdQuadraticCurveTo, X: 9},
		{Type: scene.CmdBezierCurveTo, X: 12}, {Type: scene.CmdArcTo, X2: 3, Radius: scene.Float(2)}, cmd(scene.CmdClosePath), cmd(scene.CmdStroke),
	}
	require.NoError(t, Run(env.Canvas, nil, cmds))
	assert.Len(t, s.Named("beginPath"), 1)
}

func TestRunAppliesResolvedStyle(t *testing.T) {
	s, env := newCanvas(t)
	layer := &scene.ShapeStyle{FillStyle: "#00f"}
	cmds := []scene.Command{styled(scene.CmdRect, "#f00"), cmd(scene.CmdFill), cmd(scene.CmdRect), cmd(scene.CmdFill)}
	require.NoError(t, Run(env.Canvas, layer, cmds))

	fills := s.Named("fill")
	require.Len(t, fills, 2)
	assert.Equal(t, "#f00", fills[0].State.FillStyle)
	assert.Equal(t, "#00f", fills[1].State.FillStyle)
}

func TestRoundedCornerSymmetry(t *testing.T) {
	s, env := newCanvas(t)
	rect := scene.Command{Type: scene.CmdRect, X: 0, Y: 0, Width: 40, Height: 20, RX: scene.Float(4)}
	require.NoError(t, Run(env.Canvas, nil, []scene.Command{rect, cmd(scene.CmdFill)}))

	curves := s.Named("quadraticCurveTo")
	require.Len(t, curves, 4)
	assert.Len(t, s.Named("lineTo"), 4)
	// Each corner curve spans 4 units on both axes.
	prev := s.Named("moveTo")[0].Args
	lines := s.Named("lineTo")
	for i, q := range curves {
		start := lines[i].Args
		cp, end := q.Args[0:2], q.Args[2:4]
		assert.InDelta(t, 4.0, abs(end[0]-start[0]), 1e-9, "corner %d dx", i)
		assert.InDelta(t, 4.0, abs(end[1]-start[1]), 1e-9, "corner %d dy", i)
		assert.True(t, cp[0] == start[0] || cp[0] == end[0], "corner %d control point off the box edge", i)
	}
	assert.Equal(t, []float64{4, 0}, prev)
}

func TestRoundedRadiusClamped(t *testing.T) {
	s, env := newCanvas(t)
	rect := scene.Command{Type: scene.CmdFillRect, Width: 10, Height: 6, RX: scene.Float(50), RY: scene.Float(50)}
	require.NoError(t, Run(env.Canvas, nil, []scene.Command{rect}))
	assert.Equal(t, []float64{5, 0}, s.Named("moveTo")[0].Args)
	assert.Len(t, s.Named("fill"), 1)
	assert.Empty(t, s.Named("fillRect"))
}

func TestPlainRectsUseNativeCalls(t *testing.T) {
	s, env := newCanvas(t)
	cmds := []scene.Command{
		{Type: scene.CmdFillRect, Width: 2, Height: 2},
		{Type: scene.CmdStrokeRect, Width: 2, Height: 2},
		{Type: scene.CmdClearRect, Width: 2, Height: 2},
	}
	require.NoError(t, Run(env.Canvas, nil, cmds))
	assert.Equal(t, []string{"fillRect", "strokeRect", "clearRect"}, s.Names())
}

func TestArcRadiusFallback(t *testing.T) {
	s, env := newCanvas(t)
	cmds := []scene.Command{
		{Type: scene.CmdArc, X: 1, Y: 2},
		{Type: scene.CmdArc, X: 1, Y: 2, RadiusX: scene.Float(3), RadiusY: scene.Float(4)},
		{Type: scene.CmdArc, X: 1, Y: 2, Radius: scene.Float(7), RadiusX: scene.Float(3)},
		{Type: scene.CmdArc, X: 1, Y: 2, RadiusY: scene.Float(6)},
	}
	require.NoError(t, Run(env.Canvas, nil, cmds))

	arcs := s.Named("arc")
	require.Len(t, arcs, 3)
	assert.Equal(t, 0.0, arcs[0].Args[2])
	assert.Equal(t, 7.0, arcs[1].Args[2])
	assert.Equal(t, 6.0, arcs[2].Args[2])
	ellipses := s.Named("ellipse")
	require.Len(t, ellipses, 1)
	assert.Equal(t, []float64{3, 4}, ellipses[0].Args[2:4])
}

func TestRunAutoPaint(t *testing.T) {
	tests := []struct {
		name string
		cmds []scene.Command
		want []string
	}{
		{
			name: "styled arc without paint fills",
			cmds: []scene.Command{styled(scene.CmdArc, "red")},
			want: []string{"beginPath", "arc", "fill"},
		},
		{
			name: "following paint suppresses auto paint",
			cmds: []scene.Command{styled(scene.CmdArc, "red"), cmd(scene.CmdStroke)},
			want: []string{"beginPath", "arc", "stroke"},
		},
		{
			name: "transparent fill with stroke",
			cmds: []scene.Command{{Type: scene.CmdRect, Width: 5, Height: 5, Style: &scene.ShapeStyle{FillStyle: "transparent", StrokeStyle: "#000"}}},
			want: []string{"beginPath", "rect", "stroke"},
		},
		{
			name: "unstyled commands never paint",
			cmds: []scene.Command{cmd(scene.CmdMoveTo), cmd(scene.CmdLineTo)},
			want: []string{"beginPath", "moveTo", "lineTo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, env := newCanvas(t)
			require.NoError(t, Run(env.Canvas, nil, tt.cmds))
			assert.Equal(t, tt.want, s.Names())
		})
	}
}

func TestRunInvalidColor(t *testing.T) {
	_, env := newCanvas(t)
	err := Run(env.Canvas, &scene.ShapeStyle{FillStyle: "invalid"}, []scene.Command{cmd(scene.CmdFill)})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "err = %v", err)
}

func TestRunUnknownCommand(t *testing.T) {
	_, env := newCanvas(t)
	err := Run(env.Canvas, nil, []scene.Command{{Type: "spline"}})
	assert.True(t, errs.Is(err, errs.ErrCodeUnknownCommand), "err = %v", err)
}

func TestExtent(t *testing.T) {
	tests := []struct {
		name string
		cmds []scene.Command
		want node.Box
	}{
		{"empty", nil, node.Box{}},
		{"polyline", []scene.Command{{Type: scene.CmdMoveTo, X: 5, Y: 5}, {Type: scene.CmdLineTo, X: 15, Y: 25}}, node.Box{X1: 5, Y1: 5, X2: 15, Y2: 25}},
		{"arc", []scene.Command{{Type: scene.CmdArc, X: 10, Y: 10, Radius: scene.Float(10)}}, node.Box{X1: 0, Y1: 0, X2: 20, Y2: 20}},
		{"radius-less arc skipped", []scene.Command{
			{Type: scene.CmdArc, X: 50, Y: 50},
			{Type: scene.CmdRect, Width: 10, Height: 10},
		}, node.Box{X2: 10, Y2: 10}},
		{"single arc radius skipped", []scene.Command{
			{Type: scene.CmdArc, X: 50, Y: 50, RadiusX: scene.Float(5)},
			{Type: scene.CmdRect, Width: 10, Height: 10},
		}, node.Box{X2: 10, Y2: 10}},
		{"arc radius pair", []scene.Command{{Type: scene.CmdArc, X: 10, Y: 10, RadiusX: scene.Float(4), RadiusY: scene.Float(2)}}, node.Box{X1: 6, Y1: 8, X2: 14, Y2: 12}},
		{"ellipse", []scene.Command{{Type: scene.CmdEllipse, X: 10, Y: 10, RadiusX: scene.Float(4), RadiusY: scene.Float(2)}}, node.Box{X1: 6, Y1: 8, X2: 14, Y2: 12}},
		{"bezier control points", []scene.Command{
			{Type: scene.CmdMoveTo},
			{Type: scene.CmdBezierCurveTo, CP1X: 0, CP1Y: -50, CP2X: 100, CP2Y: -50, X: 100, Y: 0},
		}, node.Box{X1: 0, Y1: -50, X2: 100, Y2: 0}},
		{"negative rect", []scene.Command{{Type: scene.CmdRect, X: 10, Y: 10, Width: -10, Height: -5}}, node.Box{X1: 0, Y1: 5, X2: 10, Y2: 10}},
		{"paints ignored", []scene.Command{{Type: scene.CmdFill}, {Type: scene.CmdLineTo, X: 3, Y: 4}}, node.Box{X1: 3, Y1: 4, X2: 3, Y2: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extent(tt.cmds))
		})
	}
}

func TestShapeLayout(t *testing.T) {
	_, env := newCanvas(t)
	arc := scene.Command{Type: scene.CmdArc, X: 10, Y: 10, Radius: scene.Float(10)}

	computed := New(&scene.Shape{Base: scene.Base{X: scene.Float(100), Y: scene.Float(50)}, Commands: []scene.Command{arc}}, false)
	_, err := computed.Bounds()
	assert.True(t, errs.Is(err, errs.ErrCodeLayoutPending))
	require.NoError(t, computed.Layout(context.Background(), env, node.Rect(0, 0, 200, 200)))
	box, err := computed.Bounds()
	require.NoError(t, err)
	assert.Equal(t, node.Box{X1: 100, Y1: 50, X2: 120, Y2: 70}, box)

	offset := New(&scene.Shape{Base: scene.Base{X: scene.Float(100), Y: scene.Float(50)}, Commands: []scene.Command{
		{Type: scene.CmdMoveTo, X: 5, Y: 5}, {Type: scene.CmdLineTo, X: 15, Y: 25},
	}}, false)
	require.NoError(t, offset.Layout(context.Background(), env, node.Rect(0, 0, 200, 200)))
	box, _ = offset.Bounds()
	assert.Equal(t, node.Box{X1: 100, Y1: 50, X2: 110, Y2: 70}, box)

	explicit := New(&scene.Shape{Base: scene.Base{X: scene.Float(1), Y: scene.Float(2), Width: scene.Float(30), Height: scene.Float(40)}, Commands: []scene.Command{arc}}, false)
	require.NoError(t, explicit.Layout(context.Background(), env, node.Rect(0, 0, 200, 200)))
	box, _ = explicit.Bounds()
	assert.Equal(t, node.Box{X1: 1, Y1: 2, X2: 31, Y2: 42}, box)

	require.NoError(t, explicit.Move(context.Background(), env, 10, 20))
	box, _ = explicit.Bounds()
	assert.Equal(t, node.Box{X1: 10, Y1: 20, X2: 40, Y2: 60}, box)
}

func TestShapeDraw(t *testing.T) {
	s, env := newCanvas(t)
	sh := New(&scene.Shape{
		Base:     scene.Base{X: scene.Float(10), Y: scene.Float(20), Rotate: 90},
		Shadow:   &scene.Shadow{Color: "#0008", Blur: 4},
		Commands: []scene.Command{{Type: scene.CmdRect, Width: 10, Height: 10}, cmd(scene.CmdFill)},
	}, false)
	ctx := context.Background()
	require.NoError(t, sh.Layout(ctx, env, node.Rect(0, 0, 200, 200)))
	require.NoError(t, sh.Draw(ctx, env))

	assert.Equal(t, "save", s.Names()[0])
	assert.Equal(t, "restore", s.Names()[len(s.Names())-1])
	assert.Equal(t, 0, s.Context().(*surfacetest.Context).Depth())

	fill := s.Named("fill")[0]
	assert.Equal(t, "#0008", fill.State.Shadow.Color)
	// Rotated 90 degrees about (15,25), then translated to (10,20):
	// the shape origin lands at (20,20).
	x, y := fill.State.Apply(0, 0)
	assert.InDelta(t, 20.0, x, 1e-9)
	assert.InDelta(t, 20.0, y, 1e-9)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
