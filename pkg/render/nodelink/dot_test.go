package nodelink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/canvasrender/pkg/render"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface/surfacetest"
)

const tree = `{
  "width": 200, "height": 100,
  "layers": [
    {"kind": "text", "id": "title", "content": "Hi", "style": {"fontSize": 10}},
    {"kind": "container", "id": "box", "width": 100, "height": 50, "layers": [
      {"kind": "image", "id": "dup", "width": 10, "height": 10, "color": "red"},
      {"kind": "image", "id": "dup", "width": 10, "height": 10, "color": "blue"}
    ]}
  ]
}`

func TestToDOT(t *testing.T) {
	var s scene.Scene
	if err := json.Unmarshal([]byte(tree), &s); err != nil {
		t.Fatal(err)
	}
	root, err := render.New(surfacetest.NewHost(), nil).Layout(context.Background(), &s)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	dot := ToDOT(root, Options{})
	for _, want := range []string{
		"digraph G",
		`"n0" [label="container root"`,
		`"n0.0" [label="text title"`,
		`"n0.1.0" [label="image dup"`,
		`"n0.1.1" [label="image dup"`,
		`"n0" -> "n0.1";`,
		`"n0.1" -> "n0.1.1";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	detailed := ToDOT(root, Options{Detailed: true})
	if !strings.Contains(detailed, `(0, 0)-(30, 10)`) {
		t.Errorf("detailed ToDOT() missing root bounds (union of the children)\n%s", detailed)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}
