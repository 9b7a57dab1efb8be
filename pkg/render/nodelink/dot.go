package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/render/container"
	imagenode "github.com/matzehuels/canvasrender/pkg/render/image"
	"github.com/matzehuels/canvasrender/pkg/render/node"
	"github.com/matzehuels/canvasrender/pkg/render/shape"
	"github.com/matzehuels/canvasrender/pkg/render/text"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds the resolved bounding box to every label.
	// When false, only the kind and id are shown.
	Detailed bool
}

// ToDOT converts a laid-out node tree to Graphviz DOT. Edges run from each
// container to its children in paint order. Node ids need not be unique, so
// DOT names are derived from tree positions.
func ToDOT(root node.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(n node.Node, name string)
	walk = func(n node.Node, name string) {
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		c, ok := n.(*container.Container)
		if !ok {
			return
		}
		for i, child := range c.Children() {
			childName := name + "." + strconv.Itoa(i)
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", name, childName))
			walk(child, childName)
		}
	}
	walk(root, "n0")

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// Kind names the node variant.
func Kind(n node.Node) string {
	switch n.(type) {
	case *container.Container:
		return "container"
	case *text.Text:
		return "text"
	case *imagenode.Image:
		return "image"
	case *shape.Shape:
		return "shape"
	}
	return "node"
}

func fmtLabel(n node.Node, detailed bool) string {
	label := Kind(n)
	if id := n.ID(); id != "" && id != label {
		label += " " + id
	}
	if !detailed {
		return label
	}
	b, err := n.Bounds()
	if err != nil {
		return label + "\n(not laid out)"
	}
	return fmt.Sprintf("%s\n(%g, %g)-(%g, %g)\n%g x %g", label, b.X1, b.Y1, b.X2, b.Y2, b.Width(), b.Height())
}

func fmtAttrs(n node.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch n.(type) {
	case *container.Container:
		attrs = append(attrs, "fillcolor=lightgrey")
	case *text.Text:
		attrs = append(attrs, "shape=note", "style=filled")
	case *imagenode.Image:
		attrs = append(attrs, "fillcolor=lightblue")
	case *shape.Shape:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeEncode, err, "render svg")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
