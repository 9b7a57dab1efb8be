// Package nodelink renders a laid-out scene as a node-link tree diagram.
//
// Each node becomes a box labelled with its kind and id; edges run from a
// container to its children in paint order. With [Options.Detailed] the
// resolved bounding boxes are included, which makes the diagram a quick way
// to inspect flow layout without rasterizing the scene.
//
//	root, err := renderer.Layout(ctx, s)
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses [github.com/goccy/go-graphviz] in process.
package nodelink
