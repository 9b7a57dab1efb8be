// Package pkg provides the libraries behind canvasrender, a declarative
// scene renderer.
//
// # Overview
//
// A scene is a JSON (or YAML) document describing a canvas size and a list of
// layers: text blocks, images, vector shapes and containers that arrange
// their children in rows or columns. Rendering runs in two phases. Layout
// resolves every node's bounding box, measuring text and loading images.
// Draw then paints the nodes in order on a 2D drawing surface, which is
// finally encoded as PNG or JPEG.
//
// # Architecture
//
//	scene file (JSON/YAML)
//	         ↓
//	    [io] + [scene] (decode, validate)
//	         ↓
//	    [render] (layout → draw on a [surface] host)
//	         ↓
//	    PNG/JPEG bytes, cached by [pipeline]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/canvasrender/pkg/io"
//	    "github.com/matzehuels/canvasrender/pkg/render"
//	    "github.com/matzehuels/canvasrender/pkg/surface/ggsurface"
//	)
//
//	s, _ := io.ReadScene("card.json")
//	r := render.New(ggsurface.NewHost(nil, nil), nil)
//	png, _ := r.Render(ctx, s)
//
// # Main Packages
//
// ## Scene Model
//
// [scene] - Tagged-union node types, shape commands, validation, deep clone
// and the published schema.
//
// ## Rendering
//
// [render] - The renderer facade and the node implementations in its
// subpackages: shape interpreter, text layout with highlights, image
// placement and the container layout engine.
//
// [render/nodelink] - Graphviz diagrams of laid-out node trees.
//
// [surface] - The drawing capability a host provides. [surface/ggsurface]
// rasterizes headlessly, [surface/domsurface] drives a browser canvas under
// WebAssembly and [surface/surfacetest] records calls for tests.
//
// ## Infrastructure
//
// [pipeline] - Options, defaults and the caching [pipeline.Runner] shared
// by CLI and server.
//
// [cache] - Artifact caches (file, null, Redis) and key derivation.
//
// [httputil] - Remote image fetching with retry and an on-disk cache.
//
// [fonts] - Embedded Go fonts and user font directories.
//
// [errors] - Coded errors; [observability] - event hooks; [buildinfo] -
// version information.
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/render/nodelink
// [surface]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/surface
// [surface/ggsurface]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/surface/ggsurface
// [surface/domsurface]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/surface/domsurface
// [surface/surfacetest]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/surface/surfacetest
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/httputil
// [fonts]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/fonts
// [errors]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/buildinfo
//
// [io]: https://pkg.go.dev/github.com/matzehuels/canvasrender/pkg/io
package pkg
