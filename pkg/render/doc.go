// Package render turns a scene description into encoded image bytes.
//
// # Overview
//
// A [Renderer] owns nothing but a [surface.Host]. Each call to
// [Renderer.Render] creates a fresh surface, wraps the scene's layers in an
// implicit root container spanning the canvas, lays the tree out, draws it,
// and encodes the result:
//
//	r := render.New(ggsurface.NewHost(fonts.Default()), logger)
//	png, err := r.Render(ctx, sc)
//
// Independent calls share no state, so a Renderer may be used from many
// goroutines at once. Work within one call is strictly sequential.
//
// # Node packages
//
//   - [container]: flow layout of child layers
//   - [text]: wrapping, alignment and highlights
//   - [image]: bitmap fitting and color blocks
//   - [shape]: the shape command interpreter
//   - [node]: the contract they share
//
// # Errors
//
// A render either returns the full image or fails with the first error; there
// is no partial output. Errors carry codes from pkg/errors; configuration
// errors name the offending node.
//
// [container]: github.com/matzehuels/canvasrender/pkg/render/container
// [text]: github.com/matzehuels/canvasrender/pkg/render/text
// [image]: github.com/matzehuels/canvasrender/pkg/render/image
// [shape]: github.com/matzehuels/canvasrender/pkg/render/shape
// [node]: github.com/matzehuels/canvasrender/pkg/render/node
package render
