// Package io reads scene descriptions from disk and writes rendered artifacts.
//
// # Scene Files
//
// Scenes are authored as JSON or YAML. Both encodings describe the same
// document; YAML is converted to JSON before decoding so that every scene goes
// through the same discriminated decoder and validation in [scene.Parse]:
//
//	layers:
//	  - kind: text
//	    id: title
//	    content: Hello
//	    style: {fontSize: 32}
//
// Use [ReadScene] to load a file (the encoding is chosen by extension, with
// content sniffing for unknown extensions) or [DecodeScene] to read from any
// io.Reader with an explicit [Format].
//
// # Artifacts
//
// [WriteArtifact] writes encoded image bytes to a path, creating parent
// directories. [OutputPath] derives the default artifact path for a scene
// file ("card.yaml" renders to "card.png").
//
// [scene.Parse]: github.com/matzehuels/canvasrender/pkg/scene.Parse
package io
