// Package scene defines the declarative scene description consumed by the
// renderer: a canvas size, an optional background, and an ordered list of
// layers. Each layer is one of four node kinds, discriminated by the "kind"
// field:
//
//   - [Text]: a string laid out into wrapped lines with optional highlight
//   - [Image]: a bitmap and/or a rounded color block
//   - [Shape]: an ordered list of canvas-style path and paint [Command]s
//   - [Container]: a box that positions its own child layers by explicit
//     coordinates or by flow along a row or column
//
// # Decoding
//
// [Decode], [Parse] and [Nodes.UnmarshalJSON] reject unknown node kinds and unknown
// shape command types with UNKNOWN_NODE / UNKNOWN_COMMAND errors, so a typo in
// a scene file fails loudly instead of drawing nothing.
//
// # Ownership
//
// The renderer never mutates a decoded scene. Every node it lays out is a
// [Clone] of the authored description, so the same *Scene can be rendered any
// number of times, from any number of goroutines.
//
// # Schema
//
// [Schema] returns a textual description of every field and variant, suitable
// for handing to producers (including language-model agents) that construct
// scene documents directly.
package scene
