// Package vdom is a small declarative producer for the engine.
//
// A render function returns a VNode tree describing the wanted scene. Root
// keeps the tree mounted last time and, on each Render, diffs the new tree
// against it and drives a reconciler.Host with the resulting creates,
// updates, moves and removals, all inside one frame.
//
// # Core Types
//
// VNode is the building block: elements (native surfaces of some type),
// text, fragments and components. Fragments and components never own a
// surface; their output is spliced into the parent's children.
//
// # Element API
//
// Elements are created with variadic factory functions:
//
//	View("View", Style(map[string]any{"padding": 8}),
//	    El("Label", Text("Count")),
//	    El("Button", OnClick(handler), Text("+1")),
//	)
//
// # Diffing
//
// Children with keys are matched by key and moved into place; children
// without keys are matched by position. A matched child whose kind or type
// changed is replaced.
package vdom
