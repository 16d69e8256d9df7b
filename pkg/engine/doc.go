// Package engine translates changes to a logical UI tree into the minimal,
// ordered sequence of calls against a retained native scene graph.
//
// Two producers drive the engine: the declarative reconciler host (package
// reconciler) and the imperative document API (package dom). Both go
// through the same Engine, which owns surface lifecycle, property diffing,
// style patching, listener bindings and the parent/child bookkeeping.
//
// # Frames
//
// Every mutation happens inside a frame:
//
//	eng.BeginFrame(session)
//	id, err := eng.Create("View", engine.Props{"style": style.Style{"padding": 5}})
//	...
//	err = eng.CommitFrame() // flushes the session
//
// Calls outside a frame fail with ErrNoActiveFrame. Batch wraps the three
// steps and flushes (without rollback) when the callback fails.
//
// # Props
//
// Props are diffed key by key against the previously applied record:
//
//   - "children" is structural and never diffed
//   - "style" is compiled and patched field by field (package style),
//     skipped entirely when the composition is structurally unchanged
//   - "text" sets the text content
//   - "on" + upper-case letter keys ("onClick") bind listeners
//   - every other key is forwarded with SetProperty
//
// Keys missing from the new record are cleared with a nil value through the
// same routing. Unchanged keys issue no calls.
//
// # Structure
//
// Append, InsertBefore, RemoveChild and ReplaceChild keep the engine's child
// sequences and the native child lists in the same order. InsertBefore and
// ReplaceChild ignore references that are not children of the parent.
package engine
