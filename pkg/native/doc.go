// Package native defines the call surface of the retained native scene graph.
//
// The scene graph lives in a separate (native) process. The engine never
// talks to it directly; it issues calls against a Scene, which a transport
// implementation batches and ships at the end of every frame.
//
// # Surfaces
//
// A surface is a single node of the native scene graph, identified by an
// opaque SurfaceID. RootSurface is the window's root and always exists.
// NoSurface is the zero value and stands for "no surface", for example an
// absent insertBefore reference.
//
// # Style Fields
//
// Style is applied field by field. Each canonical field has its own setter
// and its own value type (Size, Overflow, Flex, Flow, Insets, Corners,
// Shadow, Color, Border). A nil value clears the field on the native side.
//
// # Listeners
//
// Event listeners are bound per surface and event name. A Listener is
// identified by its pointer, so rebinding the same *Listener is a no-op for
// callers that track bindings.
//
// # Testing
//
// Recorder is an in-memory Scene that records every call. It is used by the
// tests of every package that drives a scene.
package native
