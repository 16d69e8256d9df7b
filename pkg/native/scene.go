package native

import "context"

// SurfaceID identifies a surface in the native scene graph.
type SurfaceID uint32

const (
	// NoSurface is the absent surface.
	NoSurface SurfaceID = 0

	// RootSurface is the window's root surface. It is created by the native
	// side together with the window and is never destroyed by the engine.
	RootSurface SurfaceID = 1

	// FirstSurface is the first id handed out by allocators.
	FirstSurface SurfaceID = 2
)

// StyleSetter has one setter per canonical style field.
// A nil value clears the field.
type StyleSetter interface {
	SetSize(id SurfaceID, v *Size)
	SetOverflow(id SurfaceID, v *Overflow)
	SetFlex(id SurfaceID, v *Flex)
	SetFlow(id SurfaceID, v *Flow)
	SetPadding(id SurfaceID, v *Insets)
	SetMargin(id SurfaceID, v *Insets)
	SetBorderRadius(id SurfaceID, v *Corners)
	SetBoxShadow(id SurfaceID, v *Shadow)
	SetBackgroundColor(id SurfaceID, v *Color)
	SetImage(id SurfaceID, v *string)
	SetBorder(id SurfaceID, v *Border)
}

// Scene is the primitive call surface of the native scene graph.
//
// Calls do not return errors: implementations are allowed to batch them and
// report transport failures when the batch is flushed (see Flusher).
type Scene interface {
	StyleSetter

	// CreateSurface allocates a new, detached surface.
	CreateSurface() SurfaceID

	// CreateText allocates a new, detached text surface.
	CreateText() SurfaceID

	// AppendChild moves child to the end of parent's child list.
	AppendChild(parent, child SurfaceID)

	// InsertBefore moves child right before `before` in parent's child list.
	InsertBefore(parent, child, before SurfaceID)

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child SurfaceID)

	// DestroySurface frees a surface together with its subtree.
	DestroySurface(id SurfaceID)

	// SetText sets the text content. nil clears it.
	SetText(id SurfaceID, text *string)

	// SetEventListener binds a listener for the named event.
	SetEventListener(id SurfaceID, name string, l *Listener)

	// RemoveEventListener unbinds the named event.
	RemoveEventListener(id SurfaceID, name string)

	// SetProperty forwards an opaque property. nil clears it.
	SetProperty(id SurfaceID, key string, value any)
}

// Flusher is implemented by scenes that batch calls.
// Flush ships everything issued since the previous flush.
type Flusher interface {
	Flush() error
}

// ContextFlusher is implemented by flushers whose flush can be traced or
// cancelled. The engine prefers it over Flusher.
type ContextFlusher interface {
	FlushContext(ctx context.Context) error
}
