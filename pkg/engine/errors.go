package engine

import (
	"errors"
	"fmt"

	"github.com/vango-dev/scenesync/pkg/native"
)

// Sentinel errors for engine operations.
var (
	// ErrNoActiveFrame is returned when a mutation is issued outside a
	// BeginFrame/CommitFrame boundary.
	ErrNoActiveFrame = errors.New("engine: no active frame")

	// ErrNotAChild is returned when a removal target is not a child of the
	// given parent.
	ErrNotAChild = errors.New("engine: not a child")

	// ErrHierarchy is returned when an insertion would make a surface its
	// own ancestor, or would insert the root surface.
	ErrHierarchy = errors.New("engine: hierarchy violation")

	// ErrUnknownSurface is returned for ids that are not live surfaces.
	ErrUnknownSurface = errors.New("engine: unknown surface")

	// ErrRootSurface is returned when releasing the root surface.
	ErrRootSurface = errors.New("engine: root surface cannot be released")

	// ErrBadListener is returned when an event prop holds something other
	// than a *native.Listener or a func(native.Event).
	ErrBadListener = errors.New("engine: event prop is not a listener")
)

// TreeError wraps a structural error with the surfaces involved.
type TreeError struct {
	Op     string // "appendChild", "insertBefore", "removeChild", "replaceChild"
	Parent native.SurfaceID
	Child  native.SurfaceID
	Err    error
}

// Error returns the error message with tree context.
func (e *TreeError) Error() string {
	return fmt.Sprintf("engine: %s(parent %d, child %d): %v", e.Op, e.Parent, e.Child, e.Err)
}

// Unwrap returns the underlying error.
func (e *TreeError) Unwrap() error {
	return e.Err
}

// PropError wraps a property error with the surface and key.
type PropError struct {
	Surface native.SurfaceID
	Key     string
	Err     error
}

// Error returns the error message with surface context.
func (e *PropError) Error() string {
	return fmt.Sprintf("engine: surface %d: prop %q: %v", e.Surface, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PropError) Unwrap() error {
	return e.Err
}
