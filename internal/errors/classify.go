package errors

import (
	stderrors "errors"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/protocol"
	"github.com/vango-dev/scenesync/pkg/style"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// sentinels maps package sentinel errors to registered codes. Order matters
// only when one error wraps several sentinels; the first match wins.
var sentinels = []struct {
	err  error
	code string
}{
	{engine.ErrNoActiveFrame, "E001"},
	{engine.ErrNotAChild, "E040"},
	{engine.ErrHierarchy, "E041"},
	{engine.ErrUnknownSurface, "E042"},
	{engine.ErrRootSurface, "E043"},
	{engine.ErrBadListener, "E044"},
	{style.ErrStyleComposition, "E020"},
	{style.ErrStyleValue, "E021"},
	{protocol.ErrFrameTooLarge, "E061"},
	{protocol.ErrInvalidFrameType, "E062"},
	{protocol.ErrInvalidOp, "E063"},
	{protocol.ErrInvalidEvent, "E064"},
	{protocol.ErrUnsupportedValue, "E065"},
}

// Classify returns the registered code for the first known sentinel in
// err's chain, or "".
func Classify(err error) string {
	for _, s := range sentinels {
		if stderrors.Is(err, s.err) {
			return s.code
		}
	}
	return ""
}
