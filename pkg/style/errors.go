package style

import (
	"errors"
	"fmt"
)

// Sentinel errors for style compilation.
var (
	// ErrStyleComposition is returned when a composition contains a scalar
	// where a style object or a list of styles was required.
	ErrStyleComposition = errors.New("style: invalid style composition")

	// ErrStyleValue is returned when a known style key has a value of the
	// wrong type or an unparsable value.
	ErrStyleValue = errors.New("style: invalid style value")
)

// CompositionError reports the position of a malformed composition entry.
type CompositionError struct {
	Path  []int // Index path from the root composition; empty for the root
	Value any   // Offending entry
}

// Error returns the error message with the entry path.
func (e *CompositionError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("style: scalar %T (%v) where a style was required", e.Value, e.Value)
	}
	return fmt.Sprintf("style: scalar %T (%v) at %v where a style was required", e.Value, e.Value, e.Path)
}

// Unwrap returns ErrStyleComposition.
func (e *CompositionError) Unwrap() error {
	return ErrStyleComposition
}

// ValueError reports a bad value for a known style key.
type ValueError struct {
	Key    string
	Value  any
	Reason string
}

// Error returns the error message with the key.
func (e *ValueError) Error() string {
	return fmt.Sprintf("style: %s: %s (got %T %v)", e.Key, e.Reason, e.Value, e.Value)
}

// Unwrap returns ErrStyleValue.
func (e *ValueError) Unwrap() error {
	return ErrStyleValue
}
