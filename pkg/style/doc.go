// Package style compiles style compositions into canonical native style
// records and computes the minimal setter calls between two records.
//
// # Sources
//
// A Source is whatever a caller passes as the "style" prop: a single Style
// object, a slice of Styles and nested slices, with nil or false entries
// standing for "no contribution" (conditional styling):
//
//	style.Source([]any{
//	    base,
//	    isActive && active,   // false when inactive
//	    []any{override, nil},
//	})
//
// Flatten walks the composition depth first, left to right; later entries
// override earlier ones key by key. A scalar where a composite is required
// fails with a *CompositionError.
//
// # Canonical Records
//
// Compile turns a flat Style into a Canonical record with one optional field
// per native setter (size, overflow, flex, flow, padding, margin,
// borderRadius, boxShadow, backgroundColor, image, border). Shorthands such
// as padding, paddingHorizontal and paddingTop are resolved here.
//
// # Patching
//
// Patch compares two Canonical records and calls exactly one setter per
// changed field. Equal records issue no calls.
package style
