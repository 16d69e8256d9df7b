package style

import "github.com/vango-dev/scenesync/pkg/native"

// Field names a canonical style field.
type Field uint8

const (
	FieldSize Field = iota
	FieldOverflow
	FieldFlex
	FieldFlow
	FieldPadding
	FieldMargin
	FieldBorderRadius
	FieldBoxShadow
	FieldBackgroundColor
	FieldImage
	FieldBorder
)

var fieldNames = [...]string{
	FieldSize:            "size",
	FieldOverflow:        "overflow",
	FieldFlex:            "flex",
	FieldFlow:            "flow",
	FieldPadding:         "padding",
	FieldMargin:          "margin",
	FieldBorderRadius:    "borderRadius",
	FieldBoxShadow:       "boxShadow",
	FieldBackgroundColor: "backgroundColor",
	FieldImage:           "image",
	FieldBorder:          "border",
}

// String returns the canonical field name.
func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// Changed returns the fields whose values differ between next and prev,
// in canonical order.
func Changed(next, prev Canonical) []Field {
	var out []Field
	if !same(next.Size, prev.Size) {
		out = append(out, FieldSize)
	}
	if !same(next.Overflow, prev.Overflow) {
		out = append(out, FieldOverflow)
	}
	if !same(next.Flex, prev.Flex) {
		out = append(out, FieldFlex)
	}
	if !same(next.Flow, prev.Flow) {
		out = append(out, FieldFlow)
	}
	if !same(next.Padding, prev.Padding) {
		out = append(out, FieldPadding)
	}
	if !same(next.Margin, prev.Margin) {
		out = append(out, FieldMargin)
	}
	if !same(next.BorderRadius, prev.BorderRadius) {
		out = append(out, FieldBorderRadius)
	}
	if !same(next.BoxShadow, prev.BoxShadow) {
		out = append(out, FieldBoxShadow)
	}
	if !same(next.BackgroundColor, prev.BackgroundColor) {
		out = append(out, FieldBackgroundColor)
	}
	if !same(next.Image, prev.Image) {
		out = append(out, FieldImage)
	}
	if !same(next.Border, prev.Border) {
		out = append(out, FieldBorder)
	}
	return out
}

// Patch issues one setter call for every field that differs between next
// and prev, passing next's value (nil clears). It returns the number of
// calls made.
func Patch(s native.StyleSetter, id native.SurfaceID, next, prev Canonical) int {
	changed := Changed(next, prev)
	for _, f := range changed {
		switch f {
		case FieldSize:
			s.SetSize(id, next.Size)
		case FieldOverflow:
			s.SetOverflow(id, next.Overflow)
		case FieldFlex:
			s.SetFlex(id, next.Flex)
		case FieldFlow:
			s.SetFlow(id, next.Flow)
		case FieldPadding:
			s.SetPadding(id, next.Padding)
		case FieldMargin:
			s.SetMargin(id, next.Margin)
		case FieldBorderRadius:
			s.SetBorderRadius(id, next.BorderRadius)
		case FieldBoxShadow:
			s.SetBoxShadow(id, next.BoxShadow)
		case FieldBackgroundColor:
			s.SetBackgroundColor(id, next.BackgroundColor)
		case FieldImage:
			s.SetImage(id, next.Image)
		case FieldBorder:
			s.SetBorder(id, next.Border)
		}
	}
	return len(changed)
}

// fieldKeys are the style keys a surface also accepts as top-level props.
var fieldKeys = map[string]bool{
	"overflow":        true,
	"flex":            true,
	"padding":         true,
	"margin":          true,
	"borderRadius":    true,
	"backgroundColor": true,
	"image":           true,
}

// IsFieldKey reports whether a top-level prop key sets a style field.
func IsFieldKey(key string) bool {
	return fieldKeys[key]
}
