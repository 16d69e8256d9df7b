package native

import "fmt"

// Unit is the unit of a Dimension.
type Unit uint8

const (
	UnitAuto    Unit = iota // Resolved by the native layout
	UnitPoint               // Device-independent points
	UnitPercent             // Percentage of the parent
)

// String returns the string representation of the Unit.
func (u Unit) String() string {
	switch u {
	case UnitAuto:
		return "auto"
	case UnitPoint:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return "unknown"
	}
}

// Dimension is a length with a unit.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Auto is the automatic dimension.
var Auto = Dimension{Unit: UnitAuto}

// Point returns a dimension in points.
func Point(v float64) Dimension { return Dimension{Value: v, Unit: UnitPoint} }

// Percent returns a dimension in percent.
func Percent(v float64) Dimension { return Dimension{Value: v, Unit: UnitPercent} }

// String returns the string representation of the Dimension.
func (d Dimension) String() string {
	if d.Unit == UnitAuto {
		return "auto"
	}
	return fmt.Sprintf("%g%s", d.Value, d.Unit)
}

// Size is the requested width and height.
type Size struct {
	Width  Dimension
	Height Dimension
}

// Overflow controls clipping of children.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// String returns the string representation of the Overflow.
func (o Overflow) String() string {
	switch o {
	case OverflowVisible:
		return "visible"
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Flex holds the flex item parameters.
type Flex struct {
	Grow   float64
	Shrink float64
	Basis  Dimension
}

// Direction is the main axis of a flex container.
type Direction uint8

const (
	DirectionColumn Direction = iota
	DirectionRow
	DirectionColumnReverse
	DirectionRowReverse
)

// String returns the string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionColumn:
		return "column"
	case DirectionRow:
		return "row"
	case DirectionColumnReverse:
		return "column-reverse"
	case DirectionRowReverse:
		return "row-reverse"
	default:
		return "unknown"
	}
}

// Align is an alignment keyword. AlignAuto leaves the native default.
type Align uint8

const (
	AlignAuto Align = iota
	AlignStart
	AlignCenter
	AlignEnd
	AlignStretch
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
	AlignSpaceEvenly
)

var alignNames = [...]string{
	AlignAuto:         "auto",
	AlignStart:        "flex-start",
	AlignCenter:       "center",
	AlignEnd:          "flex-end",
	AlignStretch:      "stretch",
	AlignBaseline:     "baseline",
	AlignSpaceBetween: "space-between",
	AlignSpaceAround:  "space-around",
	AlignSpaceEvenly:  "space-evenly",
}

// String returns the string representation of the Align.
func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "unknown"
}

// ParseAlign parses an alignment keyword.
func ParseAlign(s string) (Align, bool) {
	for i, name := range alignNames {
		if name == s {
			return Align(i), true
		}
	}
	switch s {
	case "start":
		return AlignStart, true
	case "end":
		return AlignEnd, true
	}
	return AlignAuto, false
}

// Flow holds the flex container parameters.
type Flow struct {
	Direction    Direction
	Wrap         bool
	Justify      Align
	AlignItems   Align
	AlignContent Align
}

// Insets are per-side lengths, used for padding and margin.
type Insets struct {
	Top    Dimension
	Right  Dimension
	Bottom Dimension
	Left   Dimension
}

// Corners are per-corner radii in points.
type Corners struct {
	TopLeft     float64
	TopRight    float64
	BottomRight float64
	BottomLeft  float64
}

// Color is a non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// String returns the color as #rrggbbaa.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Shadow is a box shadow.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Color   Color
}

// BorderStyle is the line style of a border.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSolid
	BorderDashed
	BorderDotted
)

// String returns the string representation of the BorderStyle.
func (s BorderStyle) String() string {
	switch s {
	case BorderNone:
		return "none"
	case BorderSolid:
		return "solid"
	case BorderDashed:
		return "dashed"
	case BorderDotted:
		return "dotted"
	default:
		return "unknown"
	}
}

// Border is a uniform border.
type Border struct {
	Width float64
	Style BorderStyle
	Color Color
}
