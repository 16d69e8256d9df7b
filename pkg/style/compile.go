package style

import (
	"strconv"
	"strings"

	"github.com/vango-dev/scenesync/pkg/native"
)

// Canonical is the flat, field-keyed record of native style fields.
// A nil field is absent. Records are immutable once produced.
type Canonical struct {
	Size            *native.Size
	Overflow        *native.Overflow
	Flex            *native.Flex
	Flow            *native.Flow
	Padding         *native.Insets
	Margin          *native.Insets
	BorderRadius    *native.Corners
	BoxShadow       *native.Shadow
	BackgroundColor *native.Color
	Image           *string
	Border          *native.Border
}

// IsEmpty reports whether no field is present.
func (c Canonical) IsEmpty() bool {
	return c == Canonical{}
}

// Equal reports whether every field of c and o is equal by value.
func (c Canonical) Equal(o Canonical) bool {
	return same(c.Size, o.Size) &&
		same(c.Overflow, o.Overflow) &&
		same(c.Flex, o.Flex) &&
		same(c.Flow, o.Flow) &&
		same(c.Padding, o.Padding) &&
		same(c.Margin, o.Margin) &&
		same(c.BorderRadius, o.BorderRadius) &&
		same(c.BoxShadow, o.BoxShadow) &&
		same(c.BackgroundColor, o.BackgroundColor) &&
		same(c.Image, o.Image) &&
		same(c.Border, o.Border)
}

// same compares two optional values by value.
func same[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Compile flattens src and converts it into a Canonical record.
// Unknown keys are ignored; nil values count as absent.
func Compile(src Source) (Canonical, error) {
	flat, err := Flatten(src)
	if err != nil {
		return Canonical{}, err
	}
	return CompileFlat(flat)
}

// CompileFlat converts an already flat Style into a Canonical record.
func CompileFlat(s Style) (Canonical, error) {
	var c Canonical
	r := reader{s: s}

	// size
	w, hasW := r.dim("width")
	h, hasH := r.dim("height")
	if hasW || hasH {
		c.Size = &native.Size{Width: w, Height: h}
	}

	// overflow
	if v, ok := r.keyword("overflow"); ok {
		o, ok := parseOverflow(v)
		if !ok {
			r.fail("overflow", v, "expected visible, hidden or scroll")
		} else {
			c.Overflow = &o
		}
	}

	c.Flex = r.flex()
	c.Flow = r.flow()
	c.Padding = r.insets("padding")
	c.Margin = r.insets("margin")
	c.BorderRadius = r.corners()
	c.BoxShadow = r.shadow()

	if col, ok := r.color("backgroundColor"); ok {
		c.BackgroundColor = &col
	}

	if img, ok := r.str("backgroundImage"); ok {
		c.Image = &img
	} else if img, ok := r.str("image"); ok {
		c.Image = &img
	}

	c.Border = r.border()

	if r.err != nil {
		return Canonical{}, r.err
	}
	return c, nil
}

// reader reads typed values out of a flat Style and keeps the first error.
type reader struct {
	s   Style
	err error
}

func (r *reader) fail(key string, v any, reason string) {
	if r.err == nil {
		r.err = &ValueError{Key: key, Value: v, Reason: reason}
	}
}

func (r *reader) raw(key string) (any, bool) {
	v, ok := r.s[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) num(key string) (float64, bool) {
	v, ok := r.raw(key)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		r.fail(key, v, "expected a number")
		return 0, false
	}
	return f, true
}

func (r *reader) str(key string) (string, bool) {
	v, ok := r.raw(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, v, "expected a string")
		return "", false
	}
	return s, true
}

func (r *reader) keyword(key string) (string, bool) {
	s, ok := r.str(key)
	return strings.TrimSpace(strings.ToLower(s)), ok
}

func (r *reader) dim(key string) (native.Dimension, bool) {
	v, ok := r.raw(key)
	if !ok {
		return native.Auto, false
	}
	d, ok := toDimension(v)
	if !ok {
		r.fail(key, v, "expected a number, a percentage or auto")
		return native.Auto, false
	}
	return d, true
}

func (r *reader) color(key string) (native.Color, bool) {
	s, ok := r.str(key)
	if !ok {
		return native.Color{}, false
	}
	c, err := ParseColor(s)
	if err != nil {
		r.fail(key, s, err.Error())
		return native.Color{}, false
	}
	return c, true
}

func (r *reader) align(key string) (native.Align, bool) {
	s, ok := r.keyword(key)
	if !ok {
		return native.AlignAuto, false
	}
	a, ok := native.ParseAlign(s)
	if !ok {
		r.fail(key, s, "unknown alignment")
		return native.AlignAuto, false
	}
	return a, true
}

func (r *reader) flex() *native.Flex {
	f := native.Flex{Basis: native.Auto}
	set := false
	if n, ok := r.num("flex"); ok {
		// flex: n is shorthand for grow n, shrink 1, basis 0.
		set = true
		if n > 0 {
			f = native.Flex{Grow: n, Shrink: 1, Basis: native.Point(0)}
		} else if n < 0 {
			f.Shrink = -n
		}
	}
	if n, ok := r.num("flexGrow"); ok {
		f.Grow, set = n, true
	}
	if n, ok := r.num("flexShrink"); ok {
		f.Shrink, set = n, true
	}
	if d, ok := r.dim("flexBasis"); ok {
		f.Basis, set = d, true
	}
	if !set {
		return nil
	}
	return &f
}

func (r *reader) flow() *native.Flow {
	var f native.Flow
	set := false
	if s, ok := r.keyword("flexDirection"); ok {
		d, ok := parseDirection(s)
		if !ok {
			r.fail("flexDirection", s, "expected row, column, row-reverse or column-reverse")
		}
		f.Direction, set = d, true
	}
	if s, ok := r.keyword("flexWrap"); ok {
		switch s {
		case "wrap":
			f.Wrap = true
		case "nowrap":
		default:
			r.fail("flexWrap", s, "expected wrap or nowrap")
		}
		set = true
	}
	if a, ok := r.align("justifyContent"); ok {
		f.Justify, set = a, true
	}
	if a, ok := r.align("alignItems"); ok {
		f.AlignItems, set = a, true
	}
	if a, ok := r.align("alignContent"); ok {
		f.AlignContent, set = a, true
	}
	if !set {
		return nil
	}
	return &f
}

// insets resolves prefix, prefixHorizontal/Vertical and per-side keys, in
// increasing order of precedence.
func (r *reader) insets(prefix string) *native.Insets {
	zero := native.Point(0)
	in := native.Insets{Top: zero, Right: zero, Bottom: zero, Left: zero}
	set := false
	if d, ok := r.dim(prefix); ok {
		in = native.Insets{Top: d, Right: d, Bottom: d, Left: d}
		set = true
	}
	if d, ok := r.dim(prefix + "Horizontal"); ok {
		in.Left, in.Right, set = d, d, true
	}
	if d, ok := r.dim(prefix + "Vertical"); ok {
		in.Top, in.Bottom, set = d, d, true
	}
	if d, ok := r.dim(prefix + "Top"); ok {
		in.Top, set = d, true
	}
	if d, ok := r.dim(prefix + "Right"); ok {
		in.Right, set = d, true
	}
	if d, ok := r.dim(prefix + "Bottom"); ok {
		in.Bottom, set = d, true
	}
	if d, ok := r.dim(prefix + "Left"); ok {
		in.Left, set = d, true
	}
	if !set {
		return nil
	}
	return &in
}

func (r *reader) corners() *native.Corners {
	var c native.Corners
	set := false
	if n, ok := r.num("borderRadius"); ok {
		c = native.Corners{TopLeft: n, TopRight: n, BottomRight: n, BottomLeft: n}
		set = true
	}
	if n, ok := r.num("borderTopLeftRadius"); ok {
		c.TopLeft, set = n, true
	}
	if n, ok := r.num("borderTopRightRadius"); ok {
		c.TopRight, set = n, true
	}
	if n, ok := r.num("borderBottomRightRadius"); ok {
		c.BottomRight, set = n, true
	}
	if n, ok := r.num("borderBottomLeftRadius"); ok {
		c.BottomLeft, set = n, true
	}
	if !set {
		return nil
	}
	return &c
}

func (r *reader) shadow() *native.Shadow {
	s := native.Shadow{Color: native.Color{A: 255}}
	set := false
	if v, ok := r.raw("shadowOffset"); ok {
		x, y, ok := toOffset(v)
		if !ok {
			r.fail("shadowOffset", v, "expected {width, height}")
		}
		s.OffsetX, s.OffsetY, set = x, y, true
	}
	if n, ok := r.num("shadowRadius"); ok {
		s.Blur, set = n, true
	}
	if n, ok := r.num("shadowSpread"); ok {
		s.Spread, set = n, true
	}
	if c, ok := r.color("shadowColor"); ok {
		s.Color, set = c, true
	}
	if !set {
		return nil
	}
	return &s
}

func (r *reader) border() *native.Border {
	b := native.Border{Style: native.BorderSolid, Color: native.Color{A: 255}}
	set := false
	if n, ok := r.num("borderWidth"); ok {
		b.Width, set = n, true
	}
	if s, ok := r.keyword("borderStyle"); ok {
		bs, ok := parseBorderStyle(s)
		if !ok {
			r.fail("borderStyle", s, "expected none, solid, dashed or dotted")
		}
		b.Style, set = bs, true
	}
	if c, ok := r.color("borderColor"); ok {
		b.Color, set = c, true
	}
	if !set {
		return nil
	}
	return &b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toDimension(v any) (native.Dimension, bool) {
	if f, ok := toFloat(v); ok {
		return native.Point(f), true
	}
	switch d := v.(type) {
	case native.Dimension:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		switch {
		case s == "auto":
			return native.Auto, true
		case strings.HasSuffix(s, "%"):
			f, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
			if err != nil {
				return native.Auto, false
			}
			return native.Percent(f), true
		default:
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
			if err != nil {
				return native.Auto, false
			}
			return native.Point(f), true
		}
	}
	return native.Auto, false
}

func toOffset(v any) (x, y float64, ok bool) {
	var m map[string]any
	switch o := v.(type) {
	case Style:
		m = o
	case map[string]any:
		m = o
	default:
		return 0, 0, false
	}
	if w, has := m["width"]; has {
		if x, ok = toFloat(w); !ok {
			return 0, 0, false
		}
	}
	if h, has := m["height"]; has {
		if y, ok = toFloat(h); !ok {
			return 0, 0, false
		}
	}
	return x, y, true
}

func parseOverflow(s string) (native.Overflow, bool) {
	switch s {
	case "visible":
		return native.OverflowVisible, true
	case "hidden":
		return native.OverflowHidden, true
	case "scroll", "auto":
		return native.OverflowScroll, true
	}
	return native.OverflowVisible, false
}

func parseDirection(s string) (native.Direction, bool) {
	switch s {
	case "column":
		return native.DirectionColumn, true
	case "row":
		return native.DirectionRow, true
	case "column-reverse":
		return native.DirectionColumnReverse, true
	case "row-reverse":
		return native.DirectionRowReverse, true
	}
	return native.DirectionColumn, false
}

func parseBorderStyle(s string) (native.BorderStyle, bool) {
	switch s {
	case "none":
		return native.BorderNone, true
	case "solid":
		return native.BorderSolid, true
	case "dashed":
		return native.BorderDashed, true
	case "dotted":
		return native.BorderDotted, true
	}
	return native.BorderSolid, false
}
