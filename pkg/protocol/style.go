package protocol

import (
	"errors"

	"github.com/vango-dev/scenesync/pkg/native"
)

// ErrInvalidUnit is returned for a dimension with an unknown unit byte.
var ErrInvalidUnit = errors.New("protocol: invalid dimension unit")

// Style values are written as a presence byte followed by the fields.
// An absent value (nil) clears the field on the native side.
//
//	Dimension  [unit:1][value:f64, omitted for auto]
//	Size       [width:dim][height:dim]
//	Flex       [grow:f64][shrink:f64][basis:dim]
//	Flow       [direction:1][wrap:bool][justify:1][alignItems:1][alignContent:1]
//	Insets     [top][right][bottom][left]  (dims)
//	Corners    [tl][tr][br][bl]            (f64)
//	Color      [r][g][b][a]
//	Shadow     [x:f64][y:f64][blur:f64][spread:f64][color]
//	Border     [width:f64][style:1][color]

func (e *Encoder) writeDimension(d native.Dimension) {
	e.WriteByte(byte(d.Unit))
	if d.Unit != native.UnitAuto {
		e.WriteFloat64(d.Value)
	}
}

func (e *Encoder) writeColor(c native.Color) {
	e.WriteBytes([]byte{c.R, c.G, c.B, c.A})
}

func (e *Encoder) writeInsets(in native.Insets) {
	e.writeDimension(in.Top)
	e.writeDimension(in.Right)
	e.writeDimension(in.Bottom)
	e.writeDimension(in.Left)
}

// writeStyleValue writes the value of a style op. v is the value type
// (native.Size, native.Color, ...) or nil.
func (e *Encoder) writeStyleValue(op Op, v any) {
	if v == nil {
		e.WriteBool(false)
		return
	}
	e.WriteBool(true)
	switch op {
	case OpSetSize:
		s := v.(native.Size)
		e.writeDimension(s.Width)
		e.writeDimension(s.Height)
	case OpSetOverflow:
		e.WriteByte(byte(v.(native.Overflow)))
	case OpSetFlex:
		f := v.(native.Flex)
		e.WriteFloat64(f.Grow)
		e.WriteFloat64(f.Shrink)
		e.writeDimension(f.Basis)
	case OpSetFlow:
		f := v.(native.Flow)
		e.WriteByte(byte(f.Direction))
		e.WriteBool(f.Wrap)
		e.WriteBytes([]byte{byte(f.Justify), byte(f.AlignItems), byte(f.AlignContent)})
	case OpSetPadding, OpSetMargin:
		e.writeInsets(v.(native.Insets))
	case OpSetBorderRadius:
		c := v.(native.Corners)
		e.WriteFloat64(c.TopLeft)
		e.WriteFloat64(c.TopRight)
		e.WriteFloat64(c.BottomRight)
		e.WriteFloat64(c.BottomLeft)
	case OpSetBoxShadow:
		s := v.(native.Shadow)
		e.WriteFloat64(s.OffsetX)
		e.WriteFloat64(s.OffsetY)
		e.WriteFloat64(s.Blur)
		e.WriteFloat64(s.Spread)
		e.writeColor(s.Color)
	case OpSetBackgroundColor:
		e.writeColor(v.(native.Color))
	case OpSetImage:
		e.WriteString(v.(string))
	case OpSetBorder:
		b := v.(native.Border)
		e.WriteFloat64(b.Width)
		e.WriteByte(byte(b.Style))
		e.writeColor(b.Color)
	}
}

func (d *Decoder) readDimension() (native.Dimension, error) {
	u, err := d.ReadByte()
	if err != nil {
		return native.Dimension{}, err
	}
	unit := native.Unit(u)
	switch unit {
	case native.UnitAuto:
		return native.Auto, nil
	case native.UnitPoint, native.UnitPercent:
		v, err := d.ReadFloat64()
		return native.Dimension{Value: v, Unit: unit}, err
	default:
		return native.Dimension{}, ErrInvalidUnit
	}
}

func (d *Decoder) readColor() (native.Color, error) {
	var rgba [4]byte
	for i := range rgba {
		b, err := d.ReadByte()
		if err != nil {
			return native.Color{}, err
		}
		rgba[i] = b
	}
	return native.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
}

func (d *Decoder) readFloats(dst ...*float64) error {
	for _, p := range dst {
		v, err := d.ReadFloat64()
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

func (d *Decoder) readDimensions(dst ...*native.Dimension) error {
	for _, p := range dst {
		v, err := d.readDimension()
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

func (d *Decoder) readStyleValue(op Op) (any, error) {
	present, err := d.ReadBool()
	if err != nil || !present {
		return nil, err
	}

	switch op {
	case OpSetSize:
		var s native.Size
		err := d.readDimensions(&s.Width, &s.Height)
		return s, err
	case OpSetOverflow:
		b, err := d.ReadByte()
		return native.Overflow(b), err
	case OpSetFlex:
		var f native.Flex
		if err := d.readFloats(&f.Grow, &f.Shrink); err != nil {
			return nil, err
		}
		err := d.readDimensions(&f.Basis)
		return f, err
	case OpSetFlow:
		var f native.Flow
		dir, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		f.Direction = native.Direction(dir)
		if f.Wrap, err = d.ReadBool(); err != nil {
			return nil, err
		}
		for _, p := range []*native.Align{&f.Justify, &f.AlignItems, &f.AlignContent} {
			b, err := d.ReadByte()
			if err != nil {
				return nil, err
			}
			*p = native.Align(b)
		}
		return f, nil
	case OpSetPadding, OpSetMargin:
		var in native.Insets
		err := d.readDimensions(&in.Top, &in.Right, &in.Bottom, &in.Left)
		return in, err
	case OpSetBorderRadius:
		var c native.Corners
		err := d.readFloats(&c.TopLeft, &c.TopRight, &c.BottomRight, &c.BottomLeft)
		return c, err
	case OpSetBoxShadow:
		var s native.Shadow
		if err := d.readFloats(&s.OffsetX, &s.OffsetY, &s.Blur, &s.Spread); err != nil {
			return nil, err
		}
		c, err := d.readColor()
		s.Color = c
		return s, err
	case OpSetBackgroundColor:
		return d.readColor()
	case OpSetImage:
		return d.ReadString()
	case OpSetBorder:
		var b native.Border
		if err := d.readFloats(&b.Width); err != nil {
			return nil, err
		}
		st, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		b.Style = native.BorderStyle(st)
		b.Color, err = d.readColor()
		return b, err
	default:
		return nil, ErrInvalidOp
	}
}
