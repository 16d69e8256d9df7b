package protocol

import (
	"errors"
	"fmt"
	"sort"
)

// ValueType tags a property value on the wire.
type ValueType uint8

const (
	ValueNull   ValueType = 0x00
	ValueBool   ValueType = 0x01
	ValueInt    ValueType = 0x02
	ValueFloat  ValueType = 0x03
	ValueString ValueType = 0x04
	ValueList   ValueType = 0x05
	ValueObject ValueType = 0x06
)

// Value errors.
var (
	ErrUnsupportedValue = errors.New("protocol: unsupported property value")
	ErrInvalidValueType = errors.New("protocol: invalid value type")
)

// Normalize converts a property value into its wire form: nil, bool, int64,
// float64, string, []any or map[string]any. Integer and float widths are
// widened, string-keyed maps and slices are converted element-wise.
func Normalize(v any) (any, error) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (any, error) {
	if depth > MaxValueDepth {
		return nil, ErrMaxDepthExceeded
	}
	switch val := v.(type) {
	case nil, bool, int64, float64, string:
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case float32:
		return float64(val), nil
	case fmt.Stringer:
		return val.String(), nil
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := normalize(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := normalize(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// WriteValue appends a normalized property value. Object keys are written
// in sorted order so equal values encode to equal bytes.
func (e *Encoder) WriteValue(v any) {
	switch val := v.(type) {
	case nil:
		e.WriteByte(byte(ValueNull))
	case bool:
		e.WriteByte(byte(ValueBool))
		e.WriteBool(val)
	case int64:
		e.WriteByte(byte(ValueInt))
		e.WriteSvarint(val)
	case float64:
		e.WriteByte(byte(ValueFloat))
		e.WriteFloat64(val)
	case string:
		e.WriteByte(byte(ValueString))
		e.WriteString(val)
	case []any:
		e.WriteByte(byte(ValueList))
		e.WriteUvarint(uint64(len(val)))
		for _, item := range val {
			e.WriteValue(item)
		}
	case map[string]any:
		e.WriteByte(byte(ValueObject))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.WriteUvarint(uint64(len(keys)))
		for _, k := range keys {
			e.WriteString(k)
			e.WriteValue(val[k])
		}
	default:
		// Values are normalized before encoding; anything else is null.
		e.WriteByte(byte(ValueNull))
	}
}

// ReadValue reads a property value written by WriteValue.
func (d *Decoder) ReadValue() (any, error) {
	return d.readValue(0)
}

func (d *Decoder) readValue(depth int) (any, error) {
	if depth > MaxValueDepth {
		return nil, ErrMaxDepthExceeded
	}
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	switch ValueType(tag) {
	case ValueNull:
		return nil, nil
	case ValueBool:
		return d.ReadBool()
	case ValueInt:
		return d.ReadSvarint()
	case ValueFloat:
		return d.ReadFloat64()
	case ValueString:
		return d.ReadString()
	case ValueList:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		list := make([]any, count)
		for i := range list {
			if list[i], err = d.readValue(depth + 1); err != nil {
				return nil, err
			}
		}
		return list, nil
	case ValueObject:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		obj := make(map[string]any, count)
		for i := 0; i < count; i++ {
			key, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			if obj[key], err = d.readValue(depth + 1); err != nil {
				return nil, err
			}
		}
		return obj, nil
	default:
		return nil, ErrInvalidValueType
	}
}
