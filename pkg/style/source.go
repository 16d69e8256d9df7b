package style

import "reflect"

// Style is a single style object: style key to value.
type Style map[string]any

// Source is a style composition: a Style (or map[string]any), a slice of
// Sources, or a "no contribution" entry (nil or false).
type Source = any

// Flatten resolves a composition into a single flat Style.
// Later entries override earlier ones key by key.
func Flatten(src Source) (Style, error) {
	out := Style{}
	if err := flattenInto(out, src, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(dst Style, src any, path []int) error {
	switch v := src.(type) {
	case nil:
		return nil
	case bool:
		if !v {
			return nil
		}
	case Style:
		for k, val := range v {
			dst[k] = val
		}
		return nil
	case map[string]any:
		for k, val := range v {
			dst[k] = val
		}
		return nil
	case []any:
		for i, entry := range v {
			if err := flattenInto(dst, entry, appendPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case []Style:
		for i, entry := range v {
			if err := flattenInto(dst, entry, appendPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case *Style:
		if v == nil {
			return nil
		}
		return flattenInto(dst, *v, path)
	}
	return &CompositionError{Path: path, Value: src}
}

// appendPath copies so sibling entries never share a backing array.
func appendPath(path []int, i int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = i
	return out
}

// Equal reports whether two compositions are structurally equal.
// Compositions have no identity; only their values matter.
func Equal(a, b Source) bool {
	return reflect.DeepEqual(a, b)
}

// Clone returns a deep copy of the composition's containers. Leaf values
// are shared.
func Clone(src Source) Source {
	switch v := src.(type) {
	case Style:
		return Style(cloneMap(v))
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = Clone(entry)
		}
		return out
	case []Style:
		out := make([]Style, len(v))
		for i, entry := range v {
			out[i] = Style(cloneMap(entry))
		}
		return out
	default:
		return src
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}
