package engine

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/vango-dev/scenesync/pkg/events"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/style"
)

// diffProps applies the difference between prev and next to surface s.
// Keys are visited in sorted order so the issued calls are deterministic.
// Top-level style fields are folded into the style prop and take
// precedence over it.
//
// It returns the props that are now applied on the native side. On error
// that is prev with every key handled before the failure updated, so the
// stored state never claims more than what was issued.
func (e *Engine) diffProps(sc native.Scene, s *surface, next, prev Props) (Props, error) {
	applied := make(Props, len(next))
	for k, v := range prev {
		if k != ChildrenKey {
			applied[k] = v
		}
	}

	for _, k := range propKeys(next) {
		v, _ := propValue(next, k)
		pv, had := propValue(prev, k)
		if !had && v == nil {
			continue
		}
		if had && e.propEqual(k, v, pv) {
			continue
		}
		if err := e.setProp(sc, s, k, v); err != nil {
			return applied, err
		}
		assign(applied, next, k)
	}

	for _, k := range propKeys(prev) {
		if _, ok := propValue(next, k); ok {
			continue
		}
		pv, _ := propValue(prev, k)
		assign(applied, next, k)
		if pv == nil {
			continue
		}
		if err := e.setProp(sc, s, k, nil); err != nil {
			return applied, err
		}
	}
	return applied, nil
}

// isStyleKey reports whether key feeds the compiled style.
func isStyleKey(key string) bool {
	return key == StyleKey || style.IsFieldKey(key)
}

// propKeys returns the diffed keys of p in sorted order: children are
// skipped and top-level style fields appear as StyleKey.
func propKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	styled := false
	for k := range p {
		switch {
		case k == ChildrenKey:
		case isStyleKey(k):
			styled = true
		default:
			keys = append(keys, k)
		}
	}
	if styled {
		keys = append(keys, StyleKey)
	}
	sort.Strings(keys)
	return keys
}

// propValue returns the value diffed for key. For StyleKey that is the
// style prop composed with any top-level style fields.
func propValue(p Props, key string) (any, bool) {
	if key != StyleKey {
		v, ok := p[key]
		return v, ok
	}
	src, ok := p[StyleKey]
	var top style.Style
	for k, v := range p {
		if k != StyleKey && style.IsFieldKey(k) {
			if top == nil {
				top = style.Style{}
			}
			top[k] = v
		}
	}
	switch {
	case top == nil:
		return src, ok
	case src == nil:
		return top, true
	}
	return []any{src, top}, true
}

// assign copies the entries behind key from src to dst, deleting those src
// lacks.
func assign(dst, src Props, key string) {
	if key != StyleKey {
		if v, ok := src[key]; ok {
			dst[key] = v
		} else {
			delete(dst, key)
		}
		return
	}
	for k := range dst {
		if isStyleKey(k) {
			delete(dst, k)
		}
	}
	for k, v := range src {
		if isStyleKey(k) {
			dst[k] = v
		}
	}
}

// propEqual reports whether a prop value is unchanged.
func (e *Engine) propEqual(key string, a, b any) bool {
	if key == StyleKey {
		return style.Equal(a, b)
	}
	if events.IsEventKey(key) {
		la, aok := a.(*native.Listener)
		lb, bok := b.(*native.Listener)
		if aok && bok {
			return la == lb
		}
		// func values are not comparable; they always rebind.
		return a == nil && b == nil
	}
	return propsEqual(a, b)
}

// setProp routes a single changed prop. A nil value clears it.
func (e *Engine) setProp(sc native.Scene, s *surface, key string, v any) error {
	switch {
	case key == StyleKey:
		next, err := e.compileStyle(v)
		if err != nil {
			return &PropError{Surface: s.id, Key: key, Err: err}
		}
		style.Patch(sc, s.id, next, s.style)
		s.style = next

	case key == TextKey:
		sc.SetText(s.id, textValue(v))

	case events.IsEventKey(key):
		l, err := listenerValue(v)
		if err != nil {
			return &PropError{Surface: s.id, Key: key, Err: err}
		}
		if l == nil {
			e.events.Remove(sc, s.id, key)
		} else {
			e.events.Set(sc, s.id, key, l)
		}

	default:
		sc.SetProperty(s.id, key, v)
	}
	return nil
}

func (e *Engine) compileStyle(src style.Source) (style.Canonical, error) {
	if src == nil {
		return style.Canonical{}, nil
	}
	return e.compiler.Compile(src)
}

// textValue converts a text prop into the value passed to SetText.
func textValue(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	case *string:
		return t
	case fmt.Stringer:
		s := t.String()
		return &s
	default:
		s := fmt.Sprint(v)
		return &s
	}
}

// listenerValue converts an event prop into a listener. nil removes.
func listenerValue(v any) (*native.Listener, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case *native.Listener:
		return l, nil
	case func(native.Event):
		return native.NewListener(l), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadListener, v)
	}
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}
