// Package events keeps track of the event listeners bound to each surface.
//
// The Table is the engine's record of what the native side currently has
// bound. Rebinding the listener that is already bound issues no native call;
// releasing a surface drops its bindings without any native call because the
// surface itself is gone.
package events

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/scenesync/pkg/native"
)

// UnbindMode selects how a removed listener is unbound on the native side.
type UnbindMode uint8

const (
	// UnbindExplicit issues RemoveEventListener.
	UnbindExplicit UnbindMode = iota

	// UnbindNoop binds native.Noop in place of the removed listener.
	// Only safe with hosts that treat a no-op listener as disabled.
	UnbindNoop
)

// String returns the string representation of the UnbindMode.
func (m UnbindMode) String() string {
	switch m {
	case UnbindExplicit:
		return "explicit"
	case UnbindNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// ParseUnbindMode parses "explicit" or "noop".
func ParseUnbindMode(s string) (UnbindMode, bool) {
	switch s {
	case "", "explicit":
		return UnbindExplicit, true
	case "noop":
		return UnbindNoop, true
	}
	return UnbindExplicit, false
}

// IsEventKey reports whether a prop key names an event handler: "on"
// followed by an upper-case letter, e.g. "onClick".
func IsEventKey(key string) bool {
	if len(key) < 3 || !strings.HasPrefix(key, "on") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key[2:])
	return unicode.IsUpper(r)
}

// Table maps (surface, event name) to the bound listener.
type Table struct {
	mode     UnbindMode
	bindings map[native.SurfaceID]map[string]*native.Listener
}

// NewTable returns an empty table.
func NewTable(mode UnbindMode) *Table {
	return &Table{
		mode:     mode,
		bindings: make(map[native.SurfaceID]map[string]*native.Listener),
	}
}

// Mode returns the table's unbind mode.
func (t *Table) Mode() UnbindMode {
	return t.mode
}

// Get returns the listener bound to (id, name).
func (t *Table) Get(id native.SurfaceID, name string) (*native.Listener, bool) {
	l, ok := t.bindings[id][name]
	return l, ok
}

// Len returns the number of bindings of a surface.
func (t *Table) Len(id native.SurfaceID) int {
	return len(t.bindings[id])
}

// Set binds l to (id, name) and forwards the binding to scene, unless l is
// already the bound listener. A nil listener removes the binding.
// It reports whether a native call was issued.
func (t *Table) Set(scene native.Scene, id native.SurfaceID, name string, l *native.Listener) bool {
	if l == nil {
		return t.Remove(scene, id, name)
	}
	byName := t.bindings[id]
	if cur, ok := byName[name]; ok && cur == l {
		return false
	}
	if byName == nil {
		byName = make(map[string]*native.Listener)
		t.bindings[id] = byName
	}
	byName[name] = l
	scene.SetEventListener(id, name, l)
	return true
}

// Remove unbinds (id, name). Removing an absent binding is a no-op.
// It reports whether a native call was issued.
func (t *Table) Remove(scene native.Scene, id native.SurfaceID, name string) bool {
	byName := t.bindings[id]
	if _, ok := byName[name]; !ok {
		return false
	}
	delete(byName, name)
	if len(byName) == 0 {
		delete(t.bindings, id)
	}
	switch t.mode {
	case UnbindNoop:
		scene.SetEventListener(id, name, native.Noop)
	default:
		scene.RemoveEventListener(id, name)
	}
	return true
}

// Drop forgets every binding of a released surface. No native call is made.
func (t *Table) Drop(id native.SurfaceID) {
	delete(t.bindings, id)
}

// Dispatch delivers ev to the listener bound to (ev.Surface, ev.Name).
// It reports whether a listener was found.
func (t *Table) Dispatch(ev native.Event) bool {
	l, ok := t.bindings[ev.Surface][ev.Name]
	if !ok {
		return false
	}
	l.Handle(ev)
	return true
}
