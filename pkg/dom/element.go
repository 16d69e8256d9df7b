package dom

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/events"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/style"
)

// idProp is the prop that holds an element's id.
const idProp = "id"

// Element is a handle on a non-text surface.
type Element struct {
	node
	tag string
}

// NodeType returns ElementNode.
func (e *Element) NodeType() NodeType { return ElementNode }

// NodeName returns the tag name.
func (e *Element) NodeName() string { return e.tag }

// TagName returns the tag the element was created with.
func (e *Element) TagName() string { return e.tag }

// ID returns the element's id, or "".
func (e *Element) ID() string {
	id, _ := e.doc.eng.Props(e.id)[idProp].(string)
	return id
}

// SetID sets the element's id. An empty id clears it.
func (e *Element) SetID(id string) error {
	if id == "" {
		return e.update(idProp, nil)
	}
	return e.update(idProp, id)
}

// Style returns a copy of the element's flattened style.
func (e *Element) Style() style.Style {
	src := e.doc.eng.Props(e.id)[engine.StyleKey]
	if src == nil {
		return style.Style{}
	}
	flat, err := style.Flatten(src)
	if err != nil {
		return style.Style{}
	}
	return flat
}

// SetStyle sets one style property over the current style, like
// el.style[key] = value. A nil value removes the property.
func (e *Element) SetStyle(key string, value any) error {
	st := e.Style()
	if value == nil {
		delete(st, key)
	} else {
		st[key] = value
	}
	if len(st) == 0 {
		return e.update(engine.StyleKey, nil)
	}
	return e.update(engine.StyleKey, st)
}

// SetProp sets a plain prop. A nil value clears it.
func (e *Element) SetProp(key string, value any) error {
	return e.update(key, value)
}

// AddEventListener binds l to event. Both "click" and "onClick" name the
// same binding; a later listener for it replaces the earlier one.
func (e *Element) AddEventListener(event string, l *native.Listener) error {
	return e.update(eventKey(event), l)
}

// RemoveEventListener unbinds event.
func (e *Element) RemoveEventListener(event string) error {
	return e.update(eventKey(event), nil)
}

// eventKey turns a DOM event name into the engine's prop key.
func eventKey(event string) string {
	if events.IsEventKey(event) {
		return event
	}
	event = strings.TrimPrefix(event, "on")
	r, size := utf8.DecodeRuneInString(event)
	return "on" + string(unicode.ToUpper(r)) + event[size:]
}

var _ Node = (*Element)(nil)
