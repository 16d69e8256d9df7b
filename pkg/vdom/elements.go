package vdom

import (
	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
)

// keyAttr is the Attr key that sets VNode.Key instead of a prop.
const keyAttr = "key"

// El creates an element of the given surface type.
// Arguments can be: nil, Attr, []Attr, engine.Props, *VNode, []*VNode,
// Component, string.
func El(typ string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Type:  typ,
		Props: make(engine.Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional children)
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case engine.Props:
			for k, val := range v {
				node.setAttr(Attr{Key: k, Value: val})
			}
		default:
			node.Children = appendChild(node.Children, arg)
		}
	}

	return node
}

// View creates a "View" element.
func View(args ...any) *VNode {
	return El("View", args...)
}

func (v *VNode) setAttr(a Attr) {
	switch a.Key {
	case "":
		return
	case keyAttr:
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
	case engine.ChildrenKey:
		// Children are VNodes, never props.
	default:
		v.Props[a.Key] = a.Value
	}
}

// appendChild adds a child argument to children. Unknown types are ignored.
func appendChild(children []*VNode, arg any) []*VNode {
	switch v := arg.(type) {
	case *VNode:
		if v != nil {
			children = append(children, v)
		}
	case []*VNode:
		for _, c := range v {
			if c != nil {
				children = append(children, c)
			}
		}
	case string:
		children = append(children, Text(v))
	case Component:
		if v != nil {
			children = append(children, &VNode{Kind: KindComponent, Comp: v})
		}
	}
	return children
}

// Prop sets a plain prop. An event prop ("onClick") may be a
// func(native.Event), which keeps one native listener across renders, or a
// *native.Listener, which rebinds whenever the pointer changes.
func Prop(key string, value any) Attr { return Attr{Key: key, Value: value} }

// Style sets the style prop. It accepts anything the style compiler does:
// a map, a registered style handle, or a list of those.
func Style(src any) Attr { return Attr{Key: engine.StyleKey, Value: src} }

// On binds fn to the named event, e.g. "onClick". Passing a new closure on
// every render does not rebind the native listener.
func On(event string, fn func(native.Event)) Attr {
	return Attr{Key: event, Value: fn}
}

// OnClick binds fn to "onClick".
func OnClick(fn func(native.Event)) Attr { return On("onClick", fn) }

// OnChangeText binds fn to "onChangeText".
func OnChangeText(fn func(native.Event)) Attr { return On("onChangeText", fn) }
