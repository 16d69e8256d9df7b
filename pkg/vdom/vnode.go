package vdom

import (
	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/events"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // Native surface, e.g. "View"
	KindText                   // Text surface
	KindFragment               // Grouping without a surface
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is the virtual node.
type VNode struct {
	Kind     VKind        // Node type
	Type     string       // Surface kind for KindElement
	Props    engine.Props // Props handed to the engine
	Children []*VNode     // Child nodes
	Key      string       // Reconciliation key
	Text     string       // For KindText
	Comp     Component    // For KindComponent
}

// IsInteractive reports whether the node binds any event listener.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if events.IsEventKey(key) {
			return true
		}
	}
	return false
}

// Attr represents a single prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
