package dom

import (
	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
)

// NodeType identifies the kind of a Node.
type NodeType int

const (
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	CommentNode  NodeType = 8
	DocumentNode NodeType = 9
)

// Node is implemented by *Element, *Text and *Comment.
type Node interface {
	Surface() native.SurfaceID
	NodeType() NodeType
	NodeName() string
	OwnerDocument() *Document

	ParentNode() Node
	ChildNodes() []Node
	FirstChild() Node
	LastChild() Node
	NextSibling() Node
	PreviousSibling() Node

	AppendChild(child Node) error
	InsertBefore(child, before Node) error
	RemoveChild(child Node) error
	ReplaceChild(newChild, oldChild Node) error
	Remove() error
}

// node holds what every handle shares: its document and surface.
type node struct {
	doc *Document
	id  native.SurfaceID
}

// Surface returns the engine surface behind the node.
func (n *node) Surface() native.SurfaceID { return n.id }

// OwnerDocument returns the document that created the node.
func (n *node) OwnerDocument() *Document { return n.doc }

// ParentNode returns the parent, or nil when detached.
func (n *node) ParentNode() Node {
	return n.doc.NodeFor(n.doc.eng.Parent(n.id))
}

// ChildNodes returns the children in order.
func (n *node) ChildNodes() []Node {
	ids := n.doc.eng.Children(n.id)
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if c := n.doc.NodeFor(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child, or nil.
func (n *node) FirstChild() Node {
	ids := n.doc.eng.Children(n.id)
	if len(ids) == 0 {
		return nil
	}
	return n.doc.NodeFor(ids[0])
}

// LastChild returns the last child, or nil.
func (n *node) LastChild() Node {
	ids := n.doc.eng.Children(n.id)
	if len(ids) == 0 {
		return nil
	}
	return n.doc.NodeFor(ids[len(ids)-1])
}

// NextSibling returns the node after this one in its parent, or nil.
func (n *node) NextSibling() Node {
	return n.sibling(1)
}

// PreviousSibling returns the node before this one in its parent, or nil.
func (n *node) PreviousSibling() Node {
	return n.sibling(-1)
}

func (n *node) sibling(delta int) Node {
	parent := n.doc.eng.Parent(n.id)
	if parent == native.NoSurface {
		return nil
	}
	ids := n.doc.eng.Children(parent)
	i := n.doc.eng.IndexOf(parent, n.id) + delta
	if i < 0 || i >= len(ids) {
		return nil
	}
	return n.doc.NodeFor(ids[i])
}

// AppendChild moves child to the end of this node's children.
func (n *node) AppendChild(child Node) error {
	return n.doc.eng.Append(n.id, child.Surface())
}

// InsertBefore moves child right before before. A nil before appends.
// When before is not a child of this node nothing happens.
func (n *node) InsertBefore(child, before Node) error {
	ref := native.NoSurface
	if before != nil {
		ref = before.Surface()
	}
	return n.doc.eng.InsertBefore(n.id, child.Surface(), ref)
}

// RemoveChild detaches child. The child stays usable and can be attached
// again; use Document.Destroy to release it.
func (n *node) RemoveChild(child Node) error {
	return n.doc.eng.RemoveChild(n.id, child.Surface())
}

// ReplaceChild puts newChild where oldChild is and detaches oldChild.
func (n *node) ReplaceChild(newChild, oldChild Node) error {
	return n.doc.eng.ReplaceChild(n.id, newChild.Surface(), oldChild.Surface())
}

// Remove detaches the node from its parent, if any.
func (n *node) Remove() error {
	parent := n.doc.eng.Parent(n.id)
	if parent == native.NoSurface {
		return nil
	}
	return n.doc.eng.RemoveChild(parent, n.id)
}

// update sets one prop on the node, keeping the other applied props. A nil
// value clears the prop.
func (n *node) update(key string, value any) error {
	props := n.doc.eng.Props(n.id)
	if props == nil {
		return &engine.PropError{Surface: n.id, Key: key, Err: engine.ErrUnknownSurface}
	}
	if value == nil {
		delete(props, key)
	} else {
		props[key] = value
	}
	return n.doc.eng.Update(n.id, props, nil)
}
