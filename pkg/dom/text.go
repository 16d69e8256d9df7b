package dom

import (
	"github.com/vango-dev/scenesync/pkg/engine"
)

// Text is a handle on a text surface. The engine rejects children under it
// with engine.ErrHierarchy.
type Text struct {
	node
}

// NodeType returns TextNode.
func (t *Text) NodeType() NodeType { return TextNode }

// NodeName returns "#text".
func (t *Text) NodeName() string { return engine.TextKind }

// Data returns the text content.
func (t *Text) Data() string {
	s, _ := t.doc.eng.Props(t.id)[engine.TextKey].(string)
	return s
}

// SetData replaces the text content.
func (t *Text) SetData(data string) error {
	return t.doc.eng.UpdateText(t.id, data)
}

// Comment is a handle on a comment. Its data stays on the Go side; the
// native surface is an empty text.
type Comment struct {
	node
	data string
}

// NodeType returns CommentNode.
func (c *Comment) NodeType() NodeType { return CommentNode }

// NodeName returns "#comment".
func (c *Comment) NodeName() string { return "#comment" }

// Data returns the comment text.
func (c *Comment) Data() string { return c.data }

// SetData replaces the comment text without touching the surface.
func (c *Comment) SetData(data string) { c.data = data }

var (
	_ Node = (*Text)(nil)
	_ Node = (*Comment)(nil)
)
