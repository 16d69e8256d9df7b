package dom

import (
	"context"
	"log/slog"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/style"
)

// Document owns the node handles of one engine tree.
type Document struct {
	eng    *engine.Engine
	scene  native.Scene
	sheet  style.Sheet
	logger *slog.Logger

	nodes map[native.SurfaceID]Node
	els   []*Element // creation order, for GetElementByID

	documentElement *Element
	head            *Element
	body            *Element
}

// Option configures a Document.
type Option func(*Document)

// WithSheet sets the default style sheet. Default: style.DefaultSheet().
func WithSheet(sheet style.Sheet) Option {
	return func(d *Document) {
		d.sheet = sheet
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// NewDocument creates a document on eng's root surface and mounts a body
// element under it in its own frame. A detached head element is created
// alongside.
func NewDocument(ctx context.Context, eng *engine.Engine, scene native.Scene, opts ...Option) (*Document, error) {
	d := &Document{
		eng:    eng,
		scene:  scene,
		logger: slog.Default(),
		nodes:  make(map[native.SurfaceID]Node),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sheet == nil {
		d.sheet = style.DefaultSheet()
	}
	d.logger = d.logger.With("component", "dom")

	d.documentElement = &Element{node: node{doc: d, id: native.RootSurface}, tag: "html"}
	d.nodes[native.RootSurface] = d.documentElement

	err := d.Update(ctx, func() error {
		head, err := d.CreateElement("head")
		if err != nil {
			return err
		}
		d.head = head
		body, err := d.CreateElement("body")
		if err != nil {
			return err
		}
		d.body = body
		return d.documentElement.AppendChild(body)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Engine returns the engine the document drives.
func (d *Document) Engine() *engine.Engine {
	return d.eng
}

// Update runs fn inside one engine frame. The frame is committed even
// when fn fails; fn's error takes precedence.
func (d *Document) Update(ctx context.Context, fn func() error) error {
	d.eng.BeginFrameContext(ctx, d.scene)
	err := fn()
	if err != nil {
		d.logger.Warn("document update failed", "error", err)
	}
	if cerr := d.eng.CommitFrame(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// DocumentElement returns the element wrapping the root surface.
func (d *Document) DocumentElement() *Element {
	return d.documentElement
}

// Head returns the head element. It is never attached.
func (d *Document) Head() *Element {
	return d.head
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.body
}

// Sheet returns the default style sheet.
func (d *Document) Sheet() style.Sheet {
	return d.sheet
}

// CreateElement creates a detached element with the sheet's default style
// for tagName.
func (d *Document) CreateElement(tagName string) (*Element, error) {
	var props engine.Props
	if st := d.sheet.For(tagName); st != nil {
		props = engine.Props{engine.StyleKey: st}
	}
	id, err := d.eng.Create(tagName, props)
	if id == native.NoSurface {
		return nil, err
	}
	el := &Element{node: node{doc: d, id: id}, tag: tagName}
	d.nodes[id] = el
	d.els = append(d.els, el)
	return el, err
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) (*Text, error) {
	id, err := d.eng.CreateText(data)
	if err != nil {
		return nil, err
	}
	t := &Text{node: node{doc: d, id: id}}
	d.nodes[id] = t
	return t, nil
}

// CreateComment creates a detached comment, backed by an empty text surface.
func (d *Document) CreateComment(data string) (*Comment, error) {
	id, err := d.eng.CreateText("")
	if err != nil {
		return nil, err
	}
	c := &Comment{node: node{doc: d, id: id}, data: data}
	d.nodes[id] = c
	return c, nil
}

// GetElementByID returns the first live element, in creation order, whose
// id is id, or nil. Detached elements are included.
func (d *Document) GetElementByID(id string) *Element {
	for _, el := range d.els {
		if el.ID() == id {
			return el
		}
	}
	return nil
}

// NodeFor returns the node handle of a surface, or nil when the surface
// was not created through this document.
func (d *Document) NodeFor(id native.SurfaceID) Node {
	if !d.eng.Live(id) {
		return nil
	}
	return d.nodes[id]
}

// Destroy releases n and its subtree. Handles of released nodes must not
// be used again.
func (d *Document) Destroy(n Node) error {
	if err := d.eng.Release(n.Surface()); err != nil {
		return err
	}
	d.prune()
	return nil
}

// prune forgets handles whose surfaces are gone.
func (d *Document) prune() {
	for id := range d.nodes {
		if !d.eng.Live(id) {
			delete(d.nodes, id)
		}
	}
	live := d.els[:0]
	for _, el := range d.els {
		if d.eng.Live(el.id) {
			live = append(live, el)
		}
	}
	clear(d.els[len(live):])
	d.els = live
}
