package vdom

import (
	"context"
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/events"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/reconciler"
)

// instance is a mounted element or text node.
type instance struct {
	kind     VKind
	typ      string
	key      string
	text     string
	props    engine.Props
	id       native.SurfaceID
	children []*instance

	// handlers holds one stable listener per event prop given as a func.
	handlers map[string]*handler
}

// handler is a listener whose target is swapped on every render, so a
// freshly built func does not rebind the native listener.
type handler struct {
	fn atomic.Pointer[func(native.Event)]
	l  *native.Listener
}

func newHandler(fn func(native.Event)) *handler {
	h := &handler{}
	h.fn.Store(&fn)
	h.l = native.NewListener(func(ev native.Event) {
		(*h.fn.Load())(ev)
	})
	return h
}

// bind returns props with every func event handler replaced by the
// instance's stable listener for that key. Handlers for keys that no
// longer carry a func are dropped.
func (inst *instance) bind(props engine.Props) engine.Props {
	var out engine.Props
	seen := 0
	for k, v := range props {
		fn, ok := v.(func(native.Event))
		if !ok || fn == nil || !events.IsEventKey(k) {
			continue
		}
		if out == nil {
			out = make(engine.Props, len(props))
			for k2, v2 := range props {
				out[k2] = v2
			}
		}
		if inst.handlers == nil {
			inst.handlers = make(map[string]*handler)
		}
		if h, ok := inst.handlers[k]; ok {
			h.fn.Store(&fn)
		} else {
			inst.handlers[k] = newHandler(fn)
		}
		out[k] = inst.handlers[k].l
		seen++
	}
	if seen < len(inst.handlers) {
		for k := range inst.handlers {
			if _, ok := props[k].(func(native.Event)); !ok {
				delete(inst.handlers, k)
			}
		}
	}
	if out == nil {
		return props
	}
	return out
}

// Root renders VNode trees into the container of a reconciler.Host.
// A Root is not safe for concurrent use.
type Root struct {
	host     *reconciler.Host
	children []*instance
	logger   *slog.Logger
}

// NewRoot creates a root rendering into host's container.
func NewRoot(host *reconciler.Host) *Root {
	return &Root{
		host:   host,
		logger: host.Engine().Logger().With("component", "vdom"),
	}
}

// Host returns the host the root drives.
func (r *Root) Host() *reconciler.Host {
	return r.host
}

// Render diffs tree against the previously rendered tree and applies the
// difference in one frame. A nil tree unmounts everything.
//
// Errors do not stop the pass: every node is still visited, so the mounted
// state keeps matching the engine. The first error is returned.
func (r *Root) Render(ctx context.Context, tree *VNode) error {
	next := expand(nil, []*VNode{tree})
	return r.host.Commit(ctx, func() error {
		p := &pass{host: r.host, logger: r.logger}
		r.children = p.reconcile(r.host.Container(), r.children, next)
		return p.err
	})
}

// Unmount removes everything the root rendered.
func (r *Root) Unmount(ctx context.Context) error {
	return r.Render(ctx, nil)
}

// expand flattens fragments and renders components so that only element
// and text nodes remain.
func expand(out, nodes []*VNode) []*VNode {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		switch n.Kind {
		case KindFragment:
			out = expand(out, n.Children)
		case KindComponent:
			if n.Comp == nil {
				continue
			}
			rendered := n.Comp.Render()
			if rendered != nil && rendered.Key == "" && n.Key != "" {
				keyed := *rendered
				keyed.Key = n.Key
				rendered = &keyed
			}
			out = expand(out, []*VNode{rendered})
		case KindElement, KindText:
			out = append(out, n)
		}
	}
	return out
}

// pass is one render's walk over the tree.
type pass struct {
	host   *reconciler.Host
	logger *slog.Logger
	err    error
}

func (p *pass) fail(err error) {
	if err == nil {
		return
	}
	p.logger.Warn("render error", "error", err)
	if p.err == nil {
		p.err = err
	}
}

// reconcile turns parent's mounted children prev into next and returns the
// new mounted children.
func (p *pass) reconcile(parent native.SurfaceID, prev []*instance, next []*VNode) []*instance {
	var match []int
	if hasKeys(prev, next) {
		match = matchKeyed(prev, next)
	} else {
		match = matchPositional(prev, next)
	}

	used := make([]bool, len(prev))
	for _, j := range match {
		if j >= 0 {
			used[j] = true
		}
	}
	for j, old := range prev {
		if !used[j] {
			p.remove(parent, old.id)
		}
	}

	out := make([]*instance, 0, len(next))
	for i, n := range next {
		var inst *instance
		if j := match[i]; j >= 0 {
			inst = prev[j]
			p.patch(inst, n)
		} else {
			inst = p.mount(n)
		}
		if inst != nil {
			out = append(out, inst)
		}
	}

	p.place(parent, out)
	return out
}

// matchPositional pairs children by index. match[i] is the index in prev
// of next[i]'s counterpart, or -1.
func matchPositional(prev []*instance, next []*VNode) []int {
	match := make([]int, len(next))
	for i, n := range next {
		match[i] = -1
		if i < len(prev) && sameNode(prev[i], n) {
			match[i] = i
		}
	}
	return match
}

// matchKeyed pairs children by key. Unkeyed children and children whose
// kind or type changed are mounted anew.
func matchKeyed(prev []*instance, next []*VNode) []int {
	prevKeyMap := make(map[string]int, len(prev))
	for i, child := range prev {
		if child.key != "" {
			if _, dup := prevKeyMap[child.key]; !dup {
				prevKeyMap[child.key] = i
			}
		}
	}

	match := make([]int, len(next))
	for i, n := range next {
		match[i] = -1
		if n.Key == "" {
			continue
		}
		j, ok := prevKeyMap[n.Key]
		if !ok {
			continue
		}
		// A duplicate key only matches once.
		delete(prevKeyMap, n.Key)
		if sameNode(prev[j], n) {
			match[i] = j
		}
	}
	return match
}

// hasKeys returns true if any child on either side has a key.
func hasKeys(prev []*instance, next []*VNode) bool {
	for _, child := range prev {
		if child.key != "" {
			return true
		}
	}
	for _, child := range next {
		if child.Key != "" {
			return true
		}
	}
	return false
}

func sameNode(inst *instance, n *VNode) bool {
	if inst.kind != n.Kind || inst.key != n.Key {
		return false
	}
	return n.Kind != KindElement || inst.typ == n.Type
}

// mount creates the surface for n and its detached subtree.
func (p *pass) mount(n *VNode) *instance {
	inst := &instance{kind: n.Kind, typ: n.Type, key: n.Key}

	var err error
	switch n.Kind {
	case KindText:
		inst.text = n.Text
		inst.id, err = p.host.CreateTextInstance(n.Text)
	default:
		inst.props = inst.bind(n.Props)
		inst.id, err = p.host.CreateInstance(n.Type, inst.props)
	}
	if inst.id == native.NoSurface {
		p.fail(err)
		return nil
	}
	if err != nil {
		p.fail(err)
		inst.props = p.host.Engine().Props(inst.id)
	}

	for _, c := range expand(nil, n.Children) {
		child := p.mount(c)
		if child == nil {
			continue
		}
		p.fail(p.host.AppendInitialChild(inst.id, child.id))
		inst.children = append(inst.children, child)
	}
	return inst
}

// patch brings a matched instance up to date with n.
func (p *pass) patch(inst *instance, n *VNode) {
	if n.Kind == KindText {
		p.fail(p.host.CommitTextUpdate(inst.id, inst.text, n.Text))
		inst.text = n.Text
		return
	}
	next := inst.bind(n.Props)
	if !propsEqual(inst.props, next) {
		old := inst.props
		inst.props = next
		if err := p.host.CommitUpdate(inst.id, old, next); err != nil {
			p.fail(err)
			inst.props = p.host.Engine().Props(inst.id)
		}
	}
	inst.children = p.reconcile(inst.id, inst.children, expand(nil, n.Children))
}

// place moves children into order, walking from the end so each child
// only has to be checked against its already placed successor.
func (p *pass) place(parent native.SurfaceID, children []*instance) {
	eng := p.host.Engine()
	before := native.NoSurface
	for i := len(children) - 1; i >= 0; i-- {
		id := children[i].id
		if eng.Parent(id) != parent || nextSibling(eng, parent, id) != before {
			p.insert(parent, id, before)
		}
		before = id
	}
}

func nextSibling(eng *engine.Engine, parent, child native.SurfaceID) native.SurfaceID {
	kids := eng.Children(parent)
	for i, id := range kids {
		if id == child && i+1 < len(kids) {
			return kids[i+1]
		}
	}
	return native.NoSurface
}

func (p *pass) insert(parent, child, before native.SurfaceID) {
	container := parent == p.host.Container()
	switch {
	case container && before == native.NoSurface:
		p.fail(p.host.AppendChildToContainer(child))
	case container:
		p.fail(p.host.InsertInContainerBefore(child, before))
	case before == native.NoSurface:
		p.fail(p.host.AppendChild(parent, child))
	default:
		p.fail(p.host.InsertBefore(parent, child, before))
	}
}

func (p *pass) remove(parent, child native.SurfaceID) {
	if parent == p.host.Container() {
		p.fail(p.host.RemoveChildFromContainer(child))
		return
	}
	p.fail(p.host.RemoveChild(parent, child))
}

// propsEqual reports whether two prop maps hold the same values. Listeners
// compare by pointer, so a render that builds fresh *native.Listener values
// always updates; func handlers are already stable after bind.
func propsEqual(a, b engine.Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if al, ok := av.(*native.Listener); ok {
			if al != bv {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
