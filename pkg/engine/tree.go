package engine

import "github.com/vango-dev/scenesync/pkg/native"

// Every structural operation reduces to detach-then-attach on the engine's
// bookkeeping, followed by exactly one native call per attach or removal.
// The child sequences here and the native child lists stay in the same
// order after every call.

// Append moves child to the end of parent's children.
// A child attached elsewhere is detached first; no native RemoveChild is
// issued for that, as AppendChild moves the surface natively.
func (e *Engine) Append(parent, child native.SurfaceID) error {
	sc, err := e.frame.Scene()
	if err != nil {
		return err
	}
	p, c, err := e.attachable("appendChild", parent, child)
	if err != nil {
		return err
	}
	e.detach(c)
	p.children = append(p.children, c.id)
	c.parent = p.id
	sc.AppendChild(p.id, c.id)
	return nil
}

// InsertBefore moves child right before ref in parent's children. With
// ref == native.NoSurface it behaves as Append.
//
// When ref is not a child of parent the call is ignored: no structural
// change, no native call, no error. Ignored calls are logged and counted.
func (e *Engine) InsertBefore(parent, child, ref native.SurfaceID) error {
	if ref == native.NoSurface {
		return e.Append(parent, child)
	}
	sc, err := e.frame.Scene()
	if err != nil {
		return err
	}
	p, c, err := e.attachable("insertBefore", parent, child)
	if err != nil {
		return err
	}
	if ref == child || indexOf(p.children, ref) < 0 {
		e.ignore("insertBefore", parent, child, ref)
		return nil
	}
	e.detach(c)
	p.children = insertAt(p.children, indexOf(p.children, ref), c.id)
	c.parent = p.id
	sc.InsertBefore(p.id, c.id, ref)
	return nil
}

// RemoveChild detaches child from parent. It fails with ErrNotAChild when
// child is not currently a child of parent.
func (e *Engine) RemoveChild(parent, child native.SurfaceID) error {
	sc, err := e.frame.Scene()
	if err != nil {
		return err
	}
	p, err := e.lookup(parent)
	if err != nil {
		return &TreeError{Op: "removeChild", Parent: parent, Child: child, Err: err}
	}
	idx := indexOf(p.children, child)
	if idx < 0 {
		return &TreeError{Op: "removeChild", Parent: parent, Child: child, Err: ErrNotAChild}
	}
	p.children = removeAt(p.children, idx)
	if c, ok := e.surfaces[child]; ok {
		c.parent = native.NoSurface
	}
	sc.RemoveChild(parent, child)
	return nil
}

// ReplaceChild puts newChild at oldChild's position, then removes oldChild.
// When oldChild is not a child of parent the call is ignored.
func (e *Engine) ReplaceChild(parent, newChild, oldChild native.SurfaceID) error {
	sc, err := e.frame.Scene()
	if err != nil {
		return err
	}
	p, c, err := e.attachable("replaceChild", parent, newChild)
	if err != nil {
		return err
	}
	if newChild == oldChild || indexOf(p.children, oldChild) < 0 {
		e.ignore("replaceChild", parent, newChild, oldChild)
		return nil
	}
	e.detach(c)
	idx := indexOf(p.children, oldChild)
	p.children = insertAt(p.children, idx, c.id)
	c.parent = p.id
	sc.InsertBefore(p.id, c.id, oldChild)

	p.children = removeAt(p.children, idx+1)
	if old, ok := e.surfaces[oldChild]; ok {
		old.parent = native.NoSurface
	}
	sc.RemoveChild(p.id, oldChild)
	return nil
}

// Parent returns the parent of id, or native.NoSurface.
func (e *Engine) Parent(id native.SurfaceID) native.SurfaceID {
	if s, ok := e.surfaces[id]; ok {
		return s.parent
	}
	return native.NoSurface
}

// Children returns a copy of id's child sequence.
func (e *Engine) Children(id native.SurfaceID) []native.SurfaceID {
	s, ok := e.surfaces[id]
	if !ok || len(s.children) == 0 {
		return nil
	}
	out := make([]native.SurfaceID, len(s.children))
	copy(out, s.children)
	return out
}

// IndexOf returns child's index in parent's children, or -1.
func (e *Engine) IndexOf(parent, child native.SurfaceID) int {
	s, ok := e.surfaces[parent]
	if !ok {
		return -1
	}
	return indexOf(s.children, child)
}

// attachable resolves parent and child and checks that attaching child
// under parent keeps the tree acyclic. Text surfaces take no children.
func (e *Engine) attachable(op string, parent, child native.SurfaceID) (*surface, *surface, error) {
	p, err := e.lookup(parent)
	if err != nil {
		return nil, nil, &TreeError{Op: op, Parent: parent, Child: child, Err: err}
	}
	c, err := e.lookup(child)
	if err != nil {
		return nil, nil, &TreeError{Op: op, Parent: parent, Child: child, Err: err}
	}
	if child == native.RootSurface || p.kind == TextKind {
		return nil, nil, &TreeError{Op: op, Parent: parent, Child: child, Err: ErrHierarchy}
	}
	for id := parent; id != native.NoSurface; id = e.Parent(id) {
		if id == child {
			return nil, nil, &TreeError{Op: op, Parent: parent, Child: child, Err: ErrHierarchy}
		}
	}
	return p, c, nil
}

// detach removes c from its current parent's children, bookkeeping only.
// Detaching an unparented surface is a no-op.
func (e *Engine) detach(c *surface) {
	if c.parent == native.NoSurface {
		return
	}
	if p, ok := e.surfaces[c.parent]; ok {
		if idx := indexOf(p.children, c.id); idx >= 0 {
			p.children = removeAt(p.children, idx)
		}
	}
	c.parent = native.NoSurface
}

func (e *Engine) ignore(op string, parent, child, ref native.SurfaceID) {
	e.ignored++
	e.logger.Debug("reference not a child, ignoring",
		"op", op, "parent", parent, "child", child, "ref", ref)
}

func indexOf(ids []native.SurfaceID, id native.SurfaceID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func insertAt(ids []native.SurfaceID, i int, id native.SurfaceID) []native.SurfaceID {
	ids = append(ids, native.NoSurface)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func removeAt(ids []native.SurfaceID, i int) []native.SurfaceID {
	copy(ids[i:], ids[i+1:])
	return ids[:len(ids)-1]
}
