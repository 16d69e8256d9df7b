package engine

import (
	"fmt"

	"github.com/vango-dev/scenesync/pkg/native"
)

// TextKind is the kind recorded for text surfaces.
const TextKind = "#text"

// Create allocates a native surface of the given kind and applies props
// against an empty previous record. When applying props fails the surface
// still exists and its id is returned together with the error.
func (e *Engine) Create(kind string, props Props) (native.SurfaceID, error) {
	sc, err := e.frame.Scene()
	if err != nil {
		return native.NoSurface, err
	}
	s := &surface{
		id:    sc.CreateSurface(),
		kind:  kind,
		props: Props{},
	}
	e.surfaces[s.id] = s

	applied, err := e.diffProps(sc, s, props, nil)
	s.props = applied
	return s.id, err
}

// CreateText allocates a native text surface with the given content.
func (e *Engine) CreateText(text string) (native.SurfaceID, error) {
	sc, err := e.frame.Scene()
	if err != nil {
		return native.NoSurface, err
	}
	s := &surface{
		id:    sc.CreateText(),
		kind:  TextKind,
		props: Props{},
	}
	e.surfaces[s.id] = s
	if text != "" {
		sc.SetText(s.id, &text)
		s.props[TextKey] = text
	}
	return s.id, nil
}

// Update applies the difference between prev and next, then records next
// as the applied state. A nil prev means "the currently applied props".
func (e *Engine) Update(id native.SurfaceID, next, prev Props) error {
	sc, err := e.frame.Scene()
	if err != nil {
		return err
	}
	s, err := e.lookup(id)
	if err != nil {
		return fmt.Errorf("engine: surface %d: %w", id, err)
	}
	if prev == nil {
		prev = s.props
	}
	applied, err := e.diffProps(sc, s, next, prev)
	s.props = applied
	return err
}

// UpdateText replaces the content of a text surface.
func (e *Engine) UpdateText(id native.SurfaceID, text string) error {
	return e.Update(id, Props{TextKey: text}, nil)
}

// Props returns a copy of the props applied to id.
func (e *Engine) Props(id native.SurfaceID) Props {
	s, ok := e.surfaces[id]
	if !ok {
		return nil
	}
	out := make(Props, len(s.props))
	for k, v := range s.props {
		out[k] = v
	}
	return out
}

// Kind returns the kind id was created with.
func (e *Engine) Kind(id native.SurfaceID) (string, bool) {
	s, ok := e.surfaces[id]
	if !ok {
		return "", false
	}
	return s.kind, true
}

// Live reports whether id is a live surface.
func (e *Engine) Live(id native.SurfaceID) bool {
	_, ok := e.surfaces[id]
	return ok
}

// Release frees a surface and its subtree. An attached surface is first
// removed from its parent. One native DestroySurface is issued for id; the
// applied state and event bindings of every surface in the subtree are
// discarded without further native calls.
func (e *Engine) Release(id native.SurfaceID) error {
	sc, err := e.frame.Scene()
	if err != nil {
		return err
	}
	if id == native.RootSurface {
		return ErrRootSurface
	}
	s, err := e.lookup(id)
	if err != nil {
		return fmt.Errorf("engine: surface %d: %w", id, err)
	}
	if s.parent != native.NoSurface {
		if err := e.RemoveChild(s.parent, id); err != nil {
			return err
		}
	}
	sc.DestroySurface(id)

	n := e.forget(s)
	e.logger.Debug("released surface", "surface", id, "subtree", n)
	return nil
}

// forget drops the bookkeeping of s and its descendants.
func (e *Engine) forget(s *surface) int {
	n := 1
	for _, child := range s.children {
		if c, ok := e.surfaces[child]; ok {
			n += e.forget(c)
		}
	}
	delete(e.surfaces, s.id)
	e.events.Drop(s.id)
	return n
}
