package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/protocol"
)

// Scene is an instrumented native.Scene.
type Scene struct {
	next  native.Scene
	m     *Metrics
	calls map[protocol.Op]prometheus.Counter
}

// Instrument creates the collectors with opts and wraps scene.
// Use (*Metrics).Instrument to wrap several scenes with one set of
// collectors.
func Instrument(scene native.Scene, opts ...Option) *Scene {
	return New(opts...).Instrument(scene)
}

// Instrument wraps scene.
func (m *Metrics) Instrument(scene native.Scene) *Scene {
	return &Scene{next: scene, m: m, calls: make(map[protocol.Op]prometheus.Counter)}
}

// Unwrap returns the wrapped scene.
func (s *Scene) Unwrap() native.Scene {
	return s.next
}

func (s *Scene) count(op protocol.Op) {
	c, ok := s.calls[op]
	if !ok {
		c = s.m.calls.WithLabelValues(op.String())
		s.calls[op] = c
	}
	c.Inc()
}

// Flush implements native.Flusher.
func (s *Scene) Flush() error {
	return s.FlushContext(context.Background())
}

// FlushContext implements native.ContextFlusher. Scenes that do not batch
// still count as one frame.
func (s *Scene) FlushContext(ctx context.Context) error {
	start := time.Now()
	var err error
	switch fl := s.next.(type) {
	case native.ContextFlusher:
		err = fl.FlushContext(ctx)
	case native.Flusher:
		err = fl.Flush()
	}
	s.m.flushDuration.Observe(time.Since(start).Seconds())
	s.m.frames.Inc()
	if err != nil {
		s.m.frameErrors.Inc()
	}
	return err
}

// CreateSurface implements native.Scene.
func (s *Scene) CreateSurface() native.SurfaceID {
	s.count(protocol.OpCreateSurface)
	return s.next.CreateSurface()
}

// CreateText implements native.Scene.
func (s *Scene) CreateText() native.SurfaceID {
	s.count(protocol.OpCreateText)
	return s.next.CreateText()
}

// AppendChild implements native.Scene.
func (s *Scene) AppendChild(parent, child native.SurfaceID) {
	s.count(protocol.OpAppendChild)
	s.next.AppendChild(parent, child)
}

// InsertBefore implements native.Scene.
func (s *Scene) InsertBefore(parent, child, before native.SurfaceID) {
	s.count(protocol.OpInsertBefore)
	s.next.InsertBefore(parent, child, before)
}

// RemoveChild implements native.Scene.
func (s *Scene) RemoveChild(parent, child native.SurfaceID) {
	s.count(protocol.OpRemoveChild)
	s.next.RemoveChild(parent, child)
}

// DestroySurface implements native.Scene.
func (s *Scene) DestroySurface(id native.SurfaceID) {
	s.count(protocol.OpDestroySurface)
	s.next.DestroySurface(id)
}

// SetText implements native.Scene.
func (s *Scene) SetText(id native.SurfaceID, text *string) {
	s.count(protocol.OpSetText)
	s.next.SetText(id, text)
}

// SetEventListener implements native.Scene.
func (s *Scene) SetEventListener(id native.SurfaceID, name string, l *native.Listener) {
	s.count(protocol.OpSetEventListener)
	s.next.SetEventListener(id, name, l)
}

// RemoveEventListener implements native.Scene.
func (s *Scene) RemoveEventListener(id native.SurfaceID, name string) {
	s.count(protocol.OpRemoveEventListener)
	s.next.RemoveEventListener(id, name)
}

// SetProperty implements native.Scene.
func (s *Scene) SetProperty(id native.SurfaceID, key string, value any) {
	s.count(protocol.OpSetProperty)
	s.next.SetProperty(id, key, value)
}

// SetSize implements native.StyleSetter.
func (s *Scene) SetSize(id native.SurfaceID, v *native.Size) {
	s.count(protocol.OpSetSize)
	s.next.SetSize(id, v)
}

// SetOverflow implements native.StyleSetter.
func (s *Scene) SetOverflow(id native.SurfaceID, v *native.Overflow) {
	s.count(protocol.OpSetOverflow)
	s.next.SetOverflow(id, v)
}

// SetFlex implements native.StyleSetter.
func (s *Scene) SetFlex(id native.SurfaceID, v *native.Flex) {
	s.count(protocol.OpSetFlex)
	s.next.SetFlex(id, v)
}

// SetFlow implements native.StyleSetter.
func (s *Scene) SetFlow(id native.SurfaceID, v *native.Flow) {
	s.count(protocol.OpSetFlow)
	s.next.SetFlow(id, v)
}

// SetPadding implements native.StyleSetter.
func (s *Scene) SetPadding(id native.SurfaceID, v *native.Insets) {
	s.count(protocol.OpSetPadding)
	s.next.SetPadding(id, v)
}

// SetMargin implements native.StyleSetter.
func (s *Scene) SetMargin(id native.SurfaceID, v *native.Insets) {
	s.count(protocol.OpSetMargin)
	s.next.SetMargin(id, v)
}

// SetBorderRadius implements native.StyleSetter.
func (s *Scene) SetBorderRadius(id native.SurfaceID, v *native.Corners) {
	s.count(protocol.OpSetBorderRadius)
	s.next.SetBorderRadius(id, v)
}

// SetBoxShadow implements native.StyleSetter.
func (s *Scene) SetBoxShadow(id native.SurfaceID, v *native.Shadow) {
	s.count(protocol.OpSetBoxShadow)
	s.next.SetBoxShadow(id, v)
}

// SetBackgroundColor implements native.StyleSetter.
func (s *Scene) SetBackgroundColor(id native.SurfaceID, v *native.Color) {
	s.count(protocol.OpSetBackgroundColor)
	s.next.SetBackgroundColor(id, v)
}

// SetImage implements native.StyleSetter.
func (s *Scene) SetImage(id native.SurfaceID, v *string) {
	s.count(protocol.OpSetImage)
	s.next.SetImage(id, v)
}

// SetBorder implements native.StyleSetter.
func (s *Scene) SetBorder(id native.SurfaceID, v *native.Border) {
	s.count(protocol.OpSetBorder)
	s.next.SetBorder(id, v)
}

var _ native.ContextFlusher = (*Scene)(nil)
