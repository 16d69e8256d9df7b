// Package reconciler adapts the engine to the host-callback shape used by
// declarative tree producers.
//
// A producer (see package vdom) diffs its own trees and reports the
// resulting mutations as host callbacks; Host turns each callback into
// engine operations. All callbacks of one render pass sit between
// PrepareForCommit and ResetAfterCommit, which open and commit one engine
// frame.
package reconciler

import (
	"context"
	"log/slog"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
)

// Host maps reconciler callbacks onto an Engine and a scene.
type Host struct {
	eng       *engine.Engine
	scene     native.Scene
	container native.SurfaceID
	logger    *slog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithContainer sets the container surface. Default: native.RootSurface.
func WithContainer(id native.SurfaceID) Option {
	return func(h *Host) {
		h.container = id
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// NewHost creates a Host that renders into scene through eng.
func NewHost(eng *engine.Engine, scene native.Scene, opts ...Option) *Host {
	h := &Host{
		eng:       eng,
		scene:     scene,
		container: native.RootSurface,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "reconciler")
	return h
}

// Engine returns the engine the host drives.
func (h *Host) Engine() *engine.Engine {
	return h.eng
}

// Container returns the container surface.
func (h *Host) Container() native.SurfaceID {
	return h.container
}

// PrepareForCommit opens the frame for a render pass.
func (h *Host) PrepareForCommit(ctx context.Context) {
	h.eng.BeginFrameContext(ctx, h.scene)
}

// ResetAfterCommit commits the frame, flushing batched calls.
func (h *Host) ResetAfterCommit() error {
	return h.eng.CommitFrame()
}

// Commit runs fn between PrepareForCommit and ResetAfterCommit. The frame
// is committed even when fn fails.
func (h *Host) Commit(ctx context.Context, fn func() error) error {
	h.PrepareForCommit(ctx)
	err := fn()
	if err != nil {
		h.logger.Warn("render pass failed", "error", err)
	}
	if cerr := h.ResetAfterCommit(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// CreateInstance creates a surface of the given type and applies props.
func (h *Host) CreateInstance(typ string, props engine.Props) (native.SurfaceID, error) {
	return h.eng.Create(typ, props)
}

// CreateTextInstance creates a text surface.
func (h *Host) CreateTextInstance(text string) (native.SurfaceID, error) {
	return h.eng.CreateText(text)
}

// CommitUpdate applies the difference between oldProps and newProps.
func (h *Host) CommitUpdate(id native.SurfaceID, oldProps, newProps engine.Props) error {
	return h.eng.Update(id, newProps, oldProps)
}

// CommitTextUpdate replaces the content of a text surface.
func (h *Host) CommitTextUpdate(id native.SurfaceID, oldText, newText string) error {
	if oldText == newText {
		return nil
	}
	return h.eng.UpdateText(id, newText)
}

// AppendInitialChild attaches a child while its parent is still detached.
func (h *Host) AppendInitialChild(parent, child native.SurfaceID) error {
	return h.eng.Append(parent, child)
}

// AppendChild moves child to the end of parent's children.
func (h *Host) AppendChild(parent, child native.SurfaceID) error {
	return h.eng.Append(parent, child)
}

// AppendChildToContainer appends child to the container surface.
func (h *Host) AppendChildToContainer(child native.SurfaceID) error {
	return h.eng.Append(h.container, child)
}

// InsertBefore moves child before `before` in parent's children.
func (h *Host) InsertBefore(parent, child, before native.SurfaceID) error {
	return h.eng.InsertBefore(parent, child, before)
}

// InsertInContainerBefore inserts child before `before` in the container.
func (h *Host) InsertInContainerBefore(child, before native.SurfaceID) error {
	return h.eng.InsertBefore(h.container, child, before)
}

// RemoveChild detaches child from parent and releases its subtree.
func (h *Host) RemoveChild(parent, child native.SurfaceID) error {
	if h.eng.Parent(child) != parent {
		// Reports ErrNotAChild with the surfaces involved.
		return h.eng.RemoveChild(parent, child)
	}
	return h.eng.Release(child)
}

// RemoveChildFromContainer removes child from the container and releases
// its subtree.
func (h *Host) RemoveChildFromContainer(child native.SurfaceID) error {
	return h.RemoveChild(h.container, child)
}
