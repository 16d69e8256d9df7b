package engine

import (
	"context"
	"fmt"

	"github.com/vango-dev/scenesync/pkg/native"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Frame is the begin/commit boundary of one rendering pass. While a frame is
// active it holds the scene every mutation is issued against; outside a frame
// Scene fails with ErrNoActiveFrame.
//
// Frames do not nest: Begin while a frame is active replaces the scene.
type Frame struct {
	scene  native.Scene
	ctx    context.Context
	seq    uint64
	span   trace.Span
	tracer trace.Tracer
}

// Scene returns the active scene.
func (f *Frame) Scene() (native.Scene, error) {
	if f.scene == nil {
		return nil, ErrNoActiveFrame
	}
	return f.scene, nil
}

// Active reports whether a frame is open.
func (f *Frame) Active() bool {
	return f.scene != nil
}

// Seq returns the sequence number of the current (or last) frame.
func (f *Frame) Seq() uint64 {
	return f.seq
}

// Begin opens a frame against scene, replacing any open one.
// It reports whether an open frame was replaced.
func (f *Frame) Begin(ctx context.Context, scene native.Scene) bool {
	replaced := f.scene != nil
	if replaced && f.span != nil {
		f.span.SetAttributes(attribute.Bool("scenesync.frame_replaced", true))
		f.span.End()
	}
	f.seq++
	f.scene = scene
	f.ctx = ctx
	f.span = nil
	if f.tracer != nil {
		f.ctx, f.span = f.tracer.Start(ctx, "scenesync.frame",
			trace.WithAttributes(attribute.Int64("scenesync.frame_seq", int64(f.seq))),
		)
	}
	return replaced
}

// Commit closes the frame and flushes the scene if it batches calls.
// The frame is cleared even when the flush fails.
func (f *Frame) Commit() error {
	scene := f.scene
	if scene == nil {
		return ErrNoActiveFrame
	}
	span, ctx := f.span, f.ctx
	f.scene = nil
	f.span = nil
	f.ctx = nil

	var ferr error
	switch fl := scene.(type) {
	case native.ContextFlusher:
		ferr = fl.FlushContext(ctx)
	case native.Flusher:
		ferr = fl.Flush()
	}
	var err error
	if ferr != nil {
		err = fmt.Errorf("engine: flush frame %d: %w", f.seq, ferr)
	}
	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
	return err
}
