package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vango-dev/scenesync/pkg/events"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/style"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for engine spans.
const defaultTracerName = "scenesync/engine"

// Props is a property record: prop key to value.
//
// Event props ("on" followed by an upper-case letter) take a
// *native.Listener or a func(native.Event). Listeners compare by pointer,
// so reusing one across updates skips the rebind. A func never compares
// equal and rebinds on every update that carries it.
type Props map[string]any

// Reserved prop keys.
const (
	ChildrenKey = "children" // Structural; never diffed
	StyleKey    = "style"    // Style composition (style.Source)
	TextKey     = "text"     // Text content
)

// Engine synchronizes logical trees into a native scene graph.
//
// Both producers (the declarative reconciler host and the document API) go
// through the same Engine, so structural bookkeeping exists exactly once.
// An Engine is not safe for concurrent use; every call must come from the
// one goroutine that owns the UI.
type Engine struct {
	frame    Frame
	events   *events.Table
	compiler *style.Compiler
	surfaces map[native.SurfaceID]*surface
	logger   *slog.Logger

	ignored int // insert/replace calls dropped for a missing reference
}

// surface is the engine's record of a live native surface.
type surface struct {
	id       native.SurfaceID
	kind     string // element type, or "#text"
	props    Props  // applied props
	style    style.Canonical
	parent   native.SurfaceID
	children []native.SurfaceID
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithUnbindMode selects how removed listeners are unbound.
func WithUnbindMode(mode events.UnbindMode) Option {
	return func(e *Engine) {
		e.events = events.NewTable(mode)
	}
}

// WithStyleMemo enables or disables memoized style compilation.
// Disabling it changes performance only, never the issued calls.
func WithStyleMemo(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.compiler = style.NewCompiler()
		} else {
			e.compiler = nil
		}
	}
}

// WithTracer sets the tracer used for frame spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.frame.tracer = tracer
	}
}

// New creates an Engine with the root surface registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		events:   events.NewTable(events.UnbindExplicit),
		compiler: style.NewCompiler(),
		surfaces: make(map[native.SurfaceID]*surface),
		logger:   slog.Default().With("component", "engine"),
	}
	e.frame.tracer = otel.Tracer(defaultTracerName)
	for _, opt := range opts {
		opt(e)
	}
	e.surfaces[native.RootSurface] = &surface{
		id:    native.RootSurface,
		kind:  "#root",
		props: Props{},
	}
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Events returns the event binding table.
func (e *Engine) Events() *events.Table {
	return e.events
}

// Frame returns the engine's frame boundary.
func (e *Engine) Frame() *Frame {
	return &e.frame
}

// BeginFrame opens a frame against scene. An open frame is replaced, not
// nested.
func (e *Engine) BeginFrame(scene native.Scene) {
	e.BeginFrameContext(context.Background(), scene)
}

// BeginFrameContext is BeginFrame with a parent context for tracing.
func (e *Engine) BeginFrameContext(ctx context.Context, scene native.Scene) {
	if e.frame.Begin(ctx, scene) {
		e.logger.Debug("frame replaced", "seq", e.frame.Seq())
	}
}

// CommitFrame closes the open frame and flushes batched calls.
func (e *Engine) CommitFrame() error {
	return e.frame.Commit()
}

// Batch runs fn inside a frame against scene. When fn fails the frame is
// abandoned: calls already issued are still flushed (they are not rolled
// back) and fn's error is returned.
func (e *Engine) Batch(scene native.Scene, fn func() error) error {
	e.BeginFrame(scene)
	err := fn()
	if err != nil {
		e.logger.Warn("abandoning frame", "seq", e.frame.Seq(), "error", err)
	}
	if cerr := e.CommitFrame(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// Dispatch delivers a native event to its bound listener.
func (e *Engine) Dispatch(ev native.Event) bool {
	return e.events.Dispatch(ev)
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Surfaces        int // Live surfaces, root included
	Frames          uint64
	StyleMemoHits   int
	StyleMemoMisses int
	IgnoredInserts  int
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() Stats {
	hits, misses := e.compiler.Stats()
	return Stats{
		Surfaces:        len(e.surfaces),
		Frames:          e.frame.Seq(),
		StyleMemoHits:   hits,
		StyleMemoMisses: misses,
		IgnoredInserts:  e.ignored,
	}
}

func (e *Engine) lookup(id native.SurfaceID) (*surface, error) {
	s, ok := e.surfaces[id]
	if !ok {
		return nil, ErrUnknownSurface
	}
	return s, nil
}
