package transport

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/scenesync/pkg/capture"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/protocol"
)

const tracerName = "scenesync/transport"

// Config holds configuration for a Session.
type Config struct {
	// MaxFramePayload is the largest payload of one Commands frame.
	// Default: protocol.MaxPayloadSize.
	MaxFramePayload int

	// MaxCommands caps the commands per frame. 0 means no cap.
	MaxCommands int

	// WriteTimeout bounds each frame write. 0 disables the deadline.
	// Default: 5 seconds.
	WriteTimeout time.Duration

	// ReadTimeout bounds the wait for the next message in ReadLoop.
	// 0 disables the deadline.
	ReadTimeout time.Duration

	// Capture, if set, receives a copy of every frame written.
	Capture capture.Sink

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Tracer defaults to the global otel tracer.
	Tracer trace.Tracer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFramePayload: protocol.MaxPayloadSize,
		WriteTimeout:    5 * time.Second,
	}
}

// Session is a native.Scene that buffers calls as protocol commands and
// writes them to a Conn on Flush.
//
// Scene calls and Flush must come from one goroutine at a time, normally
// the one running the engine. ReadLoop may run concurrently; writes to the
// connection are serialized.
type Session struct {
	id     string
	conn   Conn
	config Config
	limits protocol.BatchLimits
	logger *slog.Logger
	tracer trace.Tracer

	next    native.SurfaceID
	pending []protocol.Command
	err     error // first buffering error since the last flush

	mu     sync.Mutex // Protects conn writes and capture
	closed atomic.Bool

	sendSeq atomic.Uint64 // Last Commands sequence sent
	ackSeq  atomic.Uint64 // Last sequence acknowledged by the native side

	bytesSent    atomic.Uint64
	commandsSent atomic.Uint64
	framesSent   atomic.Uint64
}

// NewSession creates a session on conn. A nil config uses DefaultConfig.
func NewSession(conn Conn, config *Config) *Session {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Session{
		id:     uuid.NewString(),
		conn:   conn,
		config: *config,
		next:   native.FirstSurface,
		limits: protocol.BatchLimits{
			MaxPayload:  config.MaxFramePayload,
			MaxCommands: config.MaxCommands,
		},
		logger: config.Logger,
		tracer: config.Tracer,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "transport", "session_id", s.id)
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// ID returns the session's UUID.
func (s *Session) ID() string {
	return s.id
}

// Pending returns the number of buffered commands.
func (s *Session) Pending() int {
	return len(s.pending)
}

// Seq returns the sequence number of the last Commands batch sent.
func (s *Session) Seq() uint64 {
	return s.sendSeq.Load()
}

// AckSeq returns the last sequence number acknowledged by the native side.
func (s *Session) AckSeq() uint64 {
	return s.ackSeq.Load()
}

// Stats holds session counters.
type Stats struct {
	Frames   uint64
	Commands uint64
	Bytes    uint64
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return Stats{
		Frames:   s.framesSent.Load(),
		Commands: s.commandsSent.Load(),
		Bytes:    s.bytesSent.Load(),
	}
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Close closes the connection and the capture sink. It is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.conn.Close()
	if s.config.Capture != nil {
		if cerr := s.config.Capture.Close(); cerr != nil {
			s.logger.Error("capture close failed", "error", cerr)
		}
	}
	s.logger.Info("session closed",
		"frames", s.framesSent.Load(),
		"commands", s.commandsSent.Load(),
		"bytes", s.bytesSent.Load())
	return err
}

// SetCapture sets the sink that receives a copy of every frame written from
// now on. The session closes it on Close.
func (s *Session) SetCapture(sink capture.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Capture = sink
}

func (s *Session) alloc() native.SurfaceID {
	id := s.next
	s.next++
	return id
}

func (s *Session) push(cmd protocol.Command) {
	s.pending = append(s.pending, cmd)
}

// deref turns a style setter argument into a command value: the pointed-to
// value, or nil to clear.
func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// CreateSurface implements native.Scene.
func (s *Session) CreateSurface() native.SurfaceID {
	id := s.alloc()
	s.push(protocol.Command{Op: protocol.OpCreateSurface, Surface: id})
	return id
}

// CreateText implements native.Scene.
func (s *Session) CreateText() native.SurfaceID {
	id := s.alloc()
	s.push(protocol.Command{Op: protocol.OpCreateText, Surface: id})
	return id
}

// AppendChild implements native.Scene.
func (s *Session) AppendChild(parent, child native.SurfaceID) {
	s.push(protocol.Command{Op: protocol.OpAppendChild, Surface: parent, Child: child})
}

// InsertBefore implements native.Scene.
func (s *Session) InsertBefore(parent, child, before native.SurfaceID) {
	s.push(protocol.Command{Op: protocol.OpInsertBefore, Surface: parent, Child: child, Before: before})
}

// RemoveChild implements native.Scene.
func (s *Session) RemoveChild(parent, child native.SurfaceID) {
	s.push(protocol.Command{Op: protocol.OpRemoveChild, Surface: parent, Child: child})
}

// DestroySurface implements native.Scene.
func (s *Session) DestroySurface(id native.SurfaceID) {
	s.push(protocol.Command{Op: protocol.OpDestroySurface, Surface: id})
}

// SetText implements native.Scene.
func (s *Session) SetText(id native.SurfaceID, text *string) {
	s.push(protocol.Command{Op: protocol.OpSetText, Surface: id, Value: deref(text)})
}

// SetEventListener implements native.Scene. Only whether the listener does
// anything crosses the wire; events come back by surface and name.
func (s *Session) SetEventListener(id native.SurfaceID, name string, l *native.Listener) {
	s.push(protocol.Command{Op: protocol.OpSetEventListener, Surface: id, Name: name, Value: !l.IsNoop()})
}

// RemoveEventListener implements native.Scene.
func (s *Session) RemoveEventListener(id native.SurfaceID, name string) {
	s.push(protocol.Command{Op: protocol.OpRemoveEventListener, Surface: id, Name: name})
}

// SetProperty implements native.Scene. Values that cannot be encoded are
// dropped and reported by the next Flush.
func (s *Session) SetProperty(id native.SurfaceID, key string, value any) {
	v, err := protocol.Normalize(value)
	if err != nil {
		s.logger.Warn("dropping property", "surface", id, "key", key, "error", err)
		if s.err == nil {
			s.err = fmt.Errorf("transport: property %q of surface %d: %w", key, id, err)
		}
		return
	}
	s.push(protocol.Command{Op: protocol.OpSetProperty, Surface: id, Name: key, Value: v})
}

// SetSize implements native.StyleSetter.
func (s *Session) SetSize(id native.SurfaceID, v *native.Size) {
	s.push(protocol.Command{Op: protocol.OpSetSize, Surface: id, Value: deref(v)})
}

// SetOverflow implements native.StyleSetter.
func (s *Session) SetOverflow(id native.SurfaceID, v *native.Overflow) {
	s.push(protocol.Command{Op: protocol.OpSetOverflow, Surface: id, Value: deref(v)})
}

// SetFlex implements native.StyleSetter.
func (s *Session) SetFlex(id native.SurfaceID, v *native.Flex) {
	s.push(protocol.Command{Op: protocol.OpSetFlex, Surface: id, Value: deref(v)})
}

// SetFlow implements native.StyleSetter.
func (s *Session) SetFlow(id native.SurfaceID, v *native.Flow) {
	s.push(protocol.Command{Op: protocol.OpSetFlow, Surface: id, Value: deref(v)})
}

// SetPadding implements native.StyleSetter.
func (s *Session) SetPadding(id native.SurfaceID, v *native.Insets) {
	s.push(protocol.Command{Op: protocol.OpSetPadding, Surface: id, Value: deref(v)})
}

// SetMargin implements native.StyleSetter.
func (s *Session) SetMargin(id native.SurfaceID, v *native.Insets) {
	s.push(protocol.Command{Op: protocol.OpSetMargin, Surface: id, Value: deref(v)})
}

// SetBorderRadius implements native.StyleSetter.
func (s *Session) SetBorderRadius(id native.SurfaceID, v *native.Corners) {
	s.push(protocol.Command{Op: protocol.OpSetBorderRadius, Surface: id, Value: deref(v)})
}

// SetBoxShadow implements native.StyleSetter.
func (s *Session) SetBoxShadow(id native.SurfaceID, v *native.Shadow) {
	s.push(protocol.Command{Op: protocol.OpSetBoxShadow, Surface: id, Value: deref(v)})
}

// SetBackgroundColor implements native.StyleSetter.
func (s *Session) SetBackgroundColor(id native.SurfaceID, v *native.Color) {
	s.push(protocol.Command{Op: protocol.OpSetBackgroundColor, Surface: id, Value: deref(v)})
}

// SetImage implements native.StyleSetter.
func (s *Session) SetImage(id native.SurfaceID, v *string) {
	s.push(protocol.Command{Op: protocol.OpSetImage, Surface: id, Value: deref(v)})
}

// SetBorder implements native.StyleSetter.
func (s *Session) SetBorder(id native.SurfaceID, v *native.Border) {
	s.push(protocol.Command{Op: protocol.OpSetBorder, Surface: id, Value: deref(v)})
}

var (
	_ native.Scene          = (*Session)(nil)
	_ native.Flusher        = (*Session)(nil)
	_ native.ContextFlusher = (*Session)(nil)
)
