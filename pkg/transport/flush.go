package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/scenesync/pkg/protocol"
)

// Flush implements native.Flusher.
func (s *Session) Flush() error {
	return s.FlushContext(context.Background())
}

// FlushContext sends the buffered commands as one batch. A batch larger
// than one frame is split; all its frames share a sequence number and the
// last carries protocol.FlagFinal. Nothing is sent when the buffer is
// empty.
//
// The buffer is cleared whether or not the write succeeds. A write error
// closes the session.
func (s *Session) FlushContext(ctx context.Context) error {
	cmds, pendingErr := s.pending, s.err
	s.pending = s.pending[:0:0]
	s.err = nil

	if s.closed.Load() {
		return ErrSessionClosed
	}
	if len(cmds) == 0 {
		return pendingErr
	}

	seq := s.sendSeq.Add(1)
	_, span := s.tracer.Start(ctx, "scenesync.transport.flush",
		trace.WithAttributes(
			attribute.String("scenesync.session_id", s.id),
			attribute.Int64("scenesync.seq", int64(seq)),
			attribute.Int("scenesync.commands", len(cmds)),
		),
	)
	defer span.End()

	frames, err := protocol.EncodeBatch(seq, cmds, s.limits)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("transport: encode batch %d: %w", seq, err)
	}
	span.SetAttributes(attribute.Int("scenesync.frames", len(frames)))

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, f := range frames {
		written, err := s.writeFrameLocked(f)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		n += written
	}
	s.commandsSent.Add(uint64(len(cmds)))

	s.logger.Debug("sent commands",
		"seq", seq,
		"count", len(cmds),
		"frames", len(frames),
		"bytes", n)
	return pendingErr
}

// writeFrameLocked writes one frame and copies it to the capture sink.
// s.mu must be held.
func (s *Session) writeFrameLocked(f *protocol.Frame) (int, error) {
	if s.closed.Load() {
		return 0, ErrSessionClosed
	}
	data := f.Encode()

	if s.config.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.logger.Error("write error", "error", err)
		s.closeLocked()
		return 0, fmt.Errorf("transport: write %s frame: %w", f.Type, err)
	}
	s.framesSent.Add(1)
	s.bytesSent.Add(uint64(len(data)))

	if s.config.Capture != nil {
		if err := s.config.Capture.WriteFrame(f); err != nil {
			s.logger.Warn("capture write failed", "error", err)
		}
	}
	return len(data), nil
}

// SendError reports an error to the native side.
func (s *Session) SendError(code protocol.ErrorCode, seq uint64, message string, fatal bool) error {
	payload := protocol.EncodeErrorMessage(&protocol.ErrorMessage{
		Code:    code,
		Seq:     seq,
		Message: message,
		Fatal:   fatal,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.writeFrameLocked(protocol.NewFrame(protocol.FrameError, payload))
	return err
}
