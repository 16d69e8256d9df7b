package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/protocol"
)

// Dispatcher receives the events read from the native side.
// *engine.Engine satisfies it.
type Dispatcher interface {
	Dispatch(ev native.Event) bool
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(ev native.Event) bool

// Dispatch calls f(ev).
func (f DispatchFunc) Dispatch(ev native.Event) bool {
	return f(ev)
}

// ReadLoop reads frames until the connection closes, ctx is done or the
// native side reports a fatal error. Events are dispatched on the calling
// goroutine, so a Dispatcher that renders may use the session directly.
//
// A normal close returns nil. The session is closed when ReadLoop returns.
func (s *Session) ReadLoop(ctx context.Context, d Dispatcher) error {
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	for {
		if s.config.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if s.closed.Load() {
				return nil
			}
			return fmt.Errorf("transport: read: %w", err)
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.SendError(protocol.ErrInvalidFrame, 0, err.Error(), false)
			continue
		}

		if err := s.handleFrame(frame, d); err != nil {
			return err
		}
	}
}

func (s *Session) handleFrame(frame *protocol.Frame, d Dispatcher) error {
	switch frame.Type {
	case protocol.FrameEvent:
		s.handleEventFrame(frame.Payload, d)

	case protocol.FrameAck:
		ack, err := protocol.DecodeAck(frame.Payload)
		if err != nil {
			s.logger.Error("ack decode error", "error", err)
			return nil
		}
		s.ackSeq.Store(ack.LastSeq)
		s.logger.Debug("received ack", "seq", ack.LastSeq)

	case protocol.FrameError:
		em, err := protocol.DecodeErrorMessage(frame.Payload)
		if err != nil {
			s.logger.Error("error frame decode error", "error", err)
			return nil
		}
		if em.Fatal {
			s.logger.Error("peer reported fatal error", "code", em.Code, "seq", em.Seq, "message", em.Message)
			return fmt.Errorf("%w: %w", ErrPeerFatal, em)
		}
		s.logger.Warn("peer reported error", "code", em.Code, "seq", em.Seq, "message", em.Message)

	default:
		s.logger.Warn("unknown frame type", "type", frame.Type)
	}
	return nil
}

func (s *Session) handleEventFrame(payload []byte, d Dispatcher) {
	ef, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		code := protocol.ErrInvalidFrame
		if errors.Is(err, protocol.ErrInvalidEvent) {
			code = protocol.ErrEventRejected
		}
		s.SendError(code, 0, "invalid event format", false)
		return
	}

	if !d.Dispatch(ef.Event) {
		s.logger.Debug("event without listener",
			"surface", ef.Event.Surface,
			"event", ef.Event.Name,
			"seq", ef.Seq)
	}
}
