package capture

import (
	"errors"
	"io"

	"github.com/vango-dev/scenesync/pkg/protocol"
)

// ErrClosed is returned when writing to a closed sink.
var ErrClosed = errors.New("capture: sink closed")

// Sink receives every frame a session writes.
type Sink interface {
	WriteFrame(f *protocol.Frame) error
	Close() error
}

// ReadFrames calls fn for each frame in r until EOF.
// A capture truncated mid-frame returns io.ErrUnexpectedEOF.
func ReadFrames(r io.Reader, fn func(*protocol.Frame) error) error {
	for {
		f, err := protocol.ReadFrame(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
}
