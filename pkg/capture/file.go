package capture

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vango-dev/scenesync/pkg/protocol"
)

// FileExt is the extension of capture files.
const FileExt = ".scn"

// FileSink writes frames to a local file.
type FileSink struct {
	mu     sync.Mutex
	f      *os.File
	w      *bufio.Writer
	frames int
	closed bool
}

// NewFileSink creates (or truncates) the file at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return &FileSink{f: f, w: bufio.NewWriter(f)}, nil
}

// CreateFile creates dir if needed and opens <dir>/<name>.scn.
func CreateFile(dir, name string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return NewFileSink(filepath.Join(dir, name+FileExt))
}

// Path returns the path of the capture file.
func (s *FileSink) Path() string {
	return s.f.Name()
}

// Frames returns the number of frames written.
func (s *FileSink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// WriteFrame implements Sink.
func (s *FileSink) WriteFrame(f *protocol.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := protocol.WriteFrame(s.w, f); err != nil {
		return err
	}
	s.frames++
	return nil
}

// Close flushes buffered frames and closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
