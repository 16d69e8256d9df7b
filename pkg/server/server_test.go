package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/scenesync/pkg/metrics"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/protocol"
	"github.com/vango-dev/scenesync/pkg/vdom"
)

// counterApp renders a button whose label counts clicks.
func counterApp(ctx context.Context, c *Client) error {
	count := 0
	root := vdom.NewRoot(c.Host())

	var view func() *vdom.VNode
	onClick := native.NewListener(func(native.Event) {
		count++
		root.Render(ctx, view())
	})
	view = func() *vdom.VNode {
		return vdom.El("Button", vdom.Prop("onClick", onClick), vdom.Textf("%d", count))
	}
	return root.Render(ctx, view())
}

func startServer(t *testing.T, config *Config, handler Handler, opts ...Option) (*Server, string) {
	t.Helper()
	srv := New(config, handler, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, ts.URL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/scene", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	mt, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if mt != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", mt)
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	return f
}

func readCommands(t *testing.T, conn *websocket.Conn) []protocol.Command {
	t.Helper()
	cf, err := protocol.DecodeCommandsFrame(readFrame(t, conn))
	if err != nil {
		t.Fatalf("DecodeCommandsFrame() error = %v", err)
	}
	return cf.Commands
}

func TestServeRendersAndDispatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	_, url := startServer(t, nil, counterApp, WithMetrics(m, reg))
	conn := dial(t, url)

	button := native.FirstSurface
	text := button + 1
	want := []protocol.Command{
		{Op: protocol.OpCreateSurface, Surface: button},
		{Op: protocol.OpSetEventListener, Surface: button, Name: "onClick", Value: true},
		{Op: protocol.OpCreateText, Surface: text},
		{Op: protocol.OpSetText, Surface: text, Value: "0"},
		{Op: protocol.OpAppendChild, Surface: button, Child: text},
		{Op: protocol.OpAppendChild, Surface: native.RootSurface, Child: button},
	}
	if diff := cmp.Diff(want, readCommands(t, conn)); diff != "" {
		t.Fatalf("mount commands mismatch (-want +got):\n%s", diff)
	}

	ev := protocol.EncodeEvent(&protocol.EventFrame{
		Seq:   1,
		Event: native.Event{Surface: button, Name: "onClick"},
	})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameEvent, ev).Encode()); err != nil {
		t.Fatal(err)
	}

	want = []protocol.Command{{Op: protocol.OpSetText, Surface: text, Value: "1"}}
	if diff := cmp.Diff(want, readCommands(t, conn)); diff != "" {
		t.Errorf("click commands mismatch (-want +got):\n%s", diff)
	}

	resp, err := http.Get(url + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"scenesync_native_calls_total", "scenesync_frames_total", "scenesync_sessions_active"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output lacks %s", name)
		}
	}
}

func TestMountErrorSendsFatalError(t *testing.T) {
	_, url := startServer(t, nil, func(context.Context, *Client) error {
		return io.ErrUnexpectedEOF
	})
	conn := dial(t, url)

	f := readFrame(t, conn)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %v, want FrameError", f.Type)
	}
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if !em.Fatal || em.Code != protocol.ErrServerError {
		t.Errorf("error message = %+v, want fatal server error", em)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open after a mount error")
	}
}

func TestMaxSessions(t *testing.T) {
	config := DefaultConfig()
	config.MaxSessions = 1
	srv, url := startServer(t, config, counterApp)

	first := dial(t, url)
	readCommands(t, first)
	if srv.Clients() != 1 {
		t.Fatalf("Clients() = %d, want 1", srv.Clients())
	}

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/scene", nil)
	if err == nil {
		t.Fatal("second Dial() succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("response = %v, want 503", resp)
	}
}

func TestShutdownClosesClients(t *testing.T) {
	srv, url := startServer(t, nil, counterApp)
	conn := dial(t, url)
	readCommands(t, conn)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.Clients() != 0 {
		t.Errorf("Clients() = %d after shutdown, want 0", srv.Clients())
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open after shutdown")
	}
}

func TestHealthz(t *testing.T) {
	_, url := startServer(t, nil, counterApp)
	resp, err := http.Get(url + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"same host", "http://example.com", true},
		{"other host", "http://evil.com", false},
		{"bad url", "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://example.com/scene", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}
