package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/vango-dev/scenesync/pkg/capture"
	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/transport"
)

// Config holds configuration for the Server.
type Config struct {
	// Address is the TCP address to listen on.
	// Default: "localhost:7420".
	Address string

	// Path is the WebSocket endpoint native hosts connect to.
	// Default: "/scene".
	Path string

	// MetricsPath serves Prometheus metrics when metrics are configured.
	// Empty disables the endpoint.
	// Default: "/metrics".
	MetricsPath string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the upgrade request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// MaxSessions caps concurrent clients. 0 means no limit.
	MaxSessions int

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Session is the template for each client's transport session.
	// Default: transport.DefaultConfig().
	Session *transport.Config

	// Engine holds the options for each client's engine.
	Engine []engine.Option

	// NewCapture, if set, opens a capture sink for a new session.
	NewCapture func(sessionID string) (capture.Sink, error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         "localhost:7420",
		Path:            "/scene",
		MetricsPath:     "/metrics",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
		ShutdownTimeout: 10 * time.Second,
		Session:         transport.DefaultConfig(),
	}
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Native hosts usually send none.
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && originURL.Host == r.Host
}

// withDefaults returns a copy of c with empty fields defaulted.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Path == "" {
		out.Path = d.Path
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.Session == nil {
		out.Session = d.Session
	}
	return &out
}
