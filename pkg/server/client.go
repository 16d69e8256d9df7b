package server

import (
	"context"
	"log/slog"

	"github.com/vango-dev/scenesync/pkg/dom"
	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/reconciler"
	"github.com/vango-dev/scenesync/pkg/transport"
)

// Handler mounts an app on a newly connected client. An error closes the
// connection.
type Handler func(ctx context.Context, c *Client) error

// Client is one connected native host.
type Client struct {
	// Session is the transport session of the connection.
	Session *transport.Session

	// Engine renders into Scene.
	Engine *engine.Engine

	// Scene is Session, wrapped by metrics when enabled.
	Scene native.Scene

	// Logger carries the session id.
	Logger *slog.Logger
}

// ID returns the session id.
func (c *Client) ID() string {
	return c.Session.ID()
}

// Host returns a reconciler host rendering into the client's scene.
func (c *Client) Host(opts ...reconciler.Option) *reconciler.Host {
	opts = append([]reconciler.Option{reconciler.WithLogger(c.Logger)}, opts...)
	return reconciler.NewHost(c.Engine, c.Scene, opts...)
}

// Document creates a document on the client's root surface.
func (c *Client) Document(ctx context.Context, opts ...dom.Option) (*dom.Document, error) {
	opts = append([]dom.Option{dom.WithLogger(c.Logger)}, opts...)
	return dom.NewDocument(ctx, c.Engine, c.Scene, opts...)
}
