// Package server accepts native hosts over WebSocket and gives each one
// its own engine.
//
// Every connection becomes a Client: a transport.Session (optionally
// instrumented with package metrics and captured to a capture.Sink), an
// engine.Engine rendering into it, and the Handler that mounts the app.
// After the handler returns, the connection's read loop dispatches native
// events to the engine until the host disconnects.
//
// # Usage
//
//	srv := server.New(server.DefaultConfig(), func(ctx context.Context, c *server.Client) error {
//	    root := vdom.NewRoot(c.Host())
//	    return root.Render(ctx, vdom.Text("hello"))
//	})
//	err := srv.Run(ctx)
//
// Handlers and every listener they bind run on the connection's goroutine,
// so they may render without further locking.
package server
