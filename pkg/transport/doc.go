// Package transport ships scene commands to a native host over a websocket.
//
// A Session implements native.Scene. Every call becomes a protocol.Command
// appended to a buffer; Flush (called by the engine when a frame commits)
// encodes the buffer into one or more Commands frames and writes them to the
// connection. Surface ids are allocated by the session, monotonically, and
// never reused.
//
//	sess := transport.NewSession(conn, transport.DefaultConfig())
//	eng := engine.New()
//
//	eng.BeginFrame(sess)
//	// ... create and update surfaces ...
//	eng.CommitFrame() // flushes sess
//
//	go sess.ReadLoop(ctx, eng)
//
// The native side answers with Event frames (dispatched to the engine's
// listener table), Ack frames (the last sequence it applied) and Error
// frames. A fatal Error frame closes the session.
package transport
