// Package metrics exports Prometheus metrics for scene sessions.
//
// Instrument wraps a native.Scene so that every native call is counted by
// op and every flush is timed:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	scene := m.Instrument(transport.NewSession(conn, nil))
//	eng.BeginFrame(scene)
//
// The wrapper forwards every call unchanged, so the engine issues the same
// calls with or without it.
//
// # Metrics
//
//   - scenesync_native_calls_total{op}: native calls issued
//   - scenesync_frames_total: flushes that reached the scene
//   - scenesync_frame_errors_total: flushes that failed
//   - scenesync_flush_duration_seconds: flush latency
//   - scenesync_events_total{event,handled}: native events dispatched
//   - scenesync_sessions_active: open sessions
package metrics
