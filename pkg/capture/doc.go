// Package capture records the frames a session sends so a scene can be
// replayed or inspected later with "scenesync decode".
//
// A capture is a plain concatenation of protocol frames, each with its
// 4-byte header, so it can be read back with protocol.ReadFrame.
//
//	sink, err := capture.CreateFile(dir, sessionID)
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//
// FileSink writes straight to disk. S3Sink buffers the stream in memory and
// uploads it as a single object on Close.
package capture
