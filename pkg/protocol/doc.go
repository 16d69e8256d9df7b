// Package protocol implements the binary wire format between the engine and
// a native scene host.
//
// The engine side sends scene commands; the native side reports input
// events, acknowledges applied frames and reports errors. The format has no
// reflection and allocates only for decoded strings and collections.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameCommands (0x01): engine → native scene commands
//   - FrameEvent (0x02): native → engine input events
//   - FrameAck (0x03): native → engine, frames applied up to a sequence
//   - FrameError (0x04): error report
//
// # Encoding
//
//   - Varint: compact encoding for small integers (protobuf-style)
//   - ZigZag: signed integers encoded as unsigned varints
//   - Length-prefixed: strings prefixed with their varint length
//   - Big-endian: fixed-width integers and IEEE 754 floats
//
// # Commands
//
// One engine frame becomes one or more Commands frames with the same
// sequence number (see EncodeBatch). Each command is an opcode, the target
// surface id and an op-specific payload:
//
//	[Op: 0x14][Surface: varint][present: 0x01][top][right][bottom][left]
//
// which is SetPadding with four dimensions. Style values carry a presence
// byte; an absent value clears the field.
package protocol
