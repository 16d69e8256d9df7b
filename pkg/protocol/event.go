package protocol

import (
	"errors"

	"github.com/vango-dev/scenesync/pkg/native"
)

// ErrInvalidEvent is returned for an event payload without a name.
var ErrInvalidEvent = errors.New("protocol: invalid event")

// Event field presence bits.
const (
	eventHasPoint = 1 << iota
	eventHasKey
	eventHasText
)

// EventFrame is an input event reported by the native side.
//
// Payload format:
//
//	[seq:varint][surface:varint][name:string][fields:1]
//	[x:f64][y:f64]  if fields&point
//	[key:string]    if fields&key
//	[text:string]   if fields&text
type EventFrame struct {
	Seq   uint64
	Event native.Event
}

// EncodeEvent encodes an event payload.
func EncodeEvent(ef *EventFrame) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ef)
	return e.Bytes()
}

// EncodeEventTo encodes an event payload using the provided encoder.
func EncodeEventTo(e *Encoder, ef *EventFrame) {
	ev := &ef.Event
	e.WriteUvarint(ef.Seq)
	e.WriteSurface(ev.Surface)
	e.WriteString(ev.Name)

	var fields byte
	if ev.X != 0 || ev.Y != 0 {
		fields |= eventHasPoint
	}
	if ev.Key != "" {
		fields |= eventHasKey
	}
	if ev.Text != "" {
		fields |= eventHasText
	}
	e.WriteByte(fields)
	if fields&eventHasPoint != 0 {
		e.WriteFloat64(ev.X)
		e.WriteFloat64(ev.Y)
	}
	if fields&eventHasKey != 0 {
		e.WriteString(ev.Key)
	}
	if fields&eventHasText != 0 {
		e.WriteString(ev.Text)
	}
}

// DecodeEvent decodes an event payload.
func DecodeEvent(data []byte) (*EventFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	ef := &EventFrame{Seq: seq}
	ev := &ef.Event
	if ev.Surface, err = d.ReadSurface(); err != nil {
		return nil, err
	}
	if ev.Name, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Name == "" {
		return nil, ErrInvalidEvent
	}
	fields, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if fields&eventHasPoint != 0 {
		if ev.X, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		if ev.Y, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
	}
	if fields&eventHasKey != 0 {
		if ev.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	if fields&eventHasText != 0 {
		if ev.Text, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	return ef, nil
}
