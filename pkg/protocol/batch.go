package protocol

import "fmt"

// batchHeaderReserve covers the sequence number and count varints that
// precede the commands of a Commands payload.
const batchHeaderReserve = 2 * 10

// BatchLimits bounds the frames produced by EncodeBatch.
type BatchLimits struct {
	// MaxPayload is the largest payload of one frame. Zero or anything
	// above MaxPayloadSize means MaxPayloadSize.
	MaxPayload int

	// MaxCommands caps the commands per frame. Zero means no cap.
	MaxCommands int
}

func (l BatchLimits) payload() int {
	if l.MaxPayload <= 0 || l.MaxPayload > MaxPayloadSize {
		return MaxPayloadSize
	}
	return l.MaxPayload
}

// CommandsFrame is the decoded payload of a Commands frame.
//
// Payload format:
//
//	[seq:varint][count:varint][command]...
type CommandsFrame struct {
	Seq      uint64
	Final    bool // Set from FlagFinal when decoded via DecodeCommandsFrame
	Commands []Command
}

// EncodeBatch encodes the commands of one engine frame into one or more
// Commands frames sharing seq. Commands are never split across frames; the
// last frame carries FlagFinal. An empty batch yields a single empty final
// frame.
func EncodeBatch(seq uint64, cmds []Command, limits BatchLimits) ([]*Frame, error) {
	limit := limits.payload()
	var frames []*Frame

	body := NewEncoder()
	scratch := NewEncoder()
	count := 0

	emit := func(final bool) {
		e := NewEncoder()
		e.WriteUvarint(seq)
		e.WriteUvarint(uint64(count))
		e.WriteBytes(body.Bytes())
		f := NewFrame(FrameCommands, e.Bytes())
		if final {
			f.Flags |= FlagFinal
		}
		frames = append(frames, f)
		body = NewEncoder()
		count = 0
	}

	for i := range cmds {
		scratch.Reset()
		EncodeCommandTo(scratch, &cmds[i])
		if scratch.Len()+batchHeaderReserve > limit {
			return nil, fmt.Errorf("%w: command %d (%s) needs %d bytes",
				ErrFrameTooLarge, i, cmds[i].Op, scratch.Len())
		}
		full := body.Len()+scratch.Len()+batchHeaderReserve > limit ||
			(limits.MaxCommands > 0 && count == limits.MaxCommands)
		if full && count > 0 {
			emit(false)
		}
		body.WriteBytes(scratch.Bytes())
		count++
	}
	emit(true)
	return frames, nil
}

// DecodeCommands decodes a Commands payload.
func DecodeCommands(payload []byte) (*CommandsFrame, error) {
	d := NewDecoder(payload)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	cf := &CommandsFrame{Seq: seq, Commands: make([]Command, 0, count)}
	for i := 0; i < count; i++ {
		cmd, err := DecodeCommandFrom(d)
		if err != nil {
			return nil, fmt.Errorf("protocol: command %d of frame %d: %w", i, seq, err)
		}
		cf.Commands = append(cf.Commands, cmd)
	}
	return cf, nil
}

// DecodeCommandsFrame decodes a Commands frame, including its flags.
func DecodeCommandsFrame(f *Frame) (*CommandsFrame, error) {
	if f.Type != FrameCommands {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFrameType, f.Type)
	}
	cf, err := DecodeCommands(f.Payload)
	if err != nil {
		return nil, err
	}
	cf.Final = f.Flags.Has(FlagFinal)
	return cf, nil
}
