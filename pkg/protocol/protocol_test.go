package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/scenesync/pkg/native"
)

func TestFrameEncodeDecode(t *testing.T) {
	f := &Frame{Type: FrameCommands, Flags: FlagFinal, Payload: []byte{1, 2, 3}}
	data := f.Encode()
	if len(data) != FrameHeaderSize+3 {
		t.Fatalf("Encode() length = %d, want %d", len(data), FrameHeaderSize+3)
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("DecodeFrame() mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeFrame(data[:5]); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("DecodeFrame(truncated) error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameEvent, []byte("a")),
		NewFrame(FrameAck, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatal(err)
		}
	}
	for i := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		if got.Type != frames[i].Type || len(got.Payload) != len(frames[i].Payload) {
			t.Errorf("frame %d = %v, want %v", i, got, frames[i])
		}
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame() at end error = %v, want io.EOF", err)
	}

	big := NewFrame(FrameCommands, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(&buf, big); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteFrame(too large) error = %v, want ErrFrameTooLarge", err)
	}
}

func TestVarintRoundtrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 1 << 20, -(1 << 40), 1<<62 - 1}
	e := NewEncoder()
	for _, v := range values {
		e.WriteSvarint(v)
		e.WriteUvarint(uint64(v) & 0x7fffffff)
	}
	d := NewDecoder(e.Bytes())
	for _, v := range values {
		got, err := d.ReadSvarint()
		if err != nil || got != v {
			t.Errorf("ReadSvarint() = %d, %v; want %d", got, err, v)
		}
		u, err := d.ReadUvarint()
		if err != nil || u != uint64(v)&0x7fffffff {
			t.Errorf("ReadUvarint() = %d, %v", u, err)
		}
	}
	if !d.EOF() {
		t.Errorf("%d bytes left", d.Remaining())
	}
}

func TestDecoderLimits(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(*Decoder) error
		want error
	}{
		{
			name: "varint overflow",
			data: bytes.Repeat([]byte{0xff}, 11),
			read: func(d *Decoder) error { _, err := d.ReadUvarint(); return err },
			want: ErrVarintOverflow,
		},
		{
			name: "string past end",
			data: []byte{0x05, 'a'},
			read: func(d *Decoder) error { _, err := d.ReadString(); return err },
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "bad bool",
			data: []byte{0x02},
			read: func(d *Decoder) error { _, err := d.ReadBool(); return err },
			want: ErrInvalidBool,
		},
		{
			name: "collection too large",
			data: []byte{0xff, 0xff, 0xff, 0x7f},
			read: func(d *Decoder) error { _, err := d.ReadCollectionCount(); return err },
			want: ErrCollectionTooLarge,
		},
		{
			name: "surface overflow",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0x7f},
			read: func(d *Decoder) error { _, err := d.ReadSurface(); return err },
			want: ErrSurfaceOverflow,
		},
		{
			name: "value too deep",
			data: bytes.Repeat([]byte{byte(ValueList), 0x01}, MaxValueDepth+2),
			read: func(d *Decoder) error { _, err := d.ReadValue(); return err },
			want: ErrMaxDepthExceeded,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.read(NewDecoder(tc.data)); !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(map[string]any{
		"n":    3,
		"f":    float32(0.5),
		"list": []any{uint8(1), "x", nil},
		"tags": []string{"a", "b"},
		"c":    native.Color{R: 255, A: 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"n":    int64(3),
		"f":    0.5,
		"list": []any{int64(1), "x", nil},
		"tags": []any{"a", "b"},
		"c":    "#ff0000ff",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Normalize(struct{}{}); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("Normalize(struct) error = %v, want ErrUnsupportedValue", err)
	}
}

func sampleCommands() []Command {
	five := native.Point(5)
	return []Command{
		{Op: OpCreateSurface, Surface: 2},
		{Op: OpCreateText, Surface: 3},
		{Op: OpAppendChild, Surface: 1, Child: 2},
		{Op: OpInsertBefore, Surface: 2, Child: 3, Before: 4},
		{Op: OpRemoveChild, Surface: 2, Child: 4},
		{Op: OpDestroySurface, Surface: 4},
		{Op: OpSetText, Surface: 3, Value: "hello"},
		{Op: OpSetText, Surface: 3},
		{Op: OpSetEventListener, Surface: 2, Name: "onClick", Value: true},
		{Op: OpSetEventListener, Surface: 2, Name: "onHover", Value: false},
		{Op: OpRemoveEventListener, Surface: 2, Name: "onClick"},
		{Op: OpSetProperty, Surface: 2, Name: "title", Value: "t"},
		{Op: OpSetProperty, Surface: 2, Name: "meta", Value: map[string]any{"a": []any{int64(1), 2.5, true}}},
		{Op: OpSetSize, Surface: 2, Value: native.Size{Width: native.Percent(50), Height: native.Auto}},
		{Op: OpSetOverflow, Surface: 2, Value: native.OverflowHidden},
		{Op: OpSetFlex, Surface: 2, Value: native.Flex{Grow: 1, Shrink: 1, Basis: native.Point(0)}},
		{Op: OpSetFlow, Surface: 2, Value: native.Flow{Direction: native.DirectionRow, Wrap: true, Justify: native.AlignCenter}},
		{Op: OpSetPadding, Surface: 2, Value: native.Insets{Top: five, Right: five, Bottom: five, Left: five}},
		{Op: OpSetMargin, Surface: 2},
		{Op: OpSetBorderRadius, Surface: 2, Value: native.Corners{TopLeft: 4, BottomRight: 2}},
		{Op: OpSetBoxShadow, Surface: 2, Value: native.Shadow{OffsetY: 2, Blur: 4, Color: native.Color{A: 128}}},
		{Op: OpSetBackgroundColor, Surface: 2, Value: native.Color{R: 255, G: 255, B: 255, A: 255}},
		{Op: OpSetImage, Surface: 2, Value: "logo.png"},
		{Op: OpSetBorder, Surface: 2, Value: native.Border{Width: 1, Style: native.BorderDashed, Color: native.Color{A: 255}}},
	}
}

func TestCommandRoundtrip(t *testing.T) {
	cmds := sampleCommands()
	frames, err := EncodeBatch(7, cmds, BatchLimits{})
	if err != nil {
		t.Fatalf("EncodeBatch() error = %v", err)
	}
	if len(frames) != 1 || !frames[0].Flags.Has(FlagFinal) {
		t.Fatalf("EncodeBatch() = %d frames, want one final frame", len(frames))
	}

	cf, err := DecodeCommandsFrame(frames[0])
	if err != nil {
		t.Fatalf("DecodeCommandsFrame() error = %v", err)
	}
	if cf.Seq != 7 || !cf.Final {
		t.Errorf("Seq = %d, Final = %v; want 7, true", cf.Seq, cf.Final)
	}
	if diff := cmp.Diff(cmds, cf.Commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestOpNamesMatchScene(t *testing.T) {
	// Op names are the Scene method names, so decoded streams compare
	// directly against native.Recorder output.
	for op, name := range opNames {
		if op.String() != name {
			t.Errorf("Op(0x%02x).String() = %q", uint8(op), op.String())
		}
	}
	if got := Op(0xEE).String(); got != "Op(0xee)" {
		t.Errorf("unknown op String() = %q", got)
	}
}

func TestEncodeBatchSplits(t *testing.T) {
	var cmds []Command
	for i := 0; i < 50; i++ {
		cmds = append(cmds, Command{Op: OpSetText, Surface: native.SurfaceID(i + 2), Value: strings.Repeat("x", 40)})
	}

	tests := []struct {
		name   string
		limits BatchLimits
		frames int
	}{
		{"fits", BatchLimits{}, 1},
		{"by count", BatchLimits{MaxCommands: 20}, 3},
		{"by size", BatchLimits{MaxPayload: 512}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frames, err := EncodeBatch(3, cmds, tc.limits)
			if err != nil {
				t.Fatal(err)
			}
			if len(frames) != tc.frames {
				t.Fatalf("got %d frames, want %d", len(frames), tc.frames)
			}
			var all []Command
			for i, f := range frames {
				if len(f.Payload) > tc.limits.payload() {
					t.Errorf("frame %d payload %d bytes over limit", i, len(f.Payload))
				}
				if f.Flags.Has(FlagFinal) != (i == len(frames)-1) {
					t.Errorf("frame %d final = %v", i, f.Flags.Has(FlagFinal))
				}
				cf, err := DecodeCommandsFrame(f)
				if err != nil {
					t.Fatal(err)
				}
				if cf.Seq != 3 {
					t.Errorf("frame %d seq = %d", i, cf.Seq)
				}
				all = append(all, cf.Commands...)
			}
			if diff := cmp.Diff(cmds, all); diff != "" {
				t.Errorf("reassembled commands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeBatchOversizedCommand(t *testing.T) {
	cmd := Command{Op: OpSetText, Surface: 2, Value: strings.Repeat("x", 600)}
	if _, err := EncodeBatch(1, []Command{cmd}, BatchLimits{MaxPayload: 512}); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("EncodeBatch() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestEncodeBatchEmpty(t *testing.T) {
	frames, err := EncodeBatch(9, nil, BatchLimits{})
	if err != nil || len(frames) != 1 {
		t.Fatalf("EncodeBatch(nil) = %d frames, %v", len(frames), err)
	}
	cf, err := DecodeCommandsFrame(frames[0])
	if err != nil || len(cf.Commands) != 0 || cf.Seq != 9 {
		t.Errorf("decoded %+v, %v", cf, err)
	}
}

func TestDecodeCommandErrors(t *testing.T) {
	if _, err := DecodeCommandFrom(NewDecoder([]byte{0xEE, 0x02})); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("unknown op error = %v, want ErrInvalidOp", err)
	}
	bad := []byte{byte(OpSetSize), 0x02, 0x01, 0x09}
	if _, err := DecodeCommandFrom(NewDecoder(bad)); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("bad unit error = %v, want ErrInvalidUnit", err)
	}
	if _, err := DecodeCommandsFrame(NewFrame(FrameEvent, nil)); !errors.Is(err, ErrInvalidFrameType) {
		t.Errorf("wrong frame type error = %v, want ErrInvalidFrameType", err)
	}
}

func TestEventRoundtrip(t *testing.T) {
	tests := []EventFrame{
		{Seq: 1, Event: native.Event{Surface: 2, Name: "onClick"}},
		{Seq: 2, Event: native.Event{Surface: 3, Name: "onPress", X: 10.5, Y: -2}},
		{Seq: 3, Event: native.Event{Surface: 4, Name: "onKeyDown", Key: "Enter"}},
		{Seq: 4, Event: native.Event{Surface: 5, Name: "onChangeText", Text: "héllo"}},
	}
	for _, want := range tests {
		got, err := DecodeEvent(EncodeEvent(&want))
		if err != nil {
			t.Fatalf("DecodeEvent() error = %v", err)
		}
		if diff := cmp.Diff(want, *got); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	}

	empty := EncodeEvent(&EventFrame{Seq: 1, Event: native.Event{Surface: 2}})
	if _, err := DecodeEvent(empty); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("nameless event error = %v, want ErrInvalidEvent", err)
	}
}

func TestAckAndErrorRoundtrip(t *testing.T) {
	ack, err := DecodeAck(EncodeAck(&Ack{LastSeq: 300}))
	if err != nil || ack.LastSeq != 300 {
		t.Errorf("DecodeAck() = %+v, %v", ack, err)
	}

	em := &ErrorMessage{Code: ErrUnknownSurface, Seq: 4, Message: "surface 9", Fatal: true}
	got, err := DecodeErrorMessage(EncodeErrorMessage(em))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(em, got); diff != "" {
		t.Errorf("ErrorMessage mismatch (-want +got):\n%s", diff)
	}
	if got.Error() != "fatal: UnknownSurface: surface 9" {
		t.Errorf("Error() = %q", got.Error())
	}
}
