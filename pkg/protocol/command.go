package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/scenesync/pkg/native"
)

// Op is a scene command opcode. There is one per native.Scene method.
type Op uint8

const (
	// Structure
	OpCreateSurface  Op = 0x01 // Allocate a surface with the given id
	OpCreateText     Op = 0x02 // Allocate a text surface with the given id
	OpDestroySurface Op = 0x03 // Free a surface and its subtree
	OpAppendChild    Op = 0x04 // Move Child to the end of Surface's children
	OpInsertBefore   Op = 0x05 // Move Child before Before in Surface's children
	OpRemoveChild    Op = 0x06 // Detach Child from Surface

	// Content and behavior
	OpSetText             Op = 0x07 // Value: string or nil
	OpSetEventListener    Op = 0x08 // Name; Value: bool (false binds the no-op listener)
	OpRemoveEventListener Op = 0x09 // Name
	OpSetProperty         Op = 0x0A // Name; Value: property value

	// Style fields; Value: the native value type or nil to clear
	OpSetSize            Op = 0x10
	OpSetOverflow        Op = 0x11
	OpSetFlex            Op = 0x12
	OpSetFlow            Op = 0x13
	OpSetPadding         Op = 0x14
	OpSetMargin          Op = 0x15
	OpSetBorderRadius    Op = 0x16
	OpSetBoxShadow       Op = 0x17
	OpSetBackgroundColor Op = 0x18
	OpSetImage           Op = 0x19
	OpSetBorder          Op = 0x1A
)

var opNames = map[Op]string{
	OpCreateSurface:       "CreateSurface",
	OpCreateText:          "CreateText",
	OpDestroySurface:      "DestroySurface",
	OpAppendChild:         "AppendChild",
	OpInsertBefore:        "InsertBefore",
	OpRemoveChild:         "RemoveChild",
	OpSetText:             "SetText",
	OpSetEventListener:    "SetEventListener",
	OpRemoveEventListener: "RemoveEventListener",
	OpSetProperty:         "SetProperty",
	OpSetSize:             "SetSize",
	OpSetOverflow:         "SetOverflow",
	OpSetFlex:             "SetFlex",
	OpSetFlow:             "SetFlow",
	OpSetPadding:          "SetPadding",
	OpSetMargin:           "SetMargin",
	OpSetBorderRadius:     "SetBorderRadius",
	OpSetBoxShadow:        "SetBoxShadow",
	OpSetBackgroundColor:  "SetBackgroundColor",
	OpSetImage:            "SetImage",
	OpSetBorder:           "SetBorder",
}

// String returns the Scene method name of the op.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(0x%02x)", uint8(op))
}

// IsStyle reports whether op sets a style field.
func (op Op) IsStyle() bool {
	return op >= OpSetSize && op <= OpSetBorder
}

// ErrInvalidOp is returned for an unknown opcode.
var ErrInvalidOp = errors.New("protocol: invalid command op")

// Command is one native scene call.
type Command struct {
	Op      Op
	Surface native.SurfaceID // Target, or parent for structural ops
	Child   native.SurfaceID // AppendChild, InsertBefore, RemoveChild
	Before  native.SurfaceID // InsertBefore
	Name    string           // Event name or property key
	Value   any              // See the Op constants
}

// String returns a readable one-line rendering of the command.
func (c Command) String() string {
	switch c.Op {
	case OpCreateSurface, OpCreateText, OpDestroySurface:
		return fmt.Sprintf("%s(%d)", c.Op, c.Surface)
	case OpAppendChild, OpRemoveChild:
		return fmt.Sprintf("%s(%d, %d)", c.Op, c.Surface, c.Child)
	case OpInsertBefore:
		return fmt.Sprintf("%s(%d, %d, %d)", c.Op, c.Surface, c.Child, c.Before)
	case OpRemoveEventListener:
		return fmt.Sprintf("%s(%d, %q)", c.Op, c.Surface, c.Name)
	case OpSetEventListener, OpSetProperty:
		return fmt.Sprintf("%s(%d, %q, %v)", c.Op, c.Surface, c.Name, c.Value)
	default:
		return fmt.Sprintf("%s(%d, %v)", c.Op, c.Surface, c.Value)
	}
}

// EncodeCommandTo appends cmd to e. Property values must already be
// normalized (see Normalize).
func EncodeCommandTo(e *Encoder, cmd *Command) {
	e.WriteByte(byte(cmd.Op))
	e.WriteSurface(cmd.Surface)

	switch cmd.Op {
	case OpCreateSurface, OpCreateText, OpDestroySurface:
		// No payload
	case OpAppendChild, OpRemoveChild:
		e.WriteSurface(cmd.Child)
	case OpInsertBefore:
		e.WriteSurface(cmd.Child)
		e.WriteSurface(cmd.Before)
	case OpSetText:
		s, ok := cmd.Value.(string)
		e.WriteBool(ok)
		if ok {
			e.WriteString(s)
		}
	case OpSetEventListener:
		e.WriteString(cmd.Name)
		enabled, _ := cmd.Value.(bool)
		e.WriteBool(enabled)
	case OpRemoveEventListener:
		e.WriteString(cmd.Name)
	case OpSetProperty:
		e.WriteString(cmd.Name)
		e.WriteValue(cmd.Value)
	default:
		if cmd.Op.IsStyle() {
			e.writeStyleValue(cmd.Op, cmd.Value)
		}
	}
}

// DecodeCommandFrom reads one command from d.
func DecodeCommandFrom(d *Decoder) (Command, error) {
	b, err := d.ReadByte()
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Op: Op(b)}
	if _, ok := opNames[cmd.Op]; !ok {
		return Command{}, fmt.Errorf("%w: 0x%02x", ErrInvalidOp, b)
	}
	if cmd.Surface, err = d.ReadSurface(); err != nil {
		return Command{}, err
	}

	switch cmd.Op {
	case OpCreateSurface, OpCreateText, OpDestroySurface:
	case OpAppendChild, OpRemoveChild:
		cmd.Child, err = d.ReadSurface()
	case OpInsertBefore:
		if cmd.Child, err = d.ReadSurface(); err == nil {
			cmd.Before, err = d.ReadSurface()
		}
	case OpSetText:
		var present bool
		if present, err = d.ReadBool(); err == nil && present {
			cmd.Value, err = d.ReadString()
		}
	case OpSetEventListener:
		if cmd.Name, err = d.ReadString(); err == nil {
			cmd.Value, err = d.ReadBool()
		}
	case OpRemoveEventListener:
		cmd.Name, err = d.ReadString()
	case OpSetProperty:
		if cmd.Name, err = d.ReadString(); err == nil {
			cmd.Value, err = d.ReadValue()
		}
	default:
		cmd.Value, err = d.readStyleValue(cmd.Op)
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}
