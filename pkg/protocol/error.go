package protocol

// ErrorCode identifies the kind of a reported error.
type ErrorCode uint16

const (
	ErrUnknown        ErrorCode = 0x0000 // Unknown error
	ErrInvalidFrame   ErrorCode = 0x0001 // Malformed frame
	ErrInvalidCommand ErrorCode = 0x0002 // Command could not be applied
	ErrUnknownSurface ErrorCode = 0x0003 // Command referenced a freed surface
	ErrEventRejected  ErrorCode = 0x0004 // Event could not be dispatched
	ErrServerError    ErrorCode = 0x0100 // Internal engine error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrInvalidCommand:
		return "InvalidCommand"
	case ErrUnknownSurface:
		return "UnknownSurface"
	case ErrEventRejected:
		return "EventRejected"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is an error report from either side.
type ErrorMessage struct {
	Code    ErrorCode
	Seq     uint64 // Frame the error refers to, 0 if none
	Message string
	Fatal   bool // The sender closes the connection after reporting
}

// EncodeErrorMessage encodes an ErrorMessage payload.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteUvarint(em.Seq)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	em := &ErrorMessage{Code: ErrorCode(code)}
	if em.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}
