package protocol

// Ack is sent by the native side once every frame up to LastSeq has been
// applied. The transport uses it to track how far the native scene lags
// behind the engine.
type Ack struct {
	LastSeq uint64
}

// EncodeAck encodes an Ack payload.
func EncodeAck(ack *Ack) []byte {
	e := NewEncoder()
	e.WriteUvarint(ack.LastSeq)
	return e.Bytes()
}

// DecodeAck decodes an Ack payload.
func DecodeAck(data []byte) (*Ack, error) {
	seq, err := NewDecoder(data).ReadUvarint()
	if err != nil {
		return nil, err
	}
	return &Ack{LastSeq: seq}, nil
}
