package avdtp

// TxID is a 4-bit transaction label. A response carries the label of the
// command it answers.
type TxID uint8

// NewTxID returns v as a TxID, or ErrOutOfRange if it doesn't fit in 4 bits.
func NewTxID(v uint8) (TxID, error) {
	if v > MaxTxID {
		return 0, ErrOutOfRange
	}
	return TxID(v), nil
}

// SignalingHeader is the header of an AVDTP signaling packet [AVDTP 8.4].
//
// Single packet:
//
//	| txid(4) | packet type(2) | message type(2) | rfa(2) | signal id(6) |
//
// Start packet:
//
//	| txid(4) | packet type(2) | message type(2) | NOSP(8) | rfa(2) | signal id(6) |
type SignalingHeader struct {
	TxID        TxID
	PacketType  PacketType
	MessageType MessageType
	NumPackets  uint8
	Signal      SignalIdentifier
}

// IsCommand reports whether the header is for a command.
func (h SignalingHeader) IsCommand() bool { return h.MessageType == MessageCommand }

// Len returns the encoded size of the header. Only a Start packet carries
// the NOSP byte.
func (h SignalingHeader) Len() int {
	if h.PacketType == PacketStart {
		return 3
	}
	return 2
}

// Marshal encodes the header into b.
func (h SignalingHeader) Marshal(b []byte) error {
	if len(b) < h.Len() {
		return ErrEncoding
	}
	b[0] = uint8(h.TxID)<<4 | uint8(h.PacketType)<<2 | uint8(h.MessageType)
	if h.PacketType == PacketStart {
		b[1] = h.NumPackets
		b[2] = uint8(h.Signal) & 0x3F
		return nil
	}
	b[1] = uint8(h.Signal) & 0x3F
	return nil
}

// UnmarshalHeader decodes a signaling header from the front of b.
// An undefined signal identifier yields an *InvalidSignalIDError carrying the
// transaction label, so that the caller can answer with a General Reject.
func UnmarshalHeader(b []byte) (SignalingHeader, error) {
	if len(b) < 2 {
		return SignalingHeader{}, ErrOutOfRange
	}
	s := signal(b)
	h := SignalingHeader{
		TxID:        s.TxID(),
		PacketType:  s.PacketType(),
		MessageType: s.MessageType(),
		NumPackets:  1,
	}
	id := b[1] & 0x3F
	if h.PacketType == PacketStart {
		if len(b) < 3 {
			return SignalingHeader{}, ErrOutOfRange
		}
		h.NumPackets = b[1]
		id = b[2] & 0x3F
	}
	sig := SignalIdentifier(id)
	if !sig.Valid() {
		return SignalingHeader{}, &InvalidSignalIDError{TxID: h.TxID, ID: id}
	}
	h.Signal = sig
	return h, nil
}

// signal is a raw signaling packet.
type signal []byte

func (s signal) TxID() TxID               { return TxID(s[0] >> 4) }
func (s signal) PacketType() PacketType   { return PacketType(s[0]>>2) & 0x03 }
func (s signal) MessageType() MessageType { return MessageType(s[0]) & 0x03 }

// Payload returns the bytes following the header of a single packet.
func (s signal) Payload() []byte { return s[2:] }
