package avdtp

import "github.com/pkg/errors"

// maxMessageLen bounds a reassembled message.
const maxMessageLen = 64 * 1024

var (
	errOrphanFragment = errors.New("avdtp: continue or end packet without start")
	errFragmentCount  = errors.New("avdtp: fragment count mismatch")
	errMessageTooLong = errors.New("avdtp: reassembled message too long")
)

// assembler joins Start, Continue and End packets into one message in
// single packet form [AVDTP 8.4.2]. Packets of one message are never
// interleaved with another fragmented message, so one buffer suffices.
type assembler struct {
	active    bool
	txid      TxID
	msgType   MessageType
	remaining uint8
	buf       []byte
}

// add consumes one packet. It returns the complete message once available,
// or nil while a fragmented message is still incomplete.
func (a *assembler) add(pkt []byte) ([]byte, error) {
	if len(pkt) == 0 {
		return nil, nil
	}
	s := signal(pkt)
	switch s.PacketType() {
	case PacketSingle:
		return pkt, nil
	case PacketStart:
		if len(pkt) < 3 {
			a.reset()
			return nil, ErrInvalidHeader
		}
		nosp := pkt[1]
		hdr := uint8(s.TxID())<<4 | uint8(PacketSingle)<<2 | uint8(s.MessageType())
		msg := append([]byte{hdr, pkt[2]}, pkt[3:]...)
		if nosp <= 1 {
			a.reset()
			return msg, nil
		}
		a.active = true
		a.txid = s.TxID()
		a.msgType = s.MessageType()
		a.remaining = nosp - 1
		a.buf = msg
		return nil, nil
	}

	if !a.active || s.TxID() != a.txid || s.MessageType() != a.msgType {
		return nil, errOrphanFragment
	}
	end := s.PacketType() == PacketEnd
	if end != (a.remaining == 1) {
		a.reset()
		return nil, errFragmentCount
	}
	if len(a.buf)+len(pkt)-1 > maxMessageLen {
		a.reset()
		return nil, errMessageTooLong
	}
	a.buf = append(a.buf, pkt[1:]...)
	a.remaining--
	if !end {
		return nil, nil
	}
	msg := a.buf
	a.reset()
	return msg, nil
}

func (a *assembler) reset() {
	*a = assembler{}
}
