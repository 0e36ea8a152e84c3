package avdtp

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/glycerine/idem"
	"github.com/mgutz/logxi/v1"
)

var logger = log.New("avdtp")

// Peer is one end of an AVDTP signaling channel.
//
// A Peer drains the channel on its own goroutine. Responses are routed to the
// command that is waiting for them; commands from the remote are queued for
// the RequestStream. The Peer stops when the channel closes or fails, after
// which every pending command and the RequestStream return Err().
type Peer struct {
	conn   Conn
	logger log.Logger
	rxMTU  int

	wmu sync.Mutex

	txs  *txTable
	reqs *requestQueue

	closing int32
	closed  *idem.IdemCloseChan
	errmu   sync.Mutex
	err     error
}

// NewPeer starts a Peer on an established signaling channel.
func NewPeer(c Conn, opts ...Option) (*Peer, error) {
	p := &Peer{
		conn:   c,
		logger: logger,
		rxMTU:  DefaultRxMTU,
		txs:    newTxTable(),
		reqs:   newRequestQueue(),
		closed: idem.NewIdemCloseChan(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	go p.loop()
	return p, nil
}

// Close closes the signaling channel. Pending commands and the
// RequestStream observe ErrPeerDisconnected.
func (p *Peer) Close() error {
	atomic.StoreInt32(&p.closing, 1)
	err := p.conn.Close()
	<-p.closed.Chan
	return err
}

// Disconnected returns a channel that's closed when the Peer has stopped.
func (p *Peer) Disconnected() <-chan struct{} {
	return p.closed.Chan
}

// Err returns the reason the Peer stopped, or nil while it is running.
func (p *Peer) Err() error {
	p.errmu.Lock()
	defer p.errmu.Unlock()
	if p.err == nil && p.closed.IsClosed() {
		return ErrPeerDisconnected
	}
	return p.err
}

func (p *Peer) terminalErr() error {
	if err := p.Err(); err != nil {
		return err
	}
	return ErrPeerDisconnected
}

func (p *Peer) shutdown(err error) {
	p.errmu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.errmu.Unlock()
	p.closed.Close()
}

// loop drains the channel until it closes.
func (p *Peer) loop() {
	var asm assembler
	b := make([]byte, p.rxMTU)
	for {
		n, err := p.conn.Read(b)
		if err != nil {
			if atomic.LoadInt32(&p.closing) == 1 || isDisconnect(err) {
				p.logger.Debug("disconnected", "err", err)
				p.shutdown(ErrPeerDisconnected)
				return
			}
			p.logger.Error("read failed", "err", err)
			p.shutdown(&PeerIOError{Op: "read", Err: err})
			return
		}
		if n == 0 {
			continue
		}
		pkt := make([]byte, n)
		copy(pkt, b[:n])
		p.handle(&asm, pkt)
	}
}

// handle routes one inbound packet.
func (p *Peer) handle(asm *assembler, pkt []byte) {
	msg, err := asm.add(pkt)
	if err != nil {
		p.logger.Warn("dropping fragment", "err", err, "pkt", pkt)
		return
	}
	if msg == nil {
		return
	}
	hdr, err := UnmarshalHeader(msg)
	if err != nil {
		if e, ok := err.(*InvalidSignalIDError); ok {
			// Only commands get a General Reject.
			if signal(msg).MessageType() != MessageCommand {
				p.logger.Warn("dropping reply with unknown signal", "txid", e.TxID, "id", e.ID)
				return
			}
			p.logger.Warn("unknown signal", "txid", e.TxID, "id", e.ID)
			if err := p.sendGeneralReject(e.TxID, e.ID); err != nil {
				p.logger.Warn("can't send general reject", "err", err)
			}
			return
		}
		p.logger.Warn("malformed header", "err", err, "pkt", msg)
		p.reqs.push(unparsedRequest{err: ErrInvalidHeader})
		return
	}
	if p.logger.IsDebug() {
		p.logger.Debug("rx", "txid", hdr.TxID, "type", hdr.MessageType, "signal", hdr.Signal, "len", len(msg))
	}
	if hdr.IsCommand() {
		p.reqs.push(unparsedRequest{hdr: hdr, body: msg[hdr.Len():]})
		return
	}
	if !p.txs.deliver(hdr.TxID, msg) {
		p.logger.Warn("response with no outstanding command", "txid", hdr.TxID, "signal", hdr.Signal)
	}
}

// write sends one packet.
func (p *Peer) write(b []byte) error {
	if p.closed.IsClosed() {
		return p.terminalErr()
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	n, err := p.conn.Write(b)
	if err != nil {
		return &PeerIOError{Op: "write", Err: err}
	}
	if n != len(b) {
		return &PeerIOError{Op: "write", Err: io.ErrShortWrite}
	}
	return nil
}

// sendSignal writes a single packet signal carrying payload.
func (p *Peer) sendSignal(id TxID, typ MessageType, sig SignalIdentifier, payload []byte) error {
	hdr := SignalingHeader{
		TxID:        id,
		PacketType:  PacketSingle,
		MessageType: typ,
		NumPackets:  1,
		Signal:      sig,
	}
	b := make([]byte, hdr.Len()+len(payload))
	if err := hdr.Marshal(b); err != nil {
		return err
	}
	copy(b[hdr.Len():], payload)
	if p.logger.IsDebug() {
		p.logger.Debug("tx", "txid", id, "type", typ, "signal", sig, "len", len(b))
	}
	return p.write(b)
}

// sendGeneralReject answers a packet whose signal identifier isn't known.
// The raw identifier is echoed back.
func (p *Peer) sendGeneralReject(id TxID, raw uint8) error {
	return p.write([]byte{uint8(id)<<4 | uint8(MessageGeneralReject), raw & 0x3F})
}

func (p *Peer) sendReject(id TxID, sig SignalIdentifier, payload ...byte) error {
	return p.sendSignal(id, MessageResponseReject, sig, payload)
}

func (p *Peer) sendAccept(id TxID, sig SignalIdentifier, payload []byte) error {
	return p.sendSignal(id, MessageResponseAccept, sig, payload)
}
