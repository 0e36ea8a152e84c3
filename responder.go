package avdtp

import "sync/atomic"

// responder answers one command. Only the first reply is sent.
type responder struct {
	p      *Peer
	txid   TxID
	signal SignalIdentifier
	used   int32
}

func (r *responder) claim() error {
	if !atomic.CompareAndSwapInt32(&r.used, 0, 1) {
		return ErrAlreadyResponded
	}
	return nil
}

func (r *responder) accept(payload []byte) error {
	if err := r.claim(); err != nil {
		return err
	}
	return r.p.sendAccept(r.txid, r.signal, payload)
}

func (r *responder) reject(payload ...byte) error {
	if err := r.claim(); err != nil {
		return err
	}
	return r.p.sendReject(r.txid, r.signal, payload...)
}

// TxID returns the transaction label the reply will carry.
func (r *responder) TxID() TxID { return r.txid }

// DiscoverResponder answers a Discover command.
type DiscoverResponder struct{ responder }

// Send replies with the local stream endpoints.
func (r *DiscoverResponder) Send(endpoints []StreamInformation) error {
	b := make([]byte, len(endpoints)*streamInformationLen)
	for i, e := range endpoints {
		if err := e.Marshal(b[i*streamInformationLen:]); err != nil {
			return err
		}
	}
	return r.accept(b)
}

// Reject rejects the command with code.
func (r *DiscoverResponder) Reject(code ErrorCode) error { return r.reject(byte(code)) }

// GetCapabilitiesResponder answers a Get Capabilities or Get All
// Capabilities command.
type GetCapabilitiesResponder struct{ responder }

// Send replies with the capabilities of the requested endpoint.
func (r *GetCapabilitiesResponder) Send(caps []ServiceCapability) error {
	b := make([]byte, capabilitiesLen(caps))
	if err := marshalCapabilities(caps, b); err != nil {
		return err
	}
	return r.accept(b)
}

// Reject rejects the command with code.
func (r *GetCapabilitiesResponder) Reject(code ErrorCode) error { return r.reject(byte(code)) }

// SimpleResponder answers commands whose accept carries no payload.
type SimpleResponder struct{ responder }

// Send accepts the command.
func (r *SimpleResponder) Send() error { return r.accept(nil) }

// Reject rejects the command with code.
func (r *SimpleResponder) Reject(code ErrorCode) error { return r.reject(byte(code)) }

// RejectStream rejects a start or suspend command, naming the first
// endpoint that failed. It fails with ErrOutOfRange if id can't be
// encoded, leaving the command unanswered.
func (r *SimpleResponder) RejectStream(id StreamEndpointID, code ErrorCode) error {
	if !id.Valid() {
		return ErrOutOfRange
	}
	return r.reject(id.field(), byte(code))
}

// RejectCategory rejects a configuration command, naming the service
// category that caused it.
func (r *SimpleResponder) RejectCategory(c ServiceCategory, code ErrorCode) error {
	return r.reject(byte(c), byte(code))
}
