package avdtp

import "golang.org/x/net/context"

// CommandResponse is an outstanding command. Its transaction label stays
// reserved until the response is collected with Response or, after Cancel,
// until the response arrives.
type CommandResponse struct {
	p      *Peer
	id     TxID
	w      *responseWaiter
	signal SignalIdentifier
}

// Command sends a command and returns a handle for its response.
// It fails with ErrOutOfRange when 16 commands are already outstanding or
// sig is not a defined signal.
func (p *Peer) Command(sig SignalIdentifier, payload []byte) (*CommandResponse, error) {
	if !sig.Valid() {
		return nil, ErrOutOfRange
	}
	if p.closed.IsClosed() {
		return nil, p.terminalErr()
	}
	id, w, err := p.txs.add()
	if err != nil {
		return nil, err
	}
	if err := p.sendSignal(id, MessageCommand, sig, payload); err != nil {
		p.txs.release(id, w)
		return nil, err
	}
	return &CommandResponse{p: p, id: id, w: w, signal: sig}, nil
}

// TxID returns the transaction label of the command.
func (r *CommandResponse) TxID() TxID { return r.id }

// Response waits for the remote's answer and returns its payload.
// A Response Reject yields a *RemoteRejectedError, a General Reject yields
// ErrGeneralReject. Calling Response again after it returned fails with
// ErrAlreadyReceived.
func (r *CommandResponse) Response(ctx context.Context) ([]byte, error) {
	pkt, err := r.p.txs.wait(ctx, r.id, r.w, r.p.closed.Chan, r.p.terminalErr)
	if err != nil {
		return nil, err
	}
	return decodeResponse(r.signal, pkt)
}

// Cancel gives up on the response. A response that arrives later is dropped.
func (r *CommandResponse) Cancel() {
	r.p.txs.removeInterest(r.id, r.w)
}

// SendCommand sends a command and waits for the accepted payload.
func (p *Peer) SendCommand(ctx context.Context, sig SignalIdentifier, payload []byte) ([]byte, error) {
	r, err := p.Command(sig, payload)
	if err != nil {
		return nil, err
	}
	return r.Response(ctx)
}

func decodeResponse(sig SignalIdentifier, pkt []byte) ([]byte, error) {
	hdr, err := UnmarshalHeader(pkt)
	if err != nil || hdr.Signal != sig {
		return nil, ErrInvalidHeader
	}
	payload := pkt[hdr.Len():]
	switch hdr.MessageType {
	case MessageResponseAccept:
		return payload, nil
	case MessageGeneralReject:
		return nil, ErrGeneralReject
	case MessageResponseReject:
		return nil, rejectError(sig, payload)
	}
	return nil, ErrInvalidHeader
}

// rejectError decodes a Response Reject payload. Configuration, start and
// suspend rejects lead with a category or SEID byte.
func rejectError(sig SignalIdentifier, payload []byte) error {
	if len(payload) == 0 {
		return ErrInvalidMessage
	}
	switch sig {
	case SignalSetConfiguration, SignalReconfigure, SignalStart, SignalSuspend:
		if len(payload) >= 2 {
			return &RemoteRejectedError{
				Signal:    sig,
				Code:      ErrorCode(payload[1]),
				Detail:    payload[0],
				HasDetail: true,
			}
		}
	}
	return &RemoteRejectedError{Signal: sig, Code: ErrorCode(payload[0])}
}

// Discover asks the remote for its stream endpoints.
func (p *Peer) Discover(ctx context.Context) ([]StreamInformation, error) {
	b, err := p.SendCommand(ctx, SignalDiscover, nil)
	if err != nil {
		return nil, err
	}
	if len(b)%streamInformationLen != 0 {
		return nil, ErrInvalidMessage
	}
	infos := make([]StreamInformation, 0, len(b)/streamInformationLen)
	for ; len(b) > 0; b = b[streamInformationLen:] {
		info, err := UnmarshalStreamInformation(b)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetCapabilities returns the basic capabilities of a remote endpoint.
func (p *Peer) GetCapabilities(ctx context.Context, id StreamEndpointID) ([]ServiceCapability, error) {
	return p.capabilities(ctx, SignalGetCapabilities, id)
}

// GetAllCapabilities returns all capabilities of a remote endpoint,
// including those added after AVDTP 1.2 such as delay reporting.
func (p *Peer) GetAllCapabilities(ctx context.Context, id StreamEndpointID) ([]ServiceCapability, error) {
	return p.capabilities(ctx, SignalGetAllCapabilities, id)
}

func (p *Peer) capabilities(ctx context.Context, sig SignalIdentifier, id StreamEndpointID) ([]ServiceCapability, error) {
	payload, err := seidList(id)
	if err != nil {
		return nil, err
	}
	b, err := p.SendCommand(ctx, sig, payload)
	if err != nil {
		return nil, err
	}
	return UnmarshalCapabilities(b)
}

// SetConfiguration configures the remote endpoint remote for a stream with
// the local endpoint local.
func (p *Peer) SetConfiguration(ctx context.Context, remote, local StreamEndpointID, caps []ServiceCapability) error {
	ids, err := seidList(remote, local)
	if err != nil {
		return err
	}
	b := make([]byte, 2+capabilitiesLen(caps))
	copy(b, ids)
	if err := marshalCapabilities(caps, b[2:]); err != nil {
		return err
	}
	_, err = p.SendCommand(ctx, SignalSetConfiguration, b)
	return err
}

// OpenStream opens a configured stream.
func (p *Peer) OpenStream(ctx context.Context, id StreamEndpointID) error {
	return p.streamCommand(ctx, SignalOpen, id)
}

// CloseStream releases an open stream.
func (p *Peer) CloseStream(ctx context.Context, id StreamEndpointID) error {
	return p.streamCommand(ctx, SignalClose, id)
}

// AbortStream tears down a stream regardless of its state.
func (p *Peer) AbortStream(ctx context.Context, id StreamEndpointID) error {
	return p.streamCommand(ctx, SignalAbort, id)
}

// StartStreams starts streaming on one or more open streams.
func (p *Peer) StartStreams(ctx context.Context, ids ...StreamEndpointID) error {
	return p.streamCommand(ctx, SignalStart, ids...)
}

// SuspendStreams suspends one or more streaming streams.
func (p *Peer) SuspendStreams(ctx context.Context, ids ...StreamEndpointID) error {
	return p.streamCommand(ctx, SignalSuspend, ids...)
}

// streamCommand sends a command whose payload is a list of SEIDs and whose
// accept is empty.
func (p *Peer) streamCommand(ctx context.Context, sig SignalIdentifier, ids ...StreamEndpointID) error {
	payload, err := seidList(ids...)
	if err != nil {
		return err
	}
	_, err = p.SendCommand(ctx, sig, payload)
	return err
}

// seidList encodes ids one per byte. Nothing is sent for an id outside
// 0x01..0x3E, since the 6-bit field would alias another endpoint.
func seidList(ids ...StreamEndpointID) ([]byte, error) {
	b := make([]byte, len(ids))
	for i, id := range ids {
		if !id.Valid() {
			return nil, ErrOutOfRange
		}
		b[i] = id.field()
	}
	return b, nil
}
