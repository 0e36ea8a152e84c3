package avdtp

import "golang.org/x/net/context"

// Request is a command received from the remote. The concrete types are
// *DiscoverRequest, *GetCapabilitiesRequest, *GetAllCapabilitiesRequest,
// *SetConfigurationRequest, *OpenRequest, *CloseRequest, *StartRequest and
// *SuspendRequest. Each carries a one-shot responder that must be used to
// answer it.
type Request interface {
	Signal() SignalIdentifier
}

// DiscoverRequest asks for the local stream endpoints.
type DiscoverRequest struct {
	Responder *DiscoverResponder
}

// GetCapabilitiesRequest asks for the basic capabilities of an endpoint.
type GetCapabilitiesRequest struct {
	StreamID  StreamEndpointID
	Responder *GetCapabilitiesResponder
}

// GetAllCapabilitiesRequest asks for all capabilities of an endpoint.
type GetAllCapabilitiesRequest struct {
	StreamID  StreamEndpointID
	Responder *GetCapabilitiesResponder
}

// SetConfigurationRequest configures LocalStreamID for a stream with the
// remote's RemoteStreamID.
type SetConfigurationRequest struct {
	LocalStreamID  StreamEndpointID
	RemoteStreamID StreamEndpointID
	Capabilities   []ServiceCapability
	Responder      *SimpleResponder
}

// OpenRequest opens a configured stream.
type OpenRequest struct {
	StreamID  StreamEndpointID
	Responder *SimpleResponder
}

// CloseRequest closes a stream.
type CloseRequest struct {
	StreamID  StreamEndpointID
	Responder *SimpleResponder
}

// StartRequest starts one or more streams.
type StartRequest struct {
	StreamIDs []StreamEndpointID
	Responder *SimpleResponder
}

// SuspendRequest suspends one or more streams.
type SuspendRequest struct {
	StreamIDs []StreamEndpointID
	Responder *SimpleResponder
}

func (*DiscoverRequest) Signal() SignalIdentifier           { return SignalDiscover }
func (*GetCapabilitiesRequest) Signal() SignalIdentifier    { return SignalGetCapabilities }
func (*GetAllCapabilitiesRequest) Signal() SignalIdentifier { return SignalGetAllCapabilities }
func (*SetConfigurationRequest) Signal() SignalIdentifier   { return SignalSetConfiguration }
func (*OpenRequest) Signal() SignalIdentifier               { return SignalOpen }
func (*CloseRequest) Signal() SignalIdentifier              { return SignalClose }
func (*StartRequest) Signal() SignalIdentifier              { return SignalStart }
func (*SuspendRequest) Signal() SignalIdentifier            { return SignalSuspend }

// parseRequest builds a Request from a command. It returns ErrBadLength or
// ErrUnimplementedMessage for commands that should be rejected outright.
func parseRequest(p *Peer, hdr SignalingHeader, body []byte) (Request, error) {
	r := responder{p: p, txid: hdr.TxID, signal: hdr.Signal}
	switch hdr.Signal {
	case SignalDiscover:
		if len(body) != 0 {
			return nil, ErrBadLength
		}
		return &DiscoverRequest{Responder: &DiscoverResponder{r}}, nil

	case SignalGetCapabilities, SignalGetAllCapabilities:
		if len(body) != 1 {
			return nil, ErrBadLength
		}
		rsp := &GetCapabilitiesResponder{r}
		if hdr.Signal == SignalGetAllCapabilities {
			return &GetAllCapabilitiesRequest{StreamID: seidFromField(body[0]), Responder: rsp}, nil
		}
		return &GetCapabilitiesRequest{StreamID: seidFromField(body[0]), Responder: rsp}, nil

	case SignalSetConfiguration:
		if len(body) < 4 {
			return nil, ErrBadLength
		}
		caps, err := UnmarshalCapabilities(body[2:])
		if err != nil {
			return nil, err
		}
		return &SetConfigurationRequest{
			LocalStreamID:  seidFromField(body[0]),
			RemoteStreamID: seidFromField(body[1]),
			Capabilities:   caps,
			Responder:      &SimpleResponder{r},
		}, nil

	case SignalOpen, SignalClose:
		if len(body) != 1 {
			return nil, ErrBadLength
		}
		if hdr.Signal == SignalOpen {
			return &OpenRequest{StreamID: seidFromField(body[0]), Responder: &SimpleResponder{r}}, nil
		}
		return &CloseRequest{StreamID: seidFromField(body[0]), Responder: &SimpleResponder{r}}, nil

	case SignalStart, SignalSuspend:
		if len(body) < 1 {
			return nil, ErrBadLength
		}
		ids := make([]StreamEndpointID, len(body))
		for i, b := range body {
			ids[i] = seidFromField(b)
		}
		if hdr.Signal == SignalStart {
			return &StartRequest{StreamIDs: ids, Responder: &SimpleResponder{r}}, nil
		}
		return &SuspendRequest{StreamIDs: ids, Responder: &SimpleResponder{r}}, nil
	}
	return nil, ErrUnimplementedMessage
}

// RequestStream yields the commands received from the remote in arrival
// order. Commands that can't be parsed are rejected before they reach the
// consumer.
type RequestStream struct {
	p *Peer
	l *listener
}

// TakeRequestStream returns the Peer's request stream. Only one stream may
// exist at a time; taking a second one before closing the first panics.
func (p *Peer) TakeRequestStream() *RequestStream {
	l := p.reqs.take()
	if l == nil {
		panic("avdtp: request stream already taken")
	}
	return &RequestStream{p: p, l: l}
}

// Next returns the next request. After the Peer stops and every queued
// request has been returned, Next returns the Peer's terminal error,
// ErrPeerDisconnected for a clean close. A malformed packet yields
// ErrInvalidHeader; the stream remains usable afterwards.
func (s *RequestStream) Next(ctx context.Context) (Request, error) {
	for {
		u, err := s.p.reqs.next(ctx, s.l, s.p.closed.Chan, s.p.terminalErr)
		if err != nil {
			return nil, err
		}
		if u.err != nil {
			return nil, u.err
		}
		req, err := parseRequest(s.p, u.hdr, u.body)
		if err == nil {
			return req, nil
		}
		code := ErrCodeBadPayloadFormat
		switch err {
		case ErrBadLength:
			code = ErrCodeBadLength
		case ErrUnimplementedMessage:
			code = ErrCodeNotSupportedCommand
		}
		s.p.logger.Info("rejecting command", "txid", u.hdr.TxID, "signal", u.hdr.Signal, "err", err, "code", code)
		if err := s.p.sendReject(u.hdr.TxID, u.hdr.Signal, byte(code)); err != nil {
			s.p.logger.Warn("can't send reject", "err", err)
		}
	}
}

// Close releases the stream so that it can be taken again. A Next blocked
// on this stream returns ErrRequestStreamClosed, as do later calls.
func (s *RequestStream) Close() error {
	s.p.reqs.release(s.l)
	return nil
}
