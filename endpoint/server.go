package endpoint

import (
	"sort"
	"sync"

	"github.com/currantlabs/avdtp"
	"github.com/pkg/errors"
)

// Server answers signaling commands against a set of local stream
// endpoints, driving each endpoint's state machine.
type Server struct {
	mu  sync.Mutex
	eps map[avdtp.StreamEndpointID]*StreamEndpoint
}

// NewServer returns a Server for eps. SEIDs must be unique.
func NewServer(eps ...*StreamEndpoint) (*Server, error) {
	s := &Server{eps: make(map[avdtp.StreamEndpointID]*StreamEndpoint)}
	for _, e := range eps {
		if _, dup := s.eps[e.ID()]; dup {
			return nil, errors.Errorf("endpoint: duplicate %s", e.ID())
		}
		s.eps[e.ID()] = e
	}
	return s, nil
}

// Endpoint returns the endpoint with the given SEID.
func (s *Server) Endpoint(id avdtp.StreamEndpointID) (*StreamEndpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.eps[id]
	return e, ok
}

// Endpoints returns the endpoints ordered by SEID.
func (s *Server) Endpoints() []*StreamEndpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	eps := make([]*StreamEndpoint, 0, len(s.eps))
	for _, e := range s.eps {
		eps = append(eps, e)
	}
	sort.Slice(eps, func(i, j int) bool { return eps[i].ID() < eps[j].ID() })
	return eps
}

// ServeRequest answers req.
func (s *Server) ServeRequest(req avdtp.Request) error {
	logger.Debug("request", "signal", req.Signal())
	switch r := req.(type) {
	case *avdtp.DiscoverRequest:
		var infos []avdtp.StreamInformation
		for _, e := range s.Endpoints() {
			infos = append(infos, e.Information())
		}
		return r.Responder.Send(infos)

	case *avdtp.GetCapabilitiesRequest:
		e, ok := s.Endpoint(r.StreamID)
		if !ok {
			return r.Responder.Reject(avdtp.ErrCodeBadAcpSeid)
		}
		return r.Responder.Send(e.BasicCapabilities())

	case *avdtp.GetAllCapabilitiesRequest:
		e, ok := s.Endpoint(r.StreamID)
		if !ok {
			return r.Responder.Reject(avdtp.ErrCodeBadAcpSeid)
		}
		return r.Responder.Send(e.Capabilities())

	case *avdtp.SetConfigurationRequest:
		e, ok := s.Endpoint(r.LocalStreamID)
		if !ok {
			return r.Responder.RejectCategory(0, avdtp.ErrCodeBadAcpSeid)
		}
		if cat, code, ok := e.configure(r.RemoteStreamID, r.Capabilities); !ok {
			return r.Responder.RejectCategory(cat, code)
		}
		return r.Responder.Send()

	case *avdtp.OpenRequest:
		e, ok := s.Endpoint(r.StreamID)
		if !ok {
			return r.Responder.Reject(avdtp.ErrCodeBadAcpSeid)
		}
		if !e.transition(StateOpen, StateConfigured) {
			return r.Responder.Reject(avdtp.ErrCodeBadState)
		}
		return r.Responder.Send()

	case *avdtp.CloseRequest:
		e, ok := s.Endpoint(r.StreamID)
		if !ok {
			return r.Responder.Reject(avdtp.ErrCodeBadAcpSeid)
		}
		if !e.transition(StateIdle, StateOpen, StateStreaming) {
			return r.Responder.Reject(avdtp.ErrCodeBadState)
		}
		return r.Responder.Send()

	case *avdtp.StartRequest:
		return s.moveAll(r.StreamIDs, r.Responder, StateOpen, StateStreaming)

	case *avdtp.SuspendRequest:
		return s.moveAll(r.StreamIDs, r.Responder, StateStreaming, StateOpen)
	}
	return errors.Errorf("endpoint: unhandled request %T", req)
}

// moveAll transitions every listed endpoint from one state to another, or
// none of them if any is missing or in the wrong state.
func (s *Server) moveAll(ids []avdtp.StreamEndpointID, rsp *avdtp.SimpleResponder, from, to State) error {
	eps := make([]*StreamEndpoint, 0, len(ids))
	for _, id := range ids {
		e, ok := s.Endpoint(id)
		if !ok && !id.Valid() {
			// A reserved SEID can't be echoed back.
			return rsp.Reject(avdtp.ErrCodeBadAcpSeid)
		}
		if !ok {
			return rsp.RejectStream(id, avdtp.ErrCodeBadAcpSeid)
		}
		if !e.inState(from) {
			return rsp.RejectStream(id, avdtp.ErrCodeBadState)
		}
		eps = append(eps, e)
	}
	for _, e := range eps {
		e.transition(to, from)
	}
	return rsp.Send()
}
