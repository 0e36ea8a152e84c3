// Package endpoint keeps local AVDTP stream endpoints and answers the
// remote's signaling commands against them.
package endpoint

import (
	"fmt"
	"sync"

	"github.com/currantlabs/avdtp"
	"github.com/mgutz/logxi/v1"
)

var logger = log.New("endpoint")

// State is the state of a stream endpoint [AVDTP 6.5].
type State int

// Stream endpoint states.
const (
	StateIdle State = iota
	StateConfigured
	StateOpen
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateOpen:
		return "open"
	case StateStreaming:
		return "streaming"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// StreamEndpoint is a local stream endpoint.
type StreamEndpoint struct {
	id           avdtp.StreamEndpointID
	mediaType    avdtp.MediaType
	endpointType avdtp.EndpointType
	caps         []avdtp.ServiceCapability

	mu     sync.Mutex
	state  State
	remote avdtp.StreamEndpointID
	config []avdtp.ServiceCapability
}

// New returns an idle stream endpoint.
func New(id avdtp.StreamEndpointID, mt avdtp.MediaType, et avdtp.EndpointType, caps []avdtp.ServiceCapability) (*StreamEndpoint, error) {
	if _, err := avdtp.NewStreamEndpointID(uint8(id)); err != nil {
		return nil, err
	}
	return &StreamEndpoint{
		id:           id,
		mediaType:    mt,
		endpointType: et,
		caps:         caps,
	}, nil
}

// ID returns the SEID.
func (e *StreamEndpoint) ID() avdtp.StreamEndpointID { return e.id }

// State returns the current state.
func (e *StreamEndpoint) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Information returns the endpoint as listed in a Discover response.
func (e *StreamEndpoint) Information() avdtp.StreamInformation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return avdtp.StreamInformation{
		ID:           e.id,
		InUse:        e.state != StateIdle,
		MediaType:    e.mediaType,
		EndpointType: e.endpointType,
	}
}

// Capabilities returns all capabilities of the endpoint.
func (e *StreamEndpoint) Capabilities() []avdtp.ServiceCapability { return e.caps }

// BasicCapabilities returns the capabilities defined before AVDTP 1.3,
// which is all of them except delay reporting.
func (e *StreamEndpoint) BasicCapabilities() []avdtp.ServiceCapability {
	var caps []avdtp.ServiceCapability
	for _, c := range e.caps {
		if c.Category() != avdtp.CategoryDelayReporting {
			caps = append(caps, c)
		}
	}
	return caps
}

// Configuration returns the remote endpoint and the capabilities it
// configured. It is only meaningful outside StateIdle.
func (e *StreamEndpoint) Configuration() (avdtp.StreamEndpointID, []avdtp.ServiceCapability) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remote, e.config
}

func (e *StreamEndpoint) supports(c avdtp.ServiceCategory) bool {
	for _, have := range e.caps {
		if have.Category() == c {
			return true
		}
	}
	return false
}

// configure moves an idle endpoint to StateConfigured.
func (e *StreamEndpoint) configure(remote avdtp.StreamEndpointID, caps []avdtp.ServiceCapability) (avdtp.ServiceCategory, avdtp.ErrorCode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return 0, avdtp.ErrCodeSepInUse, false
	}
	for _, c := range caps {
		if !e.supports(c.Category()) {
			return c.Category(), avdtp.ErrCodeUnsupportedConfiguration, false
		}
	}
	e.setState(StateConfigured)
	e.remote = remote
	e.config = caps
	return 0, 0, true
}

// transition moves the endpoint from one of from to to.
func (e *StreamEndpoint) transition(to State, from ...State) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range from {
		if e.state == s {
			e.setState(to)
			return true
		}
	}
	return false
}

func (e *StreamEndpoint) inState(s State) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == s
}

func (e *StreamEndpoint) setState(s State) {
	logger.Debug("state", "seid", e.id, "from", e.state, "to", s)
	e.state = s
	if s == StateIdle {
		e.remote = 0
		e.config = nil
	}
}
