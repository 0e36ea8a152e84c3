package avdtp

import (
	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
)

// An Option is a configuration function, which configures the Peer.
type Option func(*Peer) error

// OptRxMTU sets the largest signaling packet the Peer accepts.
// It must be at least 48 bytes, the L2CAP minimum for BR/EDR.
func OptRxMTU(mtu int) Option {
	return func(p *Peer) error {
		if mtu < 48 {
			return errors.Errorf("avdtp: rx MTU %d below minimum 48", mtu)
		}
		p.rxMTU = mtu
		return nil
	}
}

// OptLogger sets the logger used by the Peer.
func OptLogger(l log.Logger) Option {
	return func(p *Peer) error {
		p.logger = l
		return nil
	}
}
