package endpoint

import (
	"github.com/currantlabs/avdtp"
	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

// A Handler answers AVDTP requests.
type Handler interface {
	ServeRequest(req avdtp.Request) error
}

// HandlerFunc is an adapter to allow the use of ordinary functions as Handlers.
type HandlerFunc func(req avdtp.Request) error

// ServeRequest returns f(req).
func (f HandlerFunc) ServeRequest(req avdtp.Request) error {
	return f(req)
}

// Serve reads requests from rs and passes each to h until the peer
// disconnects or ctx is done. A clean disconnect returns nil.
func Serve(ctx context.Context, rs *avdtp.RequestStream, h Handler) error {
	defer rs.Close()
	for {
		req, err := rs.Next(ctx)
		switch {
		case err == nil:
		case errors.Cause(err) == avdtp.ErrPeerDisconnected:
			return nil
		case errors.Cause(err) == avdtp.ErrInvalidHeader:
			logger.Warn("malformed packet from peer")
			continue
		default:
			return err
		}
		if err := h.ServeRequest(req); err != nil {
			logger.Error("can't answer request", "signal", req.Signal(), "err", err)
			return errors.Wrapf(err, "can't answer %s", req.Signal())
		}
	}
}
