package avdtp

import (
	"io"
	"net"
	"syscall"

	"github.com/pkg/errors"
)

// Conn is a reliable, message oriented signaling channel; on Bluetooth it is
// an L2CAP channel on PSM 0x0019.
//
// Each Read returns exactly one signaling packet and each Write sends one.
// Read returns io.EOF once the remote end has gone away.
type Conn interface {
	io.ReadWriteCloser
}

// isDisconnect reports whether err from a Conn means the remote is gone,
// as opposed to a failure of the local channel.
func isDisconnect(err error) bool {
	switch errors.Cause(err) {
	case io.EOF, io.ErrUnexpectedEOF, io.ErrClosedPipe, syscall.ECONNRESET, syscall.ENOTCONN:
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
