// Package l2cap opens L2CAP connection-oriented channels for AVDTP
// signaling using the Linux Bluetooth socket interface.
package l2cap

import (
	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
)

var logger = log.New("l2cap")

// PSMAVDTP is the protocol/service multiplexer assigned to AVDTP.
const PSMAVDTP = 0x0019

// ErrUnsupported is returned on platforms without Bluetooth sockets.
var ErrUnsupported = errors.New("l2cap: not supported on this platform")
