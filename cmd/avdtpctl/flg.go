package main

import (
	"time"

	"github.com/currantlabs/avdtp/l2cap"
	"github.com/urfave/cli"
)

var (
	flgTransport = cli.StringFlag{Name: "transport, x", Value: "l2cap", Usage: "Signaling transport (l2cap / ws / quic)"}
	flgAddr      = cli.StringFlag{Name: "addr, a", Usage: "Remote device address, ws:// URL or host:port"}
	flgPSM       = cli.UintFlag{Name: "psm", Value: l2cap.PSMAVDTP, Usage: "L2CAP PSM"}
	flgTimeout   = cli.DurationFlag{Name: "tmo, t", Value: time.Second * 5, Usage: "Timeout for the command"}
	flgMTU       = cli.IntFlag{Name: "mtu", Value: 672, Usage: "Largest signaling packet to receive"}
	flgCaps      = cli.BoolFlag{Name: "caps, c", Usage: "Also fetch the capabilities of each endpoint"}
	flgListen    = cli.StringFlag{Name: "listen, l", Value: "127.0.0.1:8019", Usage: "Listen address for ws / quic"}
	flgLocal     = cli.UintFlag{Name: "local", Value: 1, Usage: "Local SEID to announce in SetConfiguration"}
	flgRemote    = cli.UintFlag{Name: "remote, r", Usage: "Remote SEID to configure (default: first free one)"}
)
