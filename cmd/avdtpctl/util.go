package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/currantlabs/avdtp"
	"github.com/currantlabs/avdtp/l2cap"
	"github.com/currantlabs/avdtp/tunnel"
	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/net/context"
)

var errNoAddr = errors.New("no address specified")

// withSigHandler cancels ctx on SIGINT or SIGTERM.
func withSigHandler(ctx context.Context, cancel func()) context.Context {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			fmt.Printf("Signal received\n")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}

func dial(ctx context.Context, c *cli.Context) (avdtp.Conn, error) {
	addr := c.GlobalString("addr")
	if addr == "" {
		return nil, errNoAddr
	}
	switch c.GlobalString("transport") {
	case "l2cap":
		a, err := l2cap.ParseAddr(addr)
		if err != nil {
			return nil, err
		}
		return l2cap.Dial(ctx, a, uint16(c.GlobalUint("psm")))
	case "ws":
		if !strings.HasPrefix(addr, "ws://") && !strings.HasPrefix(addr, "wss://") {
			addr = "ws://" + addr
		}
		return tunnel.DialWS(ctx, addr)
	case "quic":
		return tunnel.DialQUIC(ctx, addr)
	}
	return nil, errors.Errorf("unknown transport %q", c.GlobalString("transport"))
}

func connect(ctx context.Context, c *cli.Context) (*avdtp.Peer, error) {
	conn, err := dial(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "can't connect")
	}
	p, err := avdtp.NewPeer(conn, peerOptions(c)...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// peerOptions configures a Peer from the global flags. Each transport logs
// under its own name.
func peerOptions(c *cli.Context) []avdtp.Option {
	return []avdtp.Option{
		avdtp.OptRxMTU(c.GlobalInt("mtu")),
		avdtp.OptLogger(log.New("avdtp/" + c.GlobalString("transport"))),
	}
}

func chkErr(err error) error {
	switch errors.Cause(err) {
	case context.DeadlineExceeded:
		// The command timed out; report it and move on.
		fmt.Printf("\n(Timed out)\n")
		return nil
	case context.Canceled:
		fmt.Printf("\n(Canceled)\n")
		return nil
	}
	return err
}
