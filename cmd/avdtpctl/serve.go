package main

import (
	"net/http"

	"github.com/currantlabs/avdtp"
	"github.com/currantlabs/avdtp/endpoint"
	"github.com/currantlabs/avdtp/l2cap"
	"github.com/currantlabs/avdtp/tunnel"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/urfave/cli"
	"golang.org/x/net/context"
)

var sbc = avdtp.MediaCodec{
	MediaType: avdtp.MediaAudio,
	CodecType: avdtp.CodecSBC,
	// 44.1/48kHz, all channel modes, all block lengths, 8 subbands,
	// loudness, bitpool 2..53.
	CodecExtra: []byte{0x3F, 0xFF, 0x02, 0x35},
}

func newServer() (*endpoint.Server, error) {
	sink, err := endpoint.New(1, avdtp.MediaAudio, avdtp.EndpointSink,
		[]avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc, avdtp.DelayReporting{}})
	if err != nil {
		return nil, err
	}
	source, err := endpoint.New(2, avdtp.MediaAudio, avdtp.EndpointSource,
		[]avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc})
	if err != nil {
		return nil, err
	}
	return endpoint.NewServer(sink, source)
}

func servePeer(ctx context.Context, c *cli.Context, conn avdtp.Conn) {
	srv, err := newServer()
	if err != nil {
		pterm.Error.Println(err)
		conn.Close()
		return
	}
	p, err := avdtp.NewPeer(conn, peerOptions(c)...)
	if err != nil {
		pterm.Error.Println(err)
		conn.Close()
		return
	}
	defer p.Close()
	pterm.Success.Println("Peer connected")
	if err := chkErr(endpoint.Serve(ctx, p.TakeRequestStream(), srv)); err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.Info.Println("Peer disconnected")
}

func cmdServe(c *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = withSigHandler(ctx, cancel)

	switch c.GlobalString("transport") {
	case "l2cap":
		return chkErr(serveL2CAP(ctx, c))
	case "ws":
		return chkErr(serveWS(ctx, c))
	case "quic":
		return chkErr(serveQUIC(ctx, c))
	}
	return errors.Errorf("unknown transport %q", c.GlobalString("transport"))
}

func serveL2CAP(ctx context.Context, c *cli.Context) error {
	ln, err := l2cap.Listen(uint16(c.GlobalUint("psm")))
	if err != nil {
		return errors.Wrap(err, "can't listen")
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	pterm.Info.Printfln("Serving on PSM 0x%04X...", c.GlobalUint("psm"))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "can't accept")
		}
		go servePeer(ctx, c, conn)
	}
}

func serveWS(ctx context.Context, c *cli.Context) error {
	srv := &http.Server{
		Addr:    c.String("listen"),
		Handler: tunnel.WSHandler(func(conn *tunnel.WSConn) { servePeer(ctx, c, conn) }),
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	pterm.Info.Printfln("Serving on ws://%s...", srv.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

func serveQUIC(ctx context.Context, c *cli.Context) error {
	ln, err := tunnel.ListenQUIC(c.String("listen"))
	if err != nil {
		return err
	}
	defer ln.Close()
	pterm.Info.Printfln("Serving on quic://%s...", ln.Addr())
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			pterm.Warning.Println(err)
			continue
		}
		go servePeer(ctx, c, conn)
	}
}
