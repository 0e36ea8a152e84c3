package tunnel_test

import (
	"io"
	"testing"

	"github.com/currantlabs/avdtp"
	"github.com/currantlabs/avdtp/tunnel"
	"github.com/stretchr/testify/require"
)

func TestQUIC_Discover(t *testing.T) {
	ln, err := tunnel.ListenQUIC("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx := testContext(t)
	accepted := make(chan *tunnel.QUICConn, 1)
	go func() {
		c, err := ln.Accept(ctx)
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	c, err := tunnel.DialQUIC(ctx, ln.Addr().String())
	require.NoError(t, err)
	client, err := avdtp.NewPeer(c)
	require.NoError(t, err)
	defer client.Close()

	sc, ok := <-accepted
	require.True(t, ok, "accept failed")
	server, err := avdtp.NewPeer(sc)
	require.NoError(t, err)
	defer server.Close()

	rs := server.TakeRequestStream()
	go func() {
		for {
			req, err := rs.Next(ctx)
			if err != nil {
				return
			}
			if d, ok := req.(*avdtp.DiscoverRequest); ok {
				d.Responder.Send([]avdtp.StreamInformation{{
					ID:           3,
					InUse:        true,
					MediaType:    avdtp.MediaAudio,
					EndpointType: avdtp.EndpointSource,
				}})
			}
		}
	}()

	eps, err := client.Discover(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 1)
	require.Equal(t, avdtp.StreamEndpointID(3), eps[0].ID)
	require.True(t, eps[0].InUse)
}

func TestQUIC_CloseIsEOF(t *testing.T) {
	ln, err := tunnel.ListenQUIC("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx := testContext(t)
	accepted := make(chan *tunnel.QUICConn, 1)
	go func() {
		c, err := ln.Accept(ctx)
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	c, err := tunnel.DialQUIC(ctx, ln.Addr().String())
	require.NoError(t, err)
	sc, ok := <-accepted
	require.True(t, ok, "accept failed")
	defer sc.Close()

	require.NoError(t, c.Close())
	_, err = sc.Read(make([]byte, 8))
	require.Equal(t, io.EOF, err)
}
