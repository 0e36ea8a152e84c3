package tunnel_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/currantlabs/avdtp"
	"github.com/currantlabs/avdtp/tunnel"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestWS_Packets(t *testing.T) {
	got := make(chan []byte, 1)
	srv := httptest.NewServer(tunnel.WSHandler(func(c *tunnel.WSConn) {
		b := make([]byte, 8)
		n, err := c.Read(b)
		if err != nil {
			close(got)
			return
		}
		got <- b[:n]
		c.Write([]byte{0x02, 0x01})
		// Wait for the client to hang up.
		c.Read(b)
	}))
	defer srv.Close()

	ctx := testContext(t)
	c, err := tunnel.DialWS(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte{0x00, 0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01}, <-got)

	b := make([]byte, 8)
	n, err := c.Read(b)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x01}, b[:n])
}

func TestWS_CloseIsEOF(t *testing.T) {
	srv := httptest.NewServer(tunnel.WSHandler(func(c *tunnel.WSConn) {}))
	defer srv.Close()

	c, err := tunnel.DialWS(testContext(t), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Read(make([]byte, 8))
	require.Equal(t, io.EOF, err)
}

func TestWS_Discover(t *testing.T) {
	srv := httptest.NewServer(tunnel.WSHandler(func(c *tunnel.WSConn) {
		p, err := avdtp.NewPeer(c)
		if err != nil {
			return
		}
		defer p.Close()
		rs := p.TakeRequestStream()
		for {
			req, err := rs.Next(context.Background())
			if err != nil {
				return
			}
			if d, ok := req.(*avdtp.DiscoverRequest); ok {
				d.Responder.Send([]avdtp.StreamInformation{{
					ID:           1,
					MediaType:    avdtp.MediaAudio,
					EndpointType: avdtp.EndpointSink,
				}})
			}
		}
	}))
	defer srv.Close()

	ctx := testContext(t)
	c, err := tunnel.DialWS(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	p, err := avdtp.NewPeer(c)
	require.NoError(t, err)
	defer p.Close()

	eps, err := p.Discover(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 1)
	require.Equal(t, avdtp.StreamEndpointID(1), eps[0].ID)
	require.Equal(t, avdtp.EndpointSink, eps[0].EndpointType)
}
