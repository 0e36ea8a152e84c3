package endpoint_test

import (
	"context"
	"testing"
	"time"

	"github.com/currantlabs/avdtp"
	"github.com/currantlabs/avdtp/avdtptest"
	"github.com/currantlabs/avdtp/endpoint"
	"github.com/stretchr/testify/require"
)

var sbc = avdtp.MediaCodec{
	MediaType:  avdtp.MediaAudio,
	CodecType:  avdtp.CodecSBC,
	CodecExtra: []byte{0xFF, 0xFF, 0x02, 0x35},
}

type fixture struct {
	srv    *endpoint.Server
	sink   *endpoint.StreamEndpoint
	source *endpoint.StreamEndpoint
	client *avdtp.Peer
	served chan error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sink, err := endpoint.New(1, avdtp.MediaAudio, avdtp.EndpointSink,
		[]avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc, avdtp.DelayReporting{}})
	require.NoError(t, err)
	source, err := endpoint.New(2, avdtp.MediaAudio, avdtp.EndpointSource,
		[]avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc})
	require.NoError(t, err)
	srv, err := endpoint.NewServer(source, sink)
	require.NoError(t, err)

	a, b := avdtptest.NewPipe()
	acp, err := avdtp.NewPeer(a)
	require.NoError(t, err)
	client, err := avdtp.NewPeer(b)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- endpoint.Serve(ctx, acp.TakeRequestStream(), srv) }()

	t.Cleanup(func() {
		cancel()
		client.Close()
		acp.Close()
	})
	return &fixture{srv: srv, sink: sink, source: source, client: client, served: served}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireRejected(t *testing.T, err error, code avdtp.ErrorCode) *avdtp.RemoteRejectedError {
	t.Helper()
	var rej *avdtp.RemoteRejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, code, rej.Code)
	return rej
}

func TestServer_Discover(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	infos, err := f.client.Discover(testContext(t))
	require.NoError(t, err)
	require.Equal(t, []avdtp.StreamInformation{
		{ID: 1, MediaType: avdtp.MediaAudio, EndpointType: avdtp.EndpointSink},
		{ID: 2, MediaType: avdtp.MediaAudio, EndpointType: avdtp.EndpointSource},
	}, infos)
}

func TestServer_Capabilities(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := testContext(t)

	caps, err := f.client.GetCapabilities(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc}, caps)

	caps, err = f.client.GetAllCapabilities(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc, avdtp.DelayReporting{}}, caps)

	_, err = f.client.GetCapabilities(ctx, 9)
	requireRejected(t, err, avdtp.ErrCodeBadAcpSeid)
}

func TestServer_StreamLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := testContext(t)

	config := []avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc}
	require.NoError(t, f.client.SetConfiguration(ctx, 1, 5, config))
	require.Equal(t, endpoint.StateConfigured, f.sink.State())
	remote, got := f.sink.Configuration()
	require.Equal(t, avdtp.StreamEndpointID(5), remote)
	require.Equal(t, config, got)

	infos, err := f.client.Discover(ctx)
	require.NoError(t, err)
	require.True(t, infos[0].InUse)

	err = f.client.SetConfiguration(ctx, 1, 6, config)
	requireRejected(t, err, avdtp.ErrCodeSepInUse)

	// Start before open is a state error.
	err = f.client.StartStreams(ctx, 1)
	rej := requireRejected(t, err, avdtp.ErrCodeBadState)
	require.Equal(t, uint8(0x04), rej.Detail)

	require.NoError(t, f.client.OpenStream(ctx, 1))
	require.Equal(t, endpoint.StateOpen, f.sink.State())

	require.NoError(t, f.client.StartStreams(ctx, 1))
	require.Equal(t, endpoint.StateStreaming, f.sink.State())

	require.NoError(t, f.client.SuspendStreams(ctx, 1))
	require.Equal(t, endpoint.StateOpen, f.sink.State())

	require.NoError(t, f.client.CloseStream(ctx, 1))
	require.Equal(t, endpoint.StateIdle, f.sink.State())

	err = f.client.CloseStream(ctx, 1)
	requireRejected(t, err, avdtp.ErrCodeBadState)
}

func TestServer_SetConfigurationRejects(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := testContext(t)

	err := f.client.SetConfiguration(ctx, 2, 5, []avdtp.ServiceCapability{avdtp.MediaTransport{}, avdtp.DelayReporting{}})
	rej := requireRejected(t, err, avdtp.ErrCodeUnsupportedConfiguration)
	require.Equal(t, uint8(avdtp.CategoryDelayReporting), rej.Detail)
	require.Equal(t, endpoint.StateIdle, f.source.State())

	err = f.client.SetConfiguration(ctx, 7, 5, []avdtp.ServiceCapability{avdtp.MediaTransport{}})
	requireRejected(t, err, avdtp.ErrCodeBadAcpSeid)
}

func TestServer_StartIsAllOrNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := testContext(t)

	config := []avdtp.ServiceCapability{avdtp.MediaTransport{}, sbc}
	require.NoError(t, f.client.SetConfiguration(ctx, 1, 5, config))
	require.NoError(t, f.client.OpenStream(ctx, 1))

	err := f.client.StartStreams(ctx, 1, 2)
	rej := requireRejected(t, err, avdtp.ErrCodeBadState)
	require.Equal(t, uint8(2<<2), rej.Detail)
	require.Equal(t, endpoint.StateOpen, f.sink.State())

	err = f.client.StartStreams(ctx, 1, 30)
	requireRejected(t, err, avdtp.ErrCodeBadAcpSeid)
}

func TestServer_StartReservedSEID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := testContext(t)

	// SEID 0 can't be named in the reject, so the reject carries only a code.
	_, err := f.client.SendCommand(ctx, avdtp.SignalStart, []byte{0x00})
	rej := requireRejected(t, err, avdtp.ErrCodeBadAcpSeid)
	require.False(t, rej.HasDetail)

	// The server keeps answering.
	eps, err := f.client.Discover(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 2)
}

func TestServer_UnsupportedCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.client.AbortStream(testContext(t), 1)
	requireRejected(t, err, avdtp.ErrCodeNotSupportedCommand)
}

func TestServe_ReturnsOnDisconnect(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.client.Close())
	require.NoError(t, avdtptest.ReceiveSoon(t, f.served))
}

func TestNewServer_DuplicateSEID(t *testing.T) {
	t.Parallel()

	a, err := endpoint.New(1, avdtp.MediaAudio, avdtp.EndpointSink, nil)
	require.NoError(t, err)
	b, err := endpoint.New(1, avdtp.MediaAudio, avdtp.EndpointSource, nil)
	require.NoError(t, err)
	_, err = endpoint.NewServer(a, b)
	require.Error(t, err)

	_, err = endpoint.New(0, avdtp.MediaAudio, avdtp.EndpointSink, nil)
	require.ErrorIs(t, err, avdtp.ErrOutOfRange)
}

func TestHandlerFunc(t *testing.T) {
	t.Parallel()

	a, b := avdtptest.NewPipe()
	acp, err := avdtp.NewPeer(a)
	require.NoError(t, err)
	defer acp.Close()
	client, err := avdtp.NewPeer(b)
	require.NoError(t, err)

	seen := make(chan avdtp.SignalIdentifier, 1)
	h := endpoint.HandlerFunc(func(req avdtp.Request) error {
		seen <- req.Signal()
		return req.(*avdtp.DiscoverRequest).Responder.Reject(avdtp.ErrCodeBadState)
	})
	go endpoint.Serve(context.Background(), acp.TakeRequestStream(), h)

	_, err = client.Discover(testContext(t))
	requireRejected(t, err, avdtp.ErrCodeBadState)
	require.Equal(t, avdtp.SignalDiscover, avdtptest.ReceiveSoon(t, seen))
}
