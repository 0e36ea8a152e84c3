package tunnel

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
	"golang.org/x/net/context"
)

// hello is the first frame on a QUIC tunnel; the acceptor can't see a new
// stream before data arrives on it.
var hello = []byte("avdtp/1")

func quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  30 * time.Second,
		KeepAlivePeriod: 10 * time.Second,
	}
}

// QUICConn carries signaling packets over one bidirectional QUIC stream,
// each packet as a length prefixed frame.
type QUICConn struct {
	conn   *quic.Conn
	stream *quic.Stream

	rmu    sync.Mutex
	wmu    sync.Mutex
	once   sync.Once
	closed chan struct{}
}

func newQUICConn(conn *quic.Conn, stream *quic.Stream) *QUICConn {
	return &QUICConn{conn: conn, stream: stream, closed: make(chan struct{})}
}

// DialQUIC connects to a QUIC tunnel listener at addr.
func DialQUIC(ctx context.Context, addr string) (*QUICConn, error) {
	conn, err := quic.DialAddr(ctx, addr, clientTLSConfig(), quicConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "tunnel: can't dial %s", addr)
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(1, "open stream")
		return nil, errors.Wrap(err, "tunnel: can't open stream")
	}
	if err := writeFrame(stream, hello); err != nil {
		conn.CloseWithError(1, "hello")
		return nil, errors.Wrap(err, "tunnel: can't send hello")
	}
	logger.Info("quic tunnel up", "remote", conn.RemoteAddr())
	return newQUICConn(conn, stream), nil
}

// Read reads one packet. It returns io.EOF once either side has closed.
func (c *QUICConn) Read(b []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	n, err := readFrame(c.stream, b)
	if err != nil {
		return 0, c.translate(err)
	}
	return n, nil
}

// Write sends b as one packet.
func (c *QUICConn) Write(b []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := writeFrame(c.stream, b); err != nil {
		return 0, c.translate(err)
	}
	return len(b), nil
}

// Close closes the stream and its connection.
func (c *QUICConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)
		c.stream.Close()
		err = c.conn.CloseWithError(0, "")
	})
	return err
}

// RemoteAddr returns the remote UDP address.
func (c *QUICConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *QUICConn) translate(err error) error {
	select {
	case <-c.closed:
		return io.EOF
	default:
	}
	var appErr *quic.ApplicationError
	if err == io.EOF || errors.As(err, &appErr) {
		return io.EOF
	}
	return errors.Wrap(err, "tunnel")
}

// QUICListener accepts QUIC tunnels.
type QUICListener struct {
	ln *quic.Listener
}

// ListenQUIC listens for QUIC tunnels on the UDP address addr using a fresh
// self-signed certificate.
func ListenQUIC(addr string) (*QUICListener, error) {
	cert, err := SelfSignedCert()
	if err != nil {
		return nil, err
	}
	ln, err := quic.ListenAddr(addr, serverTLSConfig(cert), quicConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "tunnel: can't listen on %s", addr)
	}
	return &QUICListener{ln: ln}, nil
}

// Accept waits for the next tunnel and its hello frame.
func (l *QUICListener) Accept(ctx context.Context) (*QUICConn, error) {
	conn, err := l.ln.Accept(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "tunnel: accept")
	}
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		conn.CloseWithError(1, "accept stream")
		return nil, errors.Wrap(err, "tunnel: accept stream")
	}
	b := make([]byte, len(hello)+1)
	n, err := readFrame(stream, b)
	if err != nil || !bytes.Equal(b[:n], hello) {
		conn.CloseWithError(1, "bad hello")
		return nil, errors.New("tunnel: bad hello from peer")
	}
	logger.Info("quic tunnel accepted", "remote", conn.RemoteAddr())
	return newQUICConn(conn, stream), nil
}

// Addr returns the listening address.
func (l *QUICListener) Addr() net.Addr { return l.ln.Addr() }

// Close stops listening.
func (l *QUICListener) Close() error { return l.ln.Close() }
