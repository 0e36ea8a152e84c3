// Package tunnel carries AVDTP signaling over IP, for testing against
// devices bridged from another host. Each tunnel preserves packet
// boundaries so it can stand in for an L2CAP channel.
package tunnel

import (
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

var logger = log.New("tunnel")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSConn carries one signaling packet per binary WebSocket message.
type WSConn struct {
	ws  *websocket.Conn
	wmu sync.Mutex
}

// NewWSConn wraps an established WebSocket.
func NewWSConn(ws *websocket.Conn) *WSConn {
	return &WSConn{ws: ws}
}

// DialWS connects to a WebSocket tunnel at url.
func DialWS(ctx context.Context, url string) (*WSConn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "tunnel: can't dial %s", url)
	}
	logger.Info("ws tunnel up", "url", url)
	return NewWSConn(ws), nil
}

// WSHandler upgrades requests to WebSocket tunnels and passes each to fn.
// The tunnel is closed when fn returns.
func WSHandler(fn func(*WSConn)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		logger.Info("ws tunnel accepted", "remote", r.RemoteAddr)
		c := NewWSConn(ws)
		defer c.Close()
		fn(c)
	})
}

// Read reads one packet. Text messages are skipped. A packet larger than b
// is truncated.
func (c *WSConn) Read(b []byte) (int, error) {
	for {
		mt, p, err := c.ws.ReadMessage()
		if err != nil {
			if _, ok := err.(*websocket.CloseError); ok {
				return 0, io.EOF
			}
			return 0, errors.Wrap(err, "tunnel: read")
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		return copy(b, p), nil
	}
}

// Write sends b as one binary message.
func (c *WSConn) Write(b []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.ws.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, errors.Wrap(err, "tunnel: write")
	}
	return len(b), nil
}

// Close sends a close message and closes the connection.
func (c *WSConn) Close() error {
	c.wmu.Lock()
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.wmu.Unlock()
	return c.ws.Close()
}
