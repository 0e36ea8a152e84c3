// Package avdtptest contains helpers for testing code built on avdtp.
package avdtptest

import (
	"io"
	"sync"
)

// pipeDepth is the number of packets buffered in each direction.
const pipeDepth = 64

// Conn is one end of an in-memory signaling channel.
// It preserves packet boundaries like an L2CAP SEQPACKET socket.
type Conn struct {
	in   <-chan []byte
	out  chan<- []byte
	pipe *pipe
}

type pipe struct {
	once sync.Once
	done chan struct{}
}

// NewPipe returns the two ends of an in-memory signaling channel.
// Closing either end closes both; buffered packets can still be read.
func NewPipe() (*Conn, *Conn) {
	ab := make(chan []byte, pipeDepth)
	ba := make(chan []byte, pipeDepth)
	p := &pipe{done: make(chan struct{})}
	return &Conn{in: ba, out: ab, pipe: p}, &Conn{in: ab, out: ba, pipe: p}
}

// Read reads one packet. A packet larger than b is truncated.
func (c *Conn) Read(b []byte) (int, error) {
	select {
	case m := <-c.in:
		return copy(b, m), nil
	default:
	}
	select {
	case m := <-c.in:
		return copy(b, m), nil
	case <-c.pipe.done:
		return 0, io.EOF
	}
}

// Write sends b as one packet.
func (c *Conn) Write(b []byte) (int, error) {
	select {
	case <-c.pipe.done:
		return 0, io.ErrClosedPipe
	default:
	}
	m := make([]byte, len(b))
	copy(m, b)
	select {
	case c.out <- m:
		return len(b), nil
	case <-c.pipe.done:
		return 0, io.ErrClosedPipe
	}
}

// Close closes both ends of the pipe.
func (c *Conn) Close() error {
	c.pipe.once.Do(func() { close(c.pipe.done) })
	return nil
}

// Packets returns the channel of packets written by the other end, for
// tests that read without a Peer attached.
func (c *Conn) Packets() <-chan []byte { return c.in }
