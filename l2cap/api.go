package l2cap

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

// Conn is a connected L2CAP channel in SOCK_SEQPACKET mode.
// Each Read returns exactly one SDU and each Write sends one.
type Conn struct {
	fd     int
	psm    uint16
	remote Addr

	rmu  sync.Mutex
	wmu  sync.Mutex
	once sync.Once
}

// Dial connects to psm on the remote device.
func Dial(ctx context.Context, addr Addr, psm uint16) (*Conn, error) {
	fd, err := socket()
	if err != nil {
		return nil, errors.Wrap(err, "l2cap: can't create socket")
	}
	done := make(chan error, 1)
	go func() { done <- connect(fd, addr, psm) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		shutdown(fd)
		<-done
		closeFD(fd)
		return nil, ctx.Err()
	}
	if err != nil {
		closeFD(fd)
		return nil, errors.Wrapf(err, "l2cap: can't connect to %s psm 0x%04X", addr, psm)
	}
	logger.Info("connected", "addr", addr, "psm", psm)
	return &Conn{fd: fd, psm: psm, remote: addr}, nil
}

// Read reads one SDU. It returns io.EOF once the channel is closed.
func (c *Conn) Read(b []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	n, err := read(c.fd, b)
	if err != nil {
		return 0, errors.Wrap(err, "l2cap: read")
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write sends b as one SDU.
func (c *Conn) Write(b []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	n, err := write(c.fd, b)
	if err != nil {
		return n, errors.Wrap(err, "l2cap: write")
	}
	return n, nil
}

// Close disconnects the channel. A blocked Read returns io.EOF.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		shutdown(c.fd)
		err = closeFD(c.fd)
	})
	return err
}

// RemoteAddr returns the address of the remote device.
func (c *Conn) RemoteAddr() Addr { return c.remote }

// PSM returns the PSM of the channel.
func (c *Conn) PSM() uint16 { return c.psm }

// Listener accepts incoming channels on a PSM.
type Listener struct {
	fd   int
	psm  uint16
	once sync.Once
}

// Listen binds psm on all local adapters.
func Listen(psm uint16) (*Listener, error) {
	fd, err := socket()
	if err != nil {
		return nil, errors.Wrap(err, "l2cap: can't create socket")
	}
	if err := bind(fd, psm); err != nil {
		closeFD(fd)
		return nil, errors.Wrapf(err, "l2cap: can't bind psm 0x%04X", psm)
	}
	if err := listen(fd); err != nil {
		closeFD(fd)
		return nil, errors.Wrap(err, "l2cap: can't listen")
	}
	return &Listener{fd: fd, psm: psm}, nil
}

// Accept waits for and returns the next channel.
func (l *Listener) Accept() (*Conn, error) {
	fd, addr, err := accept(l.fd)
	if err != nil {
		return nil, errors.Wrap(err, "l2cap: accept")
	}
	logger.Info("accepted", "addr", addr, "psm", l.psm)
	return &Conn{fd: fd, psm: l.psm, remote: addr}, nil
}

// Close closes the listener. A blocked Accept returns an error.
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		shutdown(l.fd)
		err = closeFD(l.fd)
	})
	return err
}
