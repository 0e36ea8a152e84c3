//go:build linux
// +build linux

package l2cap

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

func socket() (int, error) {
	return unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET|unix.SOCK_CLOEXEC, unix.BTPROTO_L2CAP)
}

func connect(fd int, a Addr, psm uint16) error {
	return unix.Connect(fd, &unix.SockaddrL2{PSM: psm, Addr: a})
}

func bind(fd int, psm uint16) error {
	return unix.Bind(fd, &unix.SockaddrL2{PSM: psm})
}

func listen(fd int) error {
	return unix.Listen(fd, 4)
}

func accept(fd int) (int, Addr, error) {
	nfd, sa, err := unix.Accept(fd)
	if err != nil {
		return -1, Addr{}, err
	}
	var a Addr
	if l2, ok := sa.(*unix.SockaddrL2); ok {
		a = Addr(l2.Addr)
	} else {
		log.Errorf("l2cap: unexpected peer address type %T", sa)
	}
	return nfd, a, nil
}

func read(fd int, b []byte) (int, error) {
	for {
		n, err := unix.Read(fd, b)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ECONNRESET || err == unix.ENOTCONN {
			log.Debugf("l2cap: channel reset: %s", err)
			return 0, nil
		}
		return n, err
	}
}

func write(fd int, b []byte) (int, error) {
	for {
		n, err := unix.Write(fd, b)
		if err == unix.EINTR {
			continue
		}
		if err == nil && n != len(b) {
			log.Errorf("l2cap: failed to send whole sdu to l2cap socket")
		}
		return n, err
	}
}

func shutdown(fd int) {
	unix.Shutdown(fd, unix.SHUT_RDWR)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
