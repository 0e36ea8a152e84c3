//go:build !linux
// +build !linux

package l2cap

func socket() (int, error)                     { return -1, ErrUnsupported }
func connect(fd int, a Addr, psm uint16) error { return ErrUnsupported }
func bind(fd int, psm uint16) error            { return ErrUnsupported }
func listen(fd int) error                      { return ErrUnsupported }
func accept(fd int) (int, Addr, error)         { return -1, Addr{}, ErrUnsupported }
func read(fd int, b []byte) (int, error)       { return 0, ErrUnsupported }
func write(fd int, b []byte) (int, error)      { return 0, ErrUnsupported }
func shutdown(fd int)                          {}
func closeFD(fd int) error                     { return nil }
