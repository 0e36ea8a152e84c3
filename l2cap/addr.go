package l2cap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Addr is a BR/EDR device address, most significant byte first.
type Addr [6]byte

// ParseAddr parses an address of the form "00:11:22:33:44:55".
// Dashes are accepted as separators too.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ':' || r == '-' })
	if len(parts) != len(a) {
		return a, errors.Errorf("l2cap: invalid address %q", s)
	}
	for i, p := range parts {
		if len(p) != 2 {
			return a, errors.Errorf("l2cap: invalid address %q", s)
		}
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return a, errors.Wrapf(err, "l2cap: invalid address %q", s)
		}
		a[i] = byte(v)
	}
	return a, nil
}

func (a Addr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}
