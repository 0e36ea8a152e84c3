package tunnel

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// maxFrame is the largest packet a stream tunnel carries.
const maxFrame = 0xFFFF

// ErrFrameTooLong is returned when a packet doesn't fit a frame.
var ErrFrameTooLong = errors.New("tunnel: packet too long")

// writeFrame writes b prefixed with its big-endian 16-bit length.
func writeFrame(w io.Writer, b []byte) error {
	if len(b) > maxFrame {
		return ErrFrameTooLong
	}
	buf := make([]byte, 2+len(b))
	binary.BigEndian.PutUint16(buf, uint16(len(b)))
	copy(buf[2:], b)
	_, err := w.Write(buf)
	return err
}

// readFrame reads one frame into b. A frame larger than b is consumed and
// truncated, the way a SEQPACKET socket truncates.
func readFrame(r io.Reader, b []byte) (int, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, err
	}
	n := int(binary.BigEndian.Uint16(hdr[:]))
	if n <= len(b) {
		if _, err := io.ReadFull(r, b[:n]); err != nil {
			return 0, noEOF(err)
		}
		return n, nil
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, noEOF(err)
	}
	if _, err := io.CopyN(io.Discard, r, int64(n-len(b))); err != nil {
		return 0, noEOF(err)
	}
	return len(b), nil
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
