package avdtptest

import (
	"testing"
	"time"
)

// ScaleDuration is multiplied into every timeout used by this package,
// to give slow CI machines some room.
var ScaleDuration = 1.0

func scale(d time.Duration) time.Duration {
	return time.Duration(float64(d) * ScaleDuration)
}

// ReceiveSoon returns the next value from ch, failing t if nothing arrives
// within a second.
func ReceiveSoon[T any](t testing.TB, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(scale(time.Second)):
		t.Fatalf("no value received within %s", scale(time.Second))
	}
	panic("unreachable")
}

// NotSending fails t if ch delivers a value within a short interval.
func NotSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value received: %v", v)
	case <-time.After(scale(50 * time.Millisecond)):
	}
}

// ReadSoon returns the next packet written by the other end of c.
func ReadSoon(t testing.TB, c *Conn) []byte {
	t.Helper()
	return ReceiveSoon(t, c.Packets())
}

// NotReading fails t if the other end of c writes a packet within a short
// interval.
func NotReading(t testing.TB, c *Conn) {
	t.Helper()
	NotSending(t, c.Packets())
}
