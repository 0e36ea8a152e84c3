package l2cap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddr(t *testing.T) {
	t.Parallel()

	a, err := ParseAddr("00:1A:7D:DA:71:13")
	require.NoError(t, err)
	require.Equal(t, Addr{0x00, 0x1A, 0x7D, 0xDA, 0x71, 0x13}, a)
	require.Equal(t, "00:1a:7d:da:71:13", a.String())

	b, err := ParseAddr("00-1a-7d-da-71-13")
	require.NoError(t, err)
	require.Equal(t, a, b)

	for _, s := range []string{"", "00:11:22:33:44", "00:11:22:33:44:5", "00:11:22:33:44:zz", "001:1:22:33:44:55"} {
		_, err := ParseAddr(s)
		require.Error(t, err, s)
	}
}

func TestListen_Unprivileged(t *testing.T) {
	l, err := Listen(PSMAVDTP)
	if err != nil {
		t.Skipf("no bluetooth socket available: %v", err)
	}
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}
