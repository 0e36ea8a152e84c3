package avdtp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembler_Single(t *testing.T) {
	t.Parallel()

	var a assembler
	msg, err := a.add([]byte{0x00, 0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01}, msg)
}

func TestAssembler_StartContinueEnd(t *testing.T) {
	t.Parallel()

	var a assembler
	msg, err := a.add([]byte{0x24, 0x03, 0x03, 0x04, 0x08})
	require.NoError(t, err)
	require.Nil(t, msg)

	msg, err = a.add([]byte{0x28, 0x01, 0x00})
	require.NoError(t, err)
	require.Nil(t, msg)

	msg, err = a.add([]byte{0x2C, 0x08, 0x00})
	require.NoError(t, err)
	require.Equal(t, []byte{0x20, 0x03, 0x04, 0x08, 0x01, 0x00, 0x08, 0x00}, msg)

	h, err := UnmarshalHeader(msg)
	require.NoError(t, err)
	require.Equal(t, TxID(2), h.TxID)
	require.Equal(t, PacketSingle, h.PacketType)
	require.Equal(t, SignalSetConfiguration, h.Signal)
}

func TestAssembler_StartOfOne(t *testing.T) {
	t.Parallel()

	var a assembler
	msg, err := a.add([]byte{0x06, 0x01, 0x01, 0x04, 0x08})
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x01, 0x04, 0x08}, msg)
}

func TestAssembler_Orphans(t *testing.T) {
	t.Parallel()

	var a assembler
	_, err := a.add([]byte{0x08, 0x00})
	require.ErrorIs(t, err, errOrphanFragment)
	_, err = a.add([]byte{0x0C, 0x00})
	require.ErrorIs(t, err, errOrphanFragment)

	// Fragment for another transaction.
	_, err = a.add([]byte{0x04, 0x02, 0x03, 0x04})
	require.NoError(t, err)
	_, err = a.add([]byte{0x1C, 0x00})
	require.ErrorIs(t, err, errOrphanFragment)
}

func TestAssembler_CountMismatch(t *testing.T) {
	t.Parallel()

	var a assembler
	_, err := a.add([]byte{0x04, 0x03, 0x03, 0x04})
	require.NoError(t, err)

	// End arrives while one more continue is expected.
	_, err = a.add([]byte{0x0C, 0x00})
	require.ErrorIs(t, err, errFragmentCount)

	// The assembler recovers for the next message.
	msg, err := a.add([]byte{0x00, 0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01}, msg)
}

func TestAssembler_ShortStart(t *testing.T) {
	t.Parallel()

	var a assembler
	_, err := a.add([]byte{0x04, 0x02})
	require.ErrorIs(t, err, ErrInvalidHeader)
}
