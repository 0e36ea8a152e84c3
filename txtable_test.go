package avdtp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTxTable_LowestFreeLabel(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	var ws []*responseWaiter
	for i := 0; i <= MaxTxID; i++ {
		id, w, err := tt.add()
		require.NoError(t, err)
		require.Equal(t, TxID(i), id)
		ws = append(ws, w)
	}

	_, _, err := tt.add()
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Equal(t, 16, tt.outstanding())

	tt.release(5, ws[5])
	id, _, err := tt.add()
	require.NoError(t, err)
	require.Equal(t, TxID(5), id)
}

func TestTxTable_DeliverBeforeWait(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	id, w, err := tt.add()
	require.NoError(t, err)

	require.True(t, tt.deliver(id, []byte{0x02, 0x01}))
	resp, err := tt.wait(context.Background(), id, w, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x01}, resp)
	require.Zero(t, tt.outstanding())

	_, err = tt.wait(context.Background(), id, w, nil, nil)
	require.ErrorIs(t, err, ErrAlreadyReceived)
}

func TestTxTable_WaitThenDeliver(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	id, w, err := tt.add()
	require.NoError(t, err)

	got := make(chan []byte, 1)
	go func() {
		resp, err := tt.wait(context.Background(), id, w, nil, nil)
		if err == nil {
			got <- resp
		}
	}()

	require.Eventually(t, func() bool {
		tt.mu.Lock()
		defer tt.mu.Unlock()
		return w.state == waiterWaiting
	}, time.Second, time.Millisecond)

	require.True(t, tt.deliver(id, []byte{0x02, 0x01}))
	select {
	case resp := <-got:
		require.Equal(t, []byte{0x02, 0x01}, resp)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestTxTable_UnknownLabel(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	require.False(t, tt.deliver(3, []byte{0x32, 0x01}))
}

func TestTxTable_RemoveInterestKeepsLabelUntilResponse(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	id, w, err := tt.add()
	require.NoError(t, err)

	tt.removeInterest(id, w)
	require.Equal(t, 1, tt.outstanding())

	// The label is still reserved while the response is in flight.
	next, _, err := tt.add()
	require.NoError(t, err)
	require.Equal(t, TxID(1), next)

	// A late response is discarded and frees the label.
	require.True(t, tt.deliver(id, []byte{0x02, 0x01}))
	require.Equal(t, 1, tt.outstanding())

	again, _, err := tt.add()
	require.NoError(t, err)
	require.Equal(t, id, again)
}

func TestTxTable_RemoveInterestAfterReceive(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	id, w, err := tt.add()
	require.NoError(t, err)

	require.True(t, tt.deliver(id, []byte{0x02, 0x01}))
	tt.removeInterest(id, w)
	require.Zero(t, tt.outstanding())
}

func TestTxTable_WaitCancelled(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	id, w, err := tt.add()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tt.wait(ctx, id, w, nil, nil)
	require.ErrorIs(t, err, context.Canceled)

	// Interest was removed; the slot is freed when the response shows up.
	require.Equal(t, 1, tt.outstanding())
	tt.deliver(id, []byte{0x02, 0x01})
	require.Zero(t, tt.outstanding())
}

func TestTxTable_WaitClosed(t *testing.T) {
	t.Parallel()

	tt := newTxTable()
	id, w, err := tt.add()
	require.NoError(t, err)

	closed := make(chan struct{})
	close(closed)
	_, err = tt.wait(context.Background(), id, w, closed, func() error { return ErrPeerDisconnected })
	require.ErrorIs(t, err, ErrPeerDisconnected)
}
