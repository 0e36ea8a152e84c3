package avdtp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestQueue_StaleListener(t *testing.T) {
	q := newRequestQueue()
	closed := make(chan struct{})
	closedErr := func() error { return ErrPeerDisconnected }
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	l1 := q.take()
	require.NotNil(t, l1)
	require.Nil(t, q.take())
	require.Equal(t, listenerNew, q.consumerState())

	q.release(l1)
	require.Equal(t, listenerNone, q.consumerState())
	q.release(l1)

	l2 := q.take()
	require.NotNil(t, l2)
	q.push(unparsedRequest{err: ErrInvalidHeader})

	// The released listener neither takes the item nor changes the state.
	_, err := q.next(ctx, l1, closed, closedErr)
	require.Equal(t, ErrRequestStreamClosed, err)
	require.Equal(t, 1, q.len())
	require.Equal(t, listenerNew, q.consumerState())

	r, err := q.next(ctx, l2, closed, closedErr)
	require.NoError(t, err)
	require.Equal(t, ErrInvalidHeader, r.err)
}

func TestRequestQueue_WaitingState(t *testing.T) {
	q := newRequestQueue()
	l := q.take()
	got := make(chan unparsedRequest, 1)
	go func() {
		r, err := q.next(context.Background(), l, nil, nil)
		if err == nil {
			got <- r
		}
	}()

	require.Eventually(t, func() bool { return q.consumerState() == listenerWaiting },
		time.Second, time.Millisecond)
	q.push(unparsedRequest{body: []byte{1}})

	select {
	case r := <-got:
		require.Equal(t, []byte{1}, r.body)
	case <-time.After(time.Second):
		t.Fatal("next didn't wake")
	}
	require.Equal(t, listenerNew, q.consumerState())
}
