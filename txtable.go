package avdtp

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/net/context"
)

type waiterState int

const (
	// waiterWillPoll: the command is sent and the caller hasn't started waiting.
	waiterWillPoll waiterState = iota
	// waiterWaiting: the caller is blocked on the ready channel.
	waiterWaiting
	// waiterReceived: the response arrived and hasn't been collected.
	waiterReceived
	// waiterDiscard: the caller lost interest; the response is dropped on arrival.
	waiterDiscard
)

type responseWaiter struct {
	state waiterState
	resp  []byte
	ready chan struct{} // closed on entering waiterReceived
}

// txTable tracks outstanding commands by transaction label. At most 16
// commands can be outstanding; the lowest free label is always used.
type txTable struct {
	mu    sync.Mutex
	used  *bitset.BitSet
	slots [MaxTxID + 1]*responseWaiter
}

func newTxTable() *txTable {
	return &txTable{used: bitset.New(MaxTxID + 1)}
}

// add reserves a label for a new command.
func (t *txTable) add() (TxID, *responseWaiter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.used.NextClear(0)
	if !ok || i > MaxTxID {
		return 0, nil, ErrOutOfRange
	}
	t.used.Set(i)
	w := &responseWaiter{state: waiterWillPoll, ready: make(chan struct{})}
	t.slots[i] = w
	return TxID(i), w, nil
}

// deliver hands the response packet to the waiter for id. It returns false
// if no command is outstanding with that label.
func (t *txTable) deliver(id TxID, pkt []byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := t.slots[id]
	if w == nil {
		return false
	}
	switch w.state {
	case waiterDiscard:
		t.free(id)
	case waiterReceived:
		w.resp = pkt
	default:
		w.state = waiterReceived
		w.resp = pkt
		close(w.ready)
	}
	return true
}

// removeInterest is called when the caller stops waiting for id. A response
// that already arrived is released now; one still in flight is discarded on
// arrival so the label stays reserved until then.
func (t *txTable) removeInterest(id TxID, w *responseWaiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.slots[id] != w {
		return
	}
	if w.state == waiterReceived {
		t.free(id)
		return
	}
	w.state = waiterDiscard
}

// release frees id unconditionally; used when the command never made it out.
func (t *txTable) release(id TxID, w *responseWaiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.slots[id] == w {
		t.free(id)
	}
}

// wait blocks until the response for id arrives, ctx is done, or closed is
// closed. closedErr is returned in the last case.
func (t *txTable) wait(ctx context.Context, id TxID, w *responseWaiter, closed <-chan struct{}, closedErr func() error) ([]byte, error) {
	t.mu.Lock()
	if t.slots[id] != w || w.state == waiterDiscard {
		t.mu.Unlock()
		return nil, ErrAlreadyReceived
	}
	if w.state == waiterWillPoll {
		w.state = waiterWaiting
	}
	t.mu.Unlock()

	select {
	case <-w.ready:
	case <-ctx.Done():
		t.removeInterest(id, w)
		return nil, ctx.Err()
	case <-closed:
		select {
		case <-w.ready:
		default:
			t.removeInterest(id, w)
			return nil, closedErr()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.slots[id] != w {
		return nil, ErrAlreadyReceived
	}
	resp := w.resp
	t.free(id)
	return resp, nil
}

// outstanding returns the number of reserved labels.
func (t *txTable) outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.used.Count())
}

func (t *txTable) free(id TxID) {
	t.used.Clear(uint(id))
	t.slots[id] = nil
}
