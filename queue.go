package avdtp

import (
	"sync"

	"golang.org/x/net/context"
)

type listenerState int

const (
	listenerNone    listenerState = iota // no request stream has been taken
	listenerNew                          // taken, not currently waiting
	listenerWaiting                      // blocked in next
)

// unparsedRequest is a command as drained from the channel. err is set
// instead when the packet couldn't be framed.
type unparsedRequest struct {
	hdr  SignalingHeader
	body []byte
	err  error
}

// listener is one registration of the request consumer. A listener is
// never reused: once released, its next calls fail.
type listener struct {
	notify chan struct{} // 1-slot wakeup, signalled on push
	done   chan struct{} // closed on release
	once   sync.Once
}

// requestQueue holds inbound commands in arrival order until the request
// stream consumes them.
type requestQueue struct {
	mu    sync.Mutex
	state listenerState
	owner *listener
	items []unparsedRequest
}

func newRequestQueue() *requestQueue {
	return &requestQueue{}
}

// take registers the single consumer. It returns nil if one exists.
func (q *requestQueue) take() *listener {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.owner != nil {
		return nil
	}
	l := &listener{notify: make(chan struct{}, 1), done: make(chan struct{})}
	q.owner = l
	q.state = listenerNew
	return l
}

// release unregisters l so the stream can be taken again. A next blocked
// on l returns ErrRequestStreamClosed.
func (q *requestQueue) release(l *listener) {
	q.mu.Lock()
	if q.owner == l {
		q.owner = nil
		q.state = listenerNone
	}
	q.mu.Unlock()
	l.once.Do(func() { close(l.done) })
}

func (q *requestQueue) push(r unparsedRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, r)
	if q.owner == nil {
		return
	}
	select {
	case q.owner.notify <- struct{}{}:
	default:
	}
}

func (q *requestQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// consumerState returns the state of the current consumer.
func (q *requestQueue) consumerState() listenerState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// next returns the oldest queued request on behalf of l. Requests queued
// before closed fires are still returned; after that closedErr is returned.
// Once l is released next returns ErrRequestStreamClosed and leaves the
// queue to the new owner.
func (q *requestQueue) next(ctx context.Context, l *listener, closed <-chan struct{}, closedErr func() error) (unparsedRequest, error) {
	done := false
	for {
		q.mu.Lock()
		if q.owner != l {
			q.mu.Unlock()
			return unparsedRequest{}, ErrRequestStreamClosed
		}
		if len(q.items) > 0 {
			r := q.items[0]
			q.items[0] = unparsedRequest{}
			q.items = q.items[1:]
			q.state = listenerNew
			q.mu.Unlock()
			return r, nil
		}
		if done {
			q.state = listenerNew
			q.mu.Unlock()
			return unparsedRequest{}, closedErr()
		}
		q.state = listenerWaiting
		q.mu.Unlock()

		select {
		case <-l.notify:
		case <-l.done:
		case <-closed:
			done = true
		case <-ctx.Done():
			q.mu.Lock()
			if q.owner == l {
				q.state = listenerNew
			}
			q.mu.Unlock()
			return unparsedRequest{}, ctx.Err()
		}
	}
}
