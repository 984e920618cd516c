package bus

import (
	"context"
	"errors"
	"sync/atomic"

	"main/internal/order"
)

var (
	ErrQueueFull   = errors.New("event queue full")
	ErrQueueClosed = errors.New("event queue closed")
)

// Queue is a bounded, non-blocking order-event queue between the
// execution engine and downstream consumers (journal, accounting).
type Queue struct {
	ch     chan order.Event
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan order.Event, capacity)}
}

// TryPublish enqueues an event without blocking.
func (q *Queue) TryPublish(e order.Event) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// TryPublishAll enqueues events in order. Events for a single order must
// stay in emission order (option leg before underlying leg), so a full
// queue aborts mid-batch rather than reordering.
func (q *Queue) TryPublishAll(events ...order.Event) error {
	for _, e := range events {
		if err := q.TryPublish(e); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the queue from accepting new events.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes events until the context is done or the queue is closed.
func (q *Queue) Run(ctx context.Context, handler func(order.Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.ch:
			if !ok {
				return
			}
			handler(e)
		}
	}
}
