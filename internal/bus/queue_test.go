package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/internal/order"
)

func TestTryPublishAndRun(t *testing.T) {
	q := NewQueue(8)

	for i := uint64(1); i <= 3; i++ {
		if err := q.TryPublish(order.Event{OrderID: i}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	q.Close()

	var got []uint64
	q.Run(context.Background(), func(e order.Event) {
		got = append(got, e.OrderID)
	})

	if len(got) != 3 {
		t.Fatalf("consumed %d events, want 3", len(got))
	}
	for i, id := range []uint64{1, 2, 3} {
		if got[i] != id {
			t.Fatalf("events out of order: %v", got)
		}
	}
}

func TestTryPublishFull(t *testing.T) {
	q := NewQueue(1)

	if err := q.TryPublish(order.Event{OrderID: 1}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := q.TryPublish(order.Event{OrderID: 2}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("error = %v, want ErrQueueFull", err)
	}
}

func TestTryPublishAllAbortsMidBatch(t *testing.T) {
	q := NewQueue(2)

	err := q.TryPublishAll(
		order.Event{OrderID: 1},
		order.Event{OrderID: 2},
		order.Event{OrderID: 3},
	)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("error = %v, want ErrQueueFull", err)
	}

	// the part of the batch that fit stays queued, in order
	q.Close()
	var got []uint64
	q.Run(context.Background(), func(e order.Event) {
		got = append(got, e.OrderID)
	})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("queued events = %v, want [1 2]", got)
	}
}

func TestPublishAfterClose(t *testing.T) {
	q := NewQueue(4)
	q.Close()
	q.Close() // idempotent

	if err := q.TryPublish(order.Event{OrderID: 1}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("error = %v, want ErrQueueClosed", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(order.Event) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
