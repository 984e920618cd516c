package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"main/pkg/exception"
)

// Bucket grants tokens at a bounded rate. One token is consumed per
// throttled operation. Implementations are safe for concurrent callers.
type Bucket interface {
	Capacity() int64
	AvailableTokens() int64

	// TryConsume atomically takes the tokens if available. On failure no
	// state changes.
	TryConsume(tokens int64) bool

	// Consume blocks until the tokens are taken or timeout elapses.
	// timeout <= 0 waits without bound. On timeout it fails with
	// exception.ErrConsumeTimeout and no tokens are spent.
	Consume(tokens int64, timeout time.Duration) error
}

// LeakyBucket refills a fixed token amount every refill interval, capped
// at capacity. Refill is applied lazily under the lock, so the invariant
// 0 <= available <= capacity holds at every observable instant.
type LeakyBucket struct {
	mu         sync.Mutex
	capacity   int64
	available  int64
	refill     int64
	interval   time.Duration
	lastRefill time.Time

	sleeper Sleeper
	now     func() time.Time
}

// NewLeakyBucket creates a full bucket that refills refillAmount tokens
// every interval, sleeping one interval between consume attempts.
func NewLeakyBucket(capacity, refillAmount int64, interval time.Duration) *LeakyBucket {
	return NewLeakyBucketWith(capacity, refillAmount, interval, IntervalSleeper{Interval: interval}, time.Now)
}

// NewLeakyBucketWith injects the sleep strategy and clock.
func NewLeakyBucketWith(capacity, refillAmount int64, interval time.Duration, sleeper Sleeper, now func() time.Time) *LeakyBucket {
	if capacity <= 0 || refillAmount <= 0 || interval <= 0 {
		panic(fmt.Sprintf("ratelimit: invalid bucket parameters capacity=%d refill=%d interval=%s", capacity, refillAmount, interval))
	}
	return &LeakyBucket{
		capacity:   capacity,
		available:  capacity,
		refill:     refillAmount,
		interval:   interval,
		lastRefill: now(),
		sleeper:    sleeper,
		now:        now,
	}
}

func (b *LeakyBucket) Capacity() int64 {
	return b.capacity
}

func (b *LeakyBucket) AvailableTokens() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applyRefill()
	return b.available
}

func (b *LeakyBucket) TryConsume(tokens int64) bool {
	if tokens <= 0 {
		panic("ratelimit: tokens must be positive")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applyRefill()
	if b.available < tokens {
		return false
	}
	b.available -= tokens
	return true
}

func (b *LeakyBucket) Consume(tokens int64, timeout time.Duration) error {
	if tokens > b.capacity {
		// could never succeed no matter how long we wait
		panic(fmt.Sprintf("ratelimit: requested %d tokens exceeds capacity %d", tokens, b.capacity))
	}
	start := b.now()
	for {
		if b.TryConsume(tokens) {
			return nil
		}
		if timeout > 0 && b.now().Sub(start) >= timeout {
			return exception.ErrConsumeTimeout
		}
		b.sleeper.Sleep()
	}
}

// applyRefill credits whole elapsed intervals. Must hold b.mu.
func (b *LeakyBucket) applyRefill() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill)
	if elapsed < b.interval {
		return
	}
	intervals := int64(elapsed / b.interval)
	b.available += intervals * b.refill
	if b.available > b.capacity {
		b.available = b.capacity
	}
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * b.interval)
}
