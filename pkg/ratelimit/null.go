package ratelimit

import (
	"math"
	"time"
)

// NullBucket never throttles. Use it where no external quota applies.
type NullBucket struct{}

func (NullBucket) Capacity() int64 {
	return math.MaxInt64
}

func (NullBucket) AvailableTokens() int64 {
	return math.MaxInt64
}

func (NullBucket) TryConsume(int64) bool {
	return true
}

func (NullBucket) Consume(int64, time.Duration) error {
	return nil
}
