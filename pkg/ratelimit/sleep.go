package ratelimit

import (
	"runtime"
	"time"
)

// Sleeper decides how a blocked Consume waits between attempts.
type Sleeper interface {
	Sleep()
}

// YieldSleeper gives up the processor without sleeping. Suitable when the
// refill interval is far below scheduler resolution.
type YieldSleeper struct{}

func (YieldSleeper) Sleep() {
	runtime.Gosched()
}

// IntervalSleeper sleeps a fixed duration between attempts.
type IntervalSleeper struct {
	Interval time.Duration
}

func (s IntervalSleeper) Sleep() {
	time.Sleep(s.Interval)
}
