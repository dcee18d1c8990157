package service

import "time"

// NewTokenBucketWithClock exposes a limiter driven by a fake clock.
func NewTokenBucketWithClock(rate, capacity float64, now func() time.Time) *TokenBucket {
	return newTokenBucket(rate, capacity, now)
}

func (tb *TokenBucket) EvictIdle(idle time.Duration) int {
	return tb.evictIdle(idle)
}
