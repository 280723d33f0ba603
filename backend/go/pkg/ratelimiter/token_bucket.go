package ratelimiter

import (
	"sync"
	"time"
)

// TokenBucket allows bursts up to capacity and refills at rate tokens per second.
type TokenBucket struct {
	rate     float64
	capacity float64
	tokens   float64
	last     time.Time
	now      func() time.Time
	mu       sync.Mutex
}

// NewTokenBucket creates a bucket that starts full.
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return newTokenBucket(rate, capacity, time.Now)
}

func newTokenBucket(rate float64, capacity int, now func() time.Time) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	return &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		last:     now(),
		now:      now,
	}
}

// Allow refills the bucket for the elapsed time and consumes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if elapsed := now.Sub(tb.last); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}
