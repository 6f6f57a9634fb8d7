// Package ratelimit implements a token-bucket throttle bounding outbound
// request rate against one backend tenant.
//
// Each tenant owns its own bucket; nothing is shared across tenants, so a
// slow or throttled backend never starves the others. The bucket refills
// continuously at the configured rate up to a burst capacity, and callers
// block in Consume until enough tokens are available.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a mutex-guarded token bucket. Tokens accumulate at rate per
// second up to capacity; Consume blocks until the requested tokens are
// available. Safe for concurrent use.
type Bucket struct {
	mu        sync.Mutex
	rate      float64 // tokens per second
	capacity  float64 // burst ceiling
	tokens    float64 // current balance, always in [0, capacity]
	timestamp time.Time

	// sleep is swapped out in tests to observe wait behavior without
	// real delays.
	sleep func(time.Duration)
}

// NewBucket creates a token bucket refilling at rate tokens per second with
// the given burst capacity. A capacity of zero or less defaults to the rate,
// matching the common configuration of one second of burst.
func NewBucket(rate float64, capacity float64) *Bucket {
	if capacity <= 0 {
		capacity = rate
	}
	return &Bucket{
		rate:      rate,
		capacity:  capacity,
		tokens:    capacity,
		timestamp: time.Now(),
		sleep:     time.Sleep,
	}
}

// Consume blocks until n tokens are available, then deducts them. A request
// for zero tokens returns immediately. The wait loop re-measures elapsed
// time on every pass rather than trusting a single computed sleep, so wakeup
// jitter and concurrent consumers cannot drive the balance negative.
func (b *Bucket) Consume(n float64) {
	if n <= 0 {
		return
	}
	for {
		b.mu.Lock()
		b.refill()
		if b.tokens >= n {
			b.tokens -= n
			b.mu.Unlock()
			return
		}
		needed := n - b.tokens
		wait := time.Duration(needed / b.rate * float64(time.Second))
		b.mu.Unlock()

		b.sleep(wait)
	}
}

// Tokens returns the current balance after refilling. Exposed for tests and
// diagnostics; the value is stale the moment the lock is released.
func (b *Bucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	return b.tokens
}

// refill credits tokens for time elapsed since the last observation, capped
// at capacity. Caller must hold the lock.
func (b *Bucket) refill() {
	now := time.Now()
	elapsed := now.Sub(b.timestamp).Seconds()
	b.timestamp = now
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
}
