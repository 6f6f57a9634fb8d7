// Package retry wraps single remote calls in an explicit retry policy with
// exponential backoff.
//
// The policy is a plain value: maximum attempts plus a backoff curve. Whether
// a failure is worth retrying is decided by a pure classification of the HTTP
// status: throttling (429) and server-side failures (5xx) are transient,
// every other client error is fatal on the first attempt. When attempts run
// out the last error is returned unchanged so callers can inspect the real
// failure instead of a retry wrapper.
package retry

import (
	"context"
	"errors"
	"time"
)

// Classification of a failed call, derived from the HTTP status code.
type Classification int

const (
	// Fatal failures are returned immediately without another attempt.
	Fatal Classification = iota
	// Retryable failures are retried until attempts run out.
	Retryable
)

// ClassifyStatus maps an HTTP status code onto a retry classification.
// Throttling (429) and any server error (5xx) are transient; all other
// statuses are fatal. Pure function, no side effects.
func ClassifyStatus(status int) Classification {
	if status == 429 || (status >= 500 && status < 600) {
		return Retryable
	}
	return Fatal
}

// StatusCoder is implemented by errors that carry an HTTP status code.
// Errors without a status (connection resets, timeouts) classify as
// retryable since they are transport-level failures.
type StatusCoder interface {
	StatusCode() int
}

// Policy holds the retry parameters for remote calls: attempt ceiling and
// the exponential backoff curve bounds.
type Policy struct {
	MaxAttempts int           // total attempts including the first
	BaseBackoff time.Duration // wait before the second attempt
	MaxBackoff  time.Duration // backoff ceiling
}

// DefaultPolicy matches the backend's documented throttling behavior:
// 5 attempts with waits of 1s, 2s, 4s, 8s capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// Backoff returns the wait before the given attempt (1-based: Backoff(1) is
// the wait after the first failure). Doubles each attempt, capped at
// MaxBackoff.
func (p Policy) Backoff(attempt int) time.Duration {
	wait := p.BaseBackoff
	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if wait > p.MaxBackoff {
		return p.MaxBackoff
	}
	return wait
}

// Do runs fn until it succeeds, fails fatally, or attempts run out. A failed
// attempt is classified by its status code when the error exposes one;
// transport errors without a status are treated as retryable. The context
// is honored between attempts so a cancelled operation stops waiting out its
// backoff. On exhaustion the last error from fn is returned unchanged.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if classify(lastErr) == Fatal {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-time.After(p.Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// classify derives the retry classification for an error. Errors carrying an
// HTTP status use ClassifyStatus; anything else is a transport failure and
// retryable.
func classify(err error) Classification {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return ClassifyStatus(sc.StatusCode())
	}
	return Retryable
}
