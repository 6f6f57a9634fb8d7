package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// statusErr is a test error carrying an HTTP status code
type statusErr struct {
	code int
}

func (e *statusErr) Error() string   { return fmt.Sprintf("status %d", e.code) }
func (e *statusErr) StatusCode() int { return e.code }

// fastPolicy returns the default policy with backoff shrunk for tests
func fastPolicy() Policy {
	p := DefaultPolicy()
	p.BaseBackoff = time.Microsecond
	p.MaxBackoff = time.Millisecond
	return p
}

// TestClassifyStatus tests the status code classification table
func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Classification
	}{
		{429, Retryable},
		{500, Retryable},
		{502, Retryable},
		{599, Retryable},
		{400, Fatal},
		{401, Fatal},
		{403, Fatal},
		{404, Fatal},
		{200, Fatal},
	}

	for _, tt := range tests {
		if got := ClassifyStatus(tt.status); got != tt.want {
			t.Errorf("ClassifyStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// TestRetrySucceedsAfterTransientFailures tests that a call failing with 500
// three times then succeeding makes exactly 4 attempts
func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		if attempts <= 3 {
			return &statusErr{code: 500}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() = %v, want success on attempt 4", err)
	}
	if attempts != 4 {
		t.Fatalf("Do() made %d attempts, want 4", attempts)
	}
}

// TestFatalStatusFailsImmediately tests that a 404 makes exactly 1 attempt
func TestFatalStatusFailsImmediately(t *testing.T) {
	attempts := 0
	original := &statusErr{code: 404}
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		return original
	})

	if attempts != 1 {
		t.Fatalf("Do() made %d attempts for a 404, want 1", attempts)
	}
	if !errors.Is(err, original) {
		t.Fatalf("Do() = %v, want the original error", err)
	}
}

// TestExhaustionReturnsLastError tests that five straight 500s re-raise the
// original error after exactly 5 attempts
func TestExhaustionReturnsLastError(t *testing.T) {
	attempts := 0
	original := &statusErr{code: 500}
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		return original
	})

	if attempts != 5 {
		t.Fatalf("Do() made %d attempts, want 5", attempts)
	}
	if !errors.Is(err, original) {
		t.Fatalf("Do() = %v, want the original error unchanged", err)
	}
}

// TestTransportErrorsAreRetryable tests that errors without a status code
// are retried
func TestTransportErrorsAreRetryable(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() = %v, want success on retry", err)
	}
	if attempts != 2 {
		t.Fatalf("Do() made %d attempts, want 2", attempts)
	}
}

// TestWrappedStatusErrorIsClassified tests that status codes survive %w wrapping
func TestWrappedStatusErrorIsClassified(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		return fmt.Errorf("commit batch 3: %w", &statusErr{code: 403})
	})

	if attempts != 1 {
		t.Fatalf("Do() made %d attempts for a wrapped 403, want 1", attempts)
	}
	if err == nil {
		t.Fatal("Do() = nil, want wrapped error")
	}
}

// TestBackoffCurve tests the exponential doubling and cap
func TestBackoffCurve(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

// TestContextCancellationStopsWaiting tests that cancellation interrupts backoff
func TestContextCancellationStopsWaiting(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseBackoff: time.Minute, MaxBackoff: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func() error {
			attempts++
			return &statusErr{code: 500}
		})
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Do() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do() did not return after context cancellation")
	}
}
