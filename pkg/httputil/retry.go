package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient transport failures (connection resets, DNS errors) with this
// type so that [Retry] attempts the operation again after Policy.TransportWait.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RateLimitError marks an upstream 429 response.
// [Retry] waits BackoffStep multiplied by the attempt number before trying again.
type RateLimitError struct{ Err error }

func (e *RateLimitError) Error() string { return e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

// Policy bounds the retry loop.
type Policy struct {
	Attempts      int           // Total attempts including the first
	BackoffStep   time.Duration // Linear step for rate-limited attempts
	TransportWait time.Duration // Fixed wait after a transport failure
}

// DefaultPolicy returns 3 attempts, a 30s rate-limit step and a 5s transport wait.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:      3,
		BackoffStep:   30 * time.Second,
		TransportWait: 5 * time.Second,
	}
}

// Retry executes fn up to p.Attempts times. The attempt number (starting at 1)
// is passed to fn. Only [RateLimitError] and [RetryableError] are retried;
// other errors are returned immediately. Returns the last error if all
// attempts fail, or ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, p Policy, fn func(attempt int) error) error {
	attempts := max(p.Attempts, 1)
	var lastErr error

	for i := 1; i <= attempts; i++ {
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := p.wait(err, i)
		if !ok {
			return err
		}
		if i == attempts {
			break
		}
		if wait <= 0 {
			continue
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return lastErr
}

func (p Policy) wait(err error, attempt int) (time.Duration, bool) {
	switch {
	case IsRateLimited(err):
		return p.BackoffStep * time.Duration(attempt), true
	case IsRetryable(err):
		return p.TransportWait, true
	default:
		return 0, false
	}
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// IsRateLimited reports whether err is wrapped with [RateLimitError].
func IsRateLimited(err error) bool {
	return errors.As(err, new(*RateLimitError))
}
