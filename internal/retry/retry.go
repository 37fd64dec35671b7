// Package retry provides exponential backoff for caller-owned retry policies.
//
// The debugger core never retries on its own: a failed handshake or breakpoint call is
// reported and left to the caller. Callers that want retries, such as the CLI when
// connecting to an instance that is still starting, wrap the call with Do.
//
//	err := retry.Do(ctx, retry.Config{
//	    MaxAttempts:    5,
//	    InitialBackoff: 500 * time.Millisecond,
//	    MaxBackoff:     10 * time.Second,
//	    Jitter:         0.1,
//	}, func(attempt int) error {
//	    return session.Connect(ctx)
//	}, isRetryable)
//
// The backoff before attempt n (n >= 2) is InitialBackoff * 2^(n-2), capped at MaxBackoff,
// plus a jitter that grows linearly with the attempt number.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Config defines the retry behavior for exponential backoff operations.
type Config struct {
	// MaxAttempts is the total number of calls, including the first one.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration. Zero means no cap.
	MaxBackoff time.Duration

	// Jitter spreads later retries further apart (0.0 to 1.0):
	//   jitter_amount = backoff * Jitter * retry / MaxAttempts
	Jitter float64

	// OnRetry, when set, is called before each backoff with the failed attempt and its error.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// ShouldRetryFunc is a function that determines if an error should trigger a retry.
// If nil, every error is retried.
type ShouldRetryFunc func(error) bool

// Do calls fn until it succeeds, shouldRetry rejects its error, attempts run out
// or ctx is done. fn receives the 1-based attempt number.
//
// Exhausting the attempts returns an error wrapping the last failure, so errors.As
// on the result still finds the caller's error types.
func Do(ctx context.Context, cfg Config, fn func(attempt int) error, shouldRetry ShouldRetryFunc) error {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := calculateBackoff(cfg, attempt-1)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt-1, lastErr, backoff)
			}

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}

		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}

		lastErr = err
	}

	if maxAttempts == 1 {
		return lastErr
	}

	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

// calculateBackoff computes the backoff before the given retry (1-based).
//
// With InitialBackoff=100ms, MaxBackoff=1s, Jitter=0.5, MaxAttempts=5:
//   - retry 1: 100ms base + 10ms jitter = 110ms
//   - retry 2: 200ms base + 40ms jitter = 240ms
//   - retry 3: 400ms base + 120ms jitter = 520ms
//   - retry 4: 800ms base + 320ms jitter = 1.12s (MaxBackoff caps the base, not the jitter)
func calculateBackoff(cfg Config, retry int) time.Duration {
	multiplier := math.Pow(2, float64(retry-1))
	backoff := time.Duration(multiplier * float64(cfg.InitialBackoff))

	if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
		backoff = cfg.MaxBackoff
	}

	if cfg.Jitter > 0 && cfg.MaxAttempts > 0 {
		jitterAmount := float64(backoff) * cfg.Jitter * float64(retry) / float64(cfg.MaxAttempts)
		backoff += time.Duration(jitterAmount)
	}

	return backoff
}
