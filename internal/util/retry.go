// ABOUTME: Retry helpers with exponential backoff and jitter
// ABOUTME: Shared by the OpenAI client for transient upstream failures
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// maxBackoff caps the per-attempt delay
const maxBackoff = 30 * time.Second

// Backoff returns the delay before retry number attempt (1-based).
// The base delay doubles each attempt with +/-25% jitter.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	d := base * time.Duration(1<<uint(attempt))
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(d)/2)) - d/4
	return d + jitter
}

// Do runs fn up to attempts times, sleeping with Backoff between tries.
// It returns nil on the first success, the last error otherwise, and stops
// early if ctx is cancelled.
func Do(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(Backoff(base, i)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
