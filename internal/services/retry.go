package services

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds retries of idempotent, transient-failure-prone
// operations: network fetches and prerequisite checks. File mutations in the
// installer are never retried; they rely on backup/restore instead, because a
// partial mutation cannot be safely repeated.
type RetryPolicy struct {
	Attempts int           // total attempts, minimum 1
	Backoff  time.Duration // linear: attempt n waits n * Backoff
}

// DefaultRetry is the policy applied to workshop API and CDN calls.
var DefaultRetry = RetryPolicy{Attempts: 3, Backoff: 2 * time.Second}

// Do runs fn until it succeeds, the attempts are exhausted, or the context
// is cancelled. The last error is returned wrapped with the attempt count.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		delay := time.Duration(attempt) * p.Backoff
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
